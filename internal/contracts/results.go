package contracts

import "errors"

// Priority levels of a skill gap.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Difficulty levels of an interview question.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Proficiency bounds of a skill gap level.
const (
	MinLevel = 0
	MaxLevel = 5
)

// Upper bounds of the plain integer fields.
const (
	MaxYearsOfExperience = 80
	MaxRoadmapWeeks      = 520
	MaxWeeklyHours       = 168
)

// ResumeAnalysis is the structured view of a candidate resume.
type ResumeAnalysis struct {
	Name              string   `json:"name" yaml:"name"`
	YearsOfExperience int      `json:"years_of_experience" yaml:"years_of_experience" validate:"min=0,max=80"`
	Skills            []string `json:"skills" yaml:"skills"`
	Projects          []string `json:"projects" yaml:"projects"`
	Strengths         []string `json:"strengths" yaml:"strengths"`
	Weaknesses        []string `json:"weaknesses" yaml:"weaknesses"`
}

// RoleRequirements describes what a target role expects from a candidate.
type RoleRequirements struct {
	RequiredSkills     []string `json:"required_skills" yaml:"required_skills"`
	ExpectedExperience string   `json:"expected_experience" yaml:"expected_experience"`
	CommonTools        []string `json:"common_tools" yaml:"common_tools"`
	RoleSummary        string   `json:"role_summary" yaml:"role_summary"`
}

// SkillGap compares the current and required proficiency of one skill.
type SkillGap struct {
	SkillName     string `json:"skill_name" yaml:"skill_name"`
	CurrentLevel  int    `json:"current_level" yaml:"current_level" validate:"min=0,max=5"`
	RequiredLevel int    `json:"required_level" yaml:"required_level" validate:"min=0,max=5"`
	Priority      string `json:"priority" yaml:"priority" validate:"oneof=low medium high"`
	Reasoning     string `json:"reasoning" yaml:"reasoning"`
}

type SkillGapAnalysis struct {
	Gaps []SkillGap `json:"gaps" yaml:"gaps" validate:"dive"`
}

// RoadmapStep is one week of the learning plan.
type RoadmapStep struct {
	WeekNumber           int      `json:"week_number" yaml:"week_number" validate:"min=1,max=520"`
	LearningGoal         string   `json:"learning_goal" yaml:"learning_goal"`
	RecommendedResources []string `json:"recommended_resources" yaml:"recommended_resources"`
	EstimatedHours       int      `json:"estimated_hours" yaml:"estimated_hours" validate:"min=0,max=168"`
}

type CareerRoadmap struct {
	Roadmap []RoadmapStep `json:"roadmap" yaml:"roadmap" validate:"dive"`
}

type InterviewQuestion struct {
	Question             string   `json:"question" yaml:"question"`
	Difficulty           string   `json:"difficulty" yaml:"difficulty" validate:"oneof=easy medium hard"`
	ExpectedAnswerPoints []string `json:"expected_answer_points" yaml:"expected_answer_points"`
}

type InterviewSimulation struct {
	Questions []InterviewQuestion `json:"questions" yaml:"questions" validate:"dive"`
}

// Report combines the output of all five stages.
type Report struct {
	ResumeAnalysis     ResumeAnalysis      `json:"resume_analysis" yaml:"resume_analysis"`
	RoleRequirements   RoleRequirements    `json:"role_requirements" yaml:"role_requirements"`
	SkillGaps          []SkillGap          `json:"skill_gaps" yaml:"skill_gaps" validate:"dive"`
	Roadmap            []RoadmapStep       `json:"roadmap" yaml:"roadmap" validate:"dive"`
	InterviewQuestions []InterviewQuestion `json:"interview_questions" yaml:"interview_questions" validate:"dive"`
}

var errIncompleteReport = errors.New("report requires all five stage results")

// NewReport assembles and validates the final report.
func NewReport(resume *ResumeAnalysis, role *RoleRequirements, gaps *SkillGapAnalysis, roadmap *CareerRoadmap, interview *InterviewSimulation) (*Report, error) {
	if resume == nil || role == nil || gaps == nil || roadmap == nil || interview == nil {
		return nil, errIncompleteReport
	}

	report := &Report{
		ResumeAnalysis:     *resume,
		RoleRequirements:   *role,
		SkillGaps:          gaps.Gaps,
		Roadmap:            roadmap.Roadmap,
		InterviewQuestions: interview.Questions,
	}

	if err := ValidateStruct("report", report); err != nil {
		return nil, err
	}

	return report, nil
}

func stringList(description string) *Schema {
	return Array(String(""), description)
}

var (
	ResumeAnalysisContract = MustContract[ResumeAnalysis]("resume_analysis", Object(
		"Structured information extracted from a resume",
		Prop("name", String("Full name of the candidate")),
		Prop("years_of_experience", IntRange(0, MaxYearsOfExperience, "Total years of professional experience")),
		Prop("skills", stringList("List of technical and soft skills identified")),
		Prop("projects", stringList("Key projects mentioned in the resume")),
		Prop("strengths", stringList("Identified professional strengths")),
		Prop("weaknesses", stringList("Areas for improvement or missing skills")),
	))

	RoleRequirementsContract = MustContract[RoleRequirements]("role_requirements", Object(
		"Skills and experience required by the target role",
		Prop("required_skills", stringList("Skills mandatory for the role")),
		Prop("expected_experience", String("Years or type of experience expected")),
		Prop("common_tools", stringList("Tools or software commonly used in this role")),
		Prop("role_summary", String("A brief summary of what the role entails")),
	))

	skillGapSchema = Object("",
		Prop("skill_name", String("")),
		Prop("current_level", IntRange(MinLevel, MaxLevel, "Current proficiency (0-5)")),
		Prop("required_level", IntRange(MinLevel, MaxLevel, "Required proficiency (0-5)")),
		Prop("priority", Enum("", PriorityLow, PriorityMedium, PriorityHigh)),
		Prop("reasoning", String("")),
	)

	SkillGapAnalysisContract = MustContract[SkillGapAnalysis]("skill_gap_analysis", Object(
		"Skill gaps between the candidate and the target role",
		Prop("gaps", Array(skillGapSchema, "")),
	))

	roadmapStepSchema = Object("",
		Prop("week_number", IntRange(1, MaxRoadmapWeeks, "")),
		Prop("learning_goal", String("")),
		Prop("recommended_resources", stringList("")),
		Prop("estimated_hours", IntRange(0, MaxWeeklyHours, "")),
	)

	CareerRoadmapContract = MustContract[CareerRoadmap]("career_roadmap", Object(
		"Week-by-week learning roadmap",
		Prop("roadmap", Array(roadmapStepSchema, "")),
	))

	interviewQuestionSchema = Object("",
		Prop("question", String("")),
		Prop("difficulty", Enum("", DifficultyEasy, DifficultyMedium, DifficultyHard)),
		Prop("expected_answer_points", stringList("")),
	)

	InterviewSimulationContract = MustContract[InterviewSimulation]("interview_simulation", Object(
		"Interview questions targeting the role and the weak areas",
		Prop("questions", Array(interviewQuestionSchema, "")),
	))
)
