package pipeline

import (
	"embed"
	"fmt"

	"github.com/spigell/career-companion/internal/agent"
	"github.com/spigell/career-companion/internal/contracts"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageResumeAnalysis      Stage = "resume_analysis"
	StageRoleInterpretation  Stage = "role_interpretation"
	StageSkillGapAnalysis    Stage = "skill_gap_analysis"
	StageRoadmapGeneration   Stage = "roadmap_generation"
	StageInterviewSimulation Stage = "interview_simulation"
)

// Stages lists the pipeline steps in execution order.
var Stages = []Stage{
	StageResumeAnalysis,
	StageRoleInterpretation,
	StageSkillGapAnalysis,
	StageRoadmapGeneration,
	StageInterviewSimulation,
}

//go:embed prompts/*.md
var promptFS embed.FS

func instructions(name string) string {
	data, err := promptFS.ReadFile("prompts/" + name + ".md")
	if err != nil {
		panic(fmt.Sprintf("missing embedded prompt %s: %v", name, err))
	}
	return string(data)
}

var (
	resumeAnalyzer = agent.MustSpec(string(StageResumeAnalysis),
		instructions("resume_analysis"), contracts.ResumeAnalysisContract)
	roleInterpreter = agent.MustSpec(string(StageRoleInterpretation),
		instructions("role_requirements"), contracts.RoleRequirementsContract)
	skillGapAnalyzer = agent.MustSpec(string(StageSkillGapAnalysis),
		instructions("skill_gap_analysis"), contracts.SkillGapAnalysisContract)
	roadmapPlanner = agent.MustSpec(string(StageRoadmapGeneration),
		instructions("career_roadmap"), contracts.CareerRoadmapContract)
	interviewer = agent.MustSpec(string(StageInterviewSimulation),
		instructions("interview_simulation"), contracts.InterviewSimulationContract)
)
