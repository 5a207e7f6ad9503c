package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaJSONSchemaRendersConstraints(t *testing.T) {
	doc := SkillGapAnalysisContract.Schema.JSONSchema()

	assert.Equal(t, jsonSchemaDraft, doc["$schema"])
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []string{"gaps"}, doc["required"])

	gaps := doc["properties"].(map[string]any)["gaps"].(map[string]any)
	assert.Equal(t, "array", gaps["type"])

	item := gaps["items"].(map[string]any)
	assert.Equal(t, []string{"skill_name", "current_level", "required_level", "priority", "reasoning"}, item["required"])

	props := item["properties"].(map[string]any)
	level := props["current_level"].(map[string]any)
	assert.Equal(t, "integer", level["type"])
	assert.Equal(t, MinLevel, level["minimum"])
	assert.Equal(t, MaxLevel, level["maximum"])

	priority := props["priority"].(map[string]any)
	assert.Equal(t, []any{"low", "medium", "high"}, priority["enum"])
}

func TestNewReport(t *testing.T) {
	resume := &ResumeAnalysis{Name: "John Doe", YearsOfExperience: 5, Skills: []string{"Python"}}
	role := &RoleRequirements{RequiredSkills: []string{"Python", "Cloud"}, ExpectedExperience: "5+ years", RoleSummary: "A cool role"}
	gaps := &SkillGapAnalysis{Gaps: []SkillGap{{SkillName: "Cloud", CurrentLevel: 1, RequiredLevel: 4, Priority: PriorityHigh}}}
	roadmap := &CareerRoadmap{Roadmap: []RoadmapStep{{WeekNumber: 1, LearningGoal: "AWS basics", EstimatedHours: 6}}}
	interview := &InterviewSimulation{Questions: []InterviewQuestion{{Question: "Explain IAM", Difficulty: DifficultyMedium}}}

	report, err := NewReport(resume, role, gaps, roadmap, interview)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", report.ResumeAnalysis.Name)
	assert.Equal(t, gaps.Gaps, report.SkillGaps)
	assert.Equal(t, roadmap.Roadmap, report.Roadmap)
	assert.Equal(t, interview.Questions, report.InterviewQuestions)

	t.Run("missing stage", func(t *testing.T) {
		_, err := NewReport(resume, role, gaps, nil, interview)
		assert.ErrorIs(t, err, errIncompleteReport)
	})

	t.Run("invalid values", func(t *testing.T) {
		bad := &SkillGapAnalysis{Gaps: []SkillGap{{SkillName: "Cloud", CurrentLevel: 9, RequiredLevel: 4, Priority: "urgent"}}}
		_, err := NewReport(resume, role, bad, roadmap, interview)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Errors, 2)
	})
}
