// Package pipeline chains the five career agents into one report. Every stage
// prompt embeds the JSON of the results it depends on.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/career-companion/internal/agent"
	"github.com/spigell/career-companion/internal/contracts"
	"github.com/spigell/career-companion/internal/logger"
)

// Options tunes how a run is scheduled.
type Options struct {
	// ParallelIntake runs resume analysis and role interpretation
	// concurrently. Both stages only depend on user input.
	ParallelIntake bool `mapstructure:"parallel-intake"`
}

// Orchestrator runs the pipeline stages through a shared agent runner.
type Orchestrator struct {
	runner  *agent.Runner
	logger  *zap.Logger
	options Options
}

// New creates an orchestrator. It holds no per-run state and may serve
// concurrent runs.
func New(runner *agent.Runner, log *zap.Logger, opts Options) (*Orchestrator, error) {
	if runner == nil {
		return nil, fmt.Errorf("agent runner is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Orchestrator{runner: runner, logger: log, options: opts}, nil
}

// Run executes all stages and assembles the report. Any stage failure aborts
// the run and no partial report is returned.
func (o *Orchestrator) Run(ctx context.Context, resumeText, role string) (*contracts.Report, error) {
	runID := uuid.NewString()
	ctx = withRunID(ctx, runID)
	log := logger.WithFields(o.logger, zap.String(logger.FieldRunID, runID))
	started := time.Now()

	if strings.TrimSpace(resumeText) == "" {
		return nil, &StageError{Stage: StageResumeAnalysis, Err: ErrEmptyResume}
	}
	if strings.TrimSpace(role) == "" {
		return nil, &StageError{Stage: StageRoleInterpretation, Err: ErrEmptyRole}
	}

	log.Info("pipeline started",
		zap.Int("resume_length", len(resumeText)),
		zap.String("role", role),
		zap.Bool("parallel_intake", o.options.ParallelIntake),
	)

	resume, requirements, err := o.intake(ctx, resumeText, role)
	if err != nil {
		log.Error("pipeline aborted", zap.Error(err))
		return nil, err
	}

	gaps, err := o.AnalyzeSkillGaps(ctx, resume, requirements)
	if err != nil {
		log.Error("pipeline aborted", zap.Error(err))
		return nil, err
	}

	roadmap, err := o.GenerateRoadmap(ctx, gaps)
	if err != nil {
		log.Error("pipeline aborted", zap.Error(err))
		return nil, err
	}

	interview, err := o.SimulateInterview(ctx, requirements, gaps)
	if err != nil {
		log.Error("pipeline aborted", zap.Error(err))
		return nil, err
	}

	report, err := contracts.NewReport(resume, requirements, gaps, roadmap, interview)
	if err != nil {
		return nil, fmt.Errorf("assemble report: %w", err)
	}

	log.Info("pipeline finished",
		zap.Duration("took", time.Since(started)),
		zap.Int("skill_gaps", len(report.SkillGaps)),
		zap.Int("roadmap_weeks", len(report.Roadmap)),
		zap.Int("interview_questions", len(report.InterviewQuestions)),
	)

	return report, nil
}

func (o *Orchestrator) intake(ctx context.Context, resumeText, role string) (*contracts.ResumeAnalysis, *contracts.RoleRequirements, error) {
	if !o.options.ParallelIntake {
		resume, err := o.AnalyzeResume(ctx, resumeText)
		if err != nil {
			return nil, nil, err
		}
		requirements, err := o.InterpretRole(ctx, role)
		if err != nil {
			return nil, nil, err
		}
		return resume, requirements, nil
	}

	var (
		resume       *contracts.ResumeAnalysis
		requirements *contracts.RoleRequirements
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resume, err = o.AnalyzeResume(gctx, resumeText)
		return err
	})
	g.Go(func() error {
		var err error
		requirements, err = o.InterpretRole(gctx, role)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return resume, requirements, nil
}

// AnalyzeResume extracts structured information from resume text.
func (o *Orchestrator) AnalyzeResume(ctx context.Context, text string) (*contracts.ResumeAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &StageError{Stage: StageResumeAnalysis, Err: ErrEmptyResume}
	}

	return runStage(ctx, o, resumeAnalyzer, StageResumeAnalysis, "Resume Text:\n"+text)
}

// InterpretRole lists what the target role requires.
func (o *Orchestrator) InterpretRole(ctx context.Context, role string) (*contracts.RoleRequirements, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, &StageError{Stage: StageRoleInterpretation, Err: ErrEmptyRole}
	}

	return runStage(ctx, o, roleInterpreter, StageRoleInterpretation, "Target Role: "+role)
}

// AnalyzeSkillGaps compares a resume with the role requirements.
func (o *Orchestrator) AnalyzeSkillGaps(ctx context.Context, resume *contracts.ResumeAnalysis, role *contracts.RoleRequirements) (*contracts.SkillGapAnalysis, error) {
	prompt, err := composePrompt(
		promptPart{label: "Resume Info", value: resume},
		promptPart{label: "Target Role Requirements", value: role},
	)
	if err != nil {
		return nil, &StageError{Stage: StageSkillGapAnalysis, Err: err}
	}

	return runStage(ctx, o, skillGapAnalyzer, StageSkillGapAnalysis, prompt)
}

// GenerateRoadmap plans week-by-week learning for the given gaps.
func (o *Orchestrator) GenerateRoadmap(ctx context.Context, gaps *contracts.SkillGapAnalysis) (*contracts.CareerRoadmap, error) {
	prompt, err := composePrompt(promptPart{label: "Skill Gaps", value: gaps})
	if err != nil {
		return nil, &StageError{Stage: StageRoadmapGeneration, Err: err}
	}

	return runStage(ctx, o, roadmapPlanner, StageRoadmapGeneration, prompt)
}

// SimulateInterview drafts interview questions aimed at the role and the gaps.
func (o *Orchestrator) SimulateInterview(ctx context.Context, role *contracts.RoleRequirements, gaps *contracts.SkillGapAnalysis) (*contracts.InterviewSimulation, error) {
	prompt, err := composePrompt(
		promptPart{label: "Target Role", value: role},
		promptPart{label: "Skill Gaps", value: gaps},
	)
	if err != nil {
		return nil, &StageError{Stage: StageInterviewSimulation, Err: err}
	}

	return runStage(ctx, o, interviewer, StageInterviewSimulation, prompt)
}

func runStage[T any](ctx context.Context, o *Orchestrator, spec *agent.Spec[T], stage Stage, prompt string) (*T, error) {
	log := logger.WithFields(o.logger, zap.String(logger.FieldStage, string(stage)))
	if id, ok := runIDFrom(ctx); ok {
		log = log.With(zap.String(logger.FieldRunID, id))
	}

	started := time.Now()
	log.Info("stage started")

	result, err := agent.Run(ctx, o.runner, spec, prompt)
	if err != nil {
		return nil, &StageError{Stage: stage, Err: err}
	}

	log.Info("stage finished", zap.Duration("took", time.Since(started)))
	return result, nil
}

type promptPart struct {
	label string
	value any
}

// composePrompt renders "Label: <json>" lines in the given order.
func composePrompt(parts ...promptPart) (string, error) {
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if isNil(p.value) {
			return "", fmt.Errorf("%s is required", strings.ToLower(p.label))
		}
		data, err := json.Marshal(p.value)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", strings.ToLower(p.label), err)
		}
		lines = append(lines, p.label+": "+string(data))
	}
	return strings.Join(lines, "\n"), nil
}

func isNil(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *contracts.ResumeAnalysis:
		return t == nil
	case *contracts.RoleRequirements:
		return t == nil
	case *contracts.SkillGapAnalysis:
		return t == nil
	default:
		return false
	}
}

type runIDKey struct{}

func withRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func runIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}
