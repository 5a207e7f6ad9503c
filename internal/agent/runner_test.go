package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/career-companion/internal/ai"
	"github.com/spigell/career-companion/internal/contracts"
	"github.com/spigell/career-companion/internal/roster"
)

type probe struct {
	X int `json:"x" validate:"min=0"`
}

var probeSpec = MustSpec("probe", "Answer with x.", contracts.MustContract[probe](
	"probe",
	contracts.Object("", contracts.Prop("x", contracts.Integer("value"))),
))

type reply struct {
	out string
	err error
}

// fakeGenerator answers per model and records every call in order.
type fakeGenerator struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   []ai.Request
}

func newFakeGenerator(replies map[string]reply) *fakeGenerator {
	return &fakeGenerator{replies: replies}
}

func (f *fakeGenerator) Generate(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, req)
	r, ok := f.replies[req.Model]
	if !ok {
		return "", &ai.Error{Kind: ai.KindUnknown, Provider: "fake", Model: req.Model, Err: errors.New("unexpected model")}
	}
	return r.out, r.err
}

func (f *fakeGenerator) Provider() string { return "fake" }

func (f *fakeGenerator) models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Model)
	}
	return out
}

func serverError(model string) error {
	return &ai.Error{Kind: ai.KindTransport, Provider: "fake", Model: model, StatusCode: 500, Err: errors.New("500 Server Error")}
}

func unauthorized(model string) error {
	return &ai.Error{Kind: ai.KindUnauthorized, Provider: "fake", Model: model, StatusCode: 401, Err: errors.New("401 Unauthorized")}
}

func newTestRunner(t *testing.T, gen ai.Generator, models ...string) *Runner {
	t.Helper()

	r, err := roster.New(models...)
	require.NoError(t, err)
	runner, err := NewRunner(gen, r, zap.NewNop(), 0)
	require.NoError(t, err)
	return runner
}

func TestRunTransientFailuresThenSuccess(t *testing.T) {
	models := []string{"m1", "m2", "m3", "m4", "m5"}

	for k := 0; k < len(models); k++ {
		t.Run(fmt.Sprintf("fail_%d", k), func(t *testing.T) {
			replies := make(map[string]reply, len(models))
			for i, m := range models {
				switch {
				case i < k:
					replies[m] = reply{err: serverError(m)}
				case i == k:
					replies[m] = reply{out: fmt.Sprintf(`{"x": %d}`, i)}
				default:
					replies[m] = reply{out: `{"x": 99}`}
				}
			}
			gen := newFakeGenerator(replies)

			got, err := Run(context.Background(), newTestRunner(t, gen, models...), probeSpec, "p")
			require.NoError(t, err)
			assert.Equal(t, k, got.X)
			assert.Equal(t, models[:k+1], gen.models())
		})
	}
}

func TestRunScenarioServerErrorEmptyThenValid(t *testing.T) {
	gen := newFakeGenerator(map[string]reply{
		"m1": {err: serverError("m1")},
		"m2": {out: ""},
		"m3": {out: `{"x": 7}`},
	})

	got, err := Run(context.Background(), newTestRunner(t, gen, "m1", "m2", "m3"), probeSpec, "p")
	require.NoError(t, err)
	assert.Equal(t, &probe{X: 7}, got)
	assert.Equal(t, []string{"m1", "m2", "m3"}, gen.models())
}

func TestRunCredentialErrorShortCircuits(t *testing.T) {
	gen := newFakeGenerator(map[string]reply{
		"m1": {err: unauthorized("m1")},
		"m2": {out: `{"x": 1}`},
	})

	got, err := Run(context.Background(), newTestRunner(t, gen, "m1", "m2"), probeSpec, "p")
	require.Error(t, err)
	assert.Nil(t, got)

	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "probe", credErr.Agent)
	assert.Equal(t, "m1", credErr.Model)
	assert.True(t, ai.IsUnauthorized(err))
	assert.Equal(t, []string{"m1"}, gen.models())
}

func TestRunCredentialErrorAfterTransientFailure(t *testing.T) {
	gen := newFakeGenerator(map[string]reply{
		"m1": {out: "not json at all"},
		"m2": {err: unauthorized("m2")},
		"m3": {out: `{"x": 1}`},
	})

	_, err := Run(context.Background(), newTestRunner(t, gen, "m1", "m2", "m3"), probeSpec, "p")
	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "m2", credErr.Model)
	assert.Equal(t, []string{"m1", "m2"}, gen.models())
}

func TestRunExhaustedRosterKeepsLastError(t *testing.T) {
	last := serverError("m3")
	gen := newFakeGenerator(map[string]reply{
		"m1": {out: `{"x": "seven"}`},
		"m2": {out: "   "},
		"m3": {err: last},
	})

	_, err := Run(context.Background(), newTestRunner(t, gen, "m1", "m2", "m3"), probeSpec, "p")
	require.Error(t, err)

	var exhausted *ExhaustedRosterError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "probe", exhausted.Agent)
	assert.Same(t, last, errors.Unwrap(err))
	require.Len(t, exhausted.Attempts, 3)
	assert.Equal(t, ai.KindMalformedOutput, exhausted.Attempts[0].Kind)
	assert.Equal(t, ai.KindEmptyOutput, exhausted.Attempts[1].Kind)
	assert.Equal(t, ai.KindTransport, exhausted.Attempts[2].Kind)
	assert.Contains(t, err.Error(), "m1, m2, m3")

	var credErr *CredentialError
	assert.False(t, errors.As(err, &credErr))
}

func TestRunEmptyOutputOnLastModelExhausts(t *testing.T) {
	tests := []struct {
		name  string
		reply reply
	}{
		{name: "blank text", reply: reply{out: "\n\t "}},
		{name: "json null", reply: reply{out: "null"}},
		{name: "backend empty output", reply: reply{err: &ai.Error{Kind: ai.KindEmptyOutput, Provider: "fake", Model: "m1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newFakeGenerator(map[string]reply{"m1": tt.reply})

			_, err := Run(context.Background(), newTestRunner(t, gen, "m1"), probeSpec, "p")
			var exhausted *ExhaustedRosterError
			require.ErrorAs(t, err, &exhausted)
			assert.ErrorIs(t, err, ErrEmptyOutput)
			assert.Equal(t, []string{"m1"}, gen.models())
		})
	}
}

func TestRunSchemaViolationMovesToNextModel(t *testing.T) {
	gen := newFakeGenerator(map[string]reply{
		"m1": {out: `{"y": 1}`},
		"m2": {out: "```json\n{\"x\": 3}\n```"},
	})

	got, err := Run(context.Background(), newTestRunner(t, gen, "m1", "m2"), probeSpec, "p")
	require.NoError(t, err)
	assert.Equal(t, 3, got.X)
	assert.Equal(t, []string{"m1", "m2"}, gen.models())
}

func TestRunSchemaViolationIsReported(t *testing.T) {
	gen := newFakeGenerator(map[string]reply{"m1": {out: `{"x": -1}`}})

	_, err := Run(context.Background(), newTestRunner(t, gen, "m1"), probeSpec, "p")
	var schemaErr *SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "m1", schemaErr.Model)
	require.NotEmpty(t, schemaErr.Err.Fields())
}

func TestRunSendsSpecAndModelPerCall(t *testing.T) {
	gen := newFakeGenerator(map[string]reply{
		"m1": {err: serverError("m1")},
		"m2": {out: `{"x": 1}`},
	})

	_, err := Run(context.Background(), newTestRunner(t, gen, "m1", "m2"), probeSpec, "the prompt")
	require.NoError(t, err)

	require.Len(t, gen.calls, 2)
	for i, call := range gen.calls {
		assert.Equal(t, []string{"m1", "m2"}[i], call.Model)
		assert.Equal(t, "Answer with x.", call.Instructions)
		assert.Equal(t, "the prompt", call.Prompt)
		assert.Equal(t, "probe", call.ContractName)
		assert.Same(t, probeSpec.Contract.Schema, call.Schema)
	}
}

func TestRunStopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &cancellingGenerator{cancel: cancel}

	r, err := roster.New("m1", "m2", "m3")
	require.NoError(t, err)
	runner, err := NewRunner(gen, r, zap.NewNop(), 0)
	require.NoError(t, err)

	_, err = Run(ctx, runner, probeSpec, "p")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, gen.calls)
}

type cancellingGenerator struct {
	cancel context.CancelFunc
	calls  int
}

func (g *cancellingGenerator) Generate(ctx context.Context, req ai.Request) (string, error) {
	g.calls++
	g.cancel()
	return "", &ai.Error{Kind: ai.KindTransport, Provider: "fake", Model: req.Model, Err: ctx.Err()}
}

func (g *cancellingGenerator) Provider() string { return "fake" }

func TestRunConcurrentCallsShareSpec(t *testing.T) {
	gen := newFakeGenerator(map[string]reply{
		"m1": {err: serverError("m1")},
		"m2": {out: `{"x": 2}`},
	})
	runner := newTestRunner(t, gen, "m1", "m2")

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Run(context.Background(), runner, probeSpec, "p")
			if err != nil {
				errs <- err
				return
			}
			if got.X != 2 {
				errs <- fmt.Errorf("unexpected result %d", got.X)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Len(t, gen.models(), 2*workers)
}

func TestRunLogsEveryAttempt(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gen := newFakeGenerator(map[string]reply{
		"m1": {err: serverError("m1")},
		"m2": {out: `{"x": 1}`},
	})
	r, err := roster.New("m1", "m2")
	require.NoError(t, err)
	runner, err := NewRunner(gen, r, zap.New(core), 0)
	require.NoError(t, err)

	_, err = Run(context.Background(), runner, probeSpec, "p")
	require.NoError(t, err)

	failed := logs.FilterMessage("model failed, trying next candidate").All()
	require.Len(t, failed, 1)
	fields := failed[0].ContextMap()
	assert.Equal(t, "m1", fields["ai_model"])
	assert.Equal(t, "probe", fields["agent"])
	assert.Equal(t, int64(1), fields["attempt"])
	assert.Equal(t, "transport", fields["error_kind"])
	assert.Equal(t, "fake", fields["ai_provider"])

	assert.Equal(t, 1, logs.FilterMessage("agent succeeded").Len())
}

func TestNewRunnerValidation(t *testing.T) {
	gen := newFakeGenerator(nil)

	_, err := NewRunner(gen, roster.Roster{}, nil, 0)
	assert.ErrorIs(t, err, roster.ErrEmpty)

	r, err := roster.New("m1")
	require.NoError(t, err)
	_, err = NewRunner(nil, r, nil, 0)
	assert.Error(t, err)
}

func TestNewSpecValidation(t *testing.T) {
	_, err := NewSpec[probe](" ", "x", probeSpec.Contract)
	assert.Error(t, err)

	_, err = NewSpec[probe]("probe", "x", nil)
	assert.Error(t, err)
}
