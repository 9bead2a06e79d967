package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/autotutor/internal/runtime"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/dsl"
	"github.com/aretw0/autotutor/pkg/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessonScript(t *testing.T) *domain.Script {
	t.Helper()
	b := dsl.New("Ball")

	b.Add("intro").Text("Hi {studentName}.").Image("img-balcony.svg").Go("setup")
	b.Add("setup").Text("The function is {functionString}.").Go("ask")
	b.Add("ask").
		Choice("Where does the ball land?").
		Option("At {x1}", "right").
		Option("At {x2}", "wrong")
	b.Add("right").Text("Correct!").End()
	b.Add("wrong").Text("Not quite.").Go("ask")

	script, err := b.Build()
	require.NoError(t, err)
	return script
}

func testVars() *variables.Context {
	return variables.FromMap(map[string]string{
		"studentName":    "Sam",
		"functionString": "-2x + 8",
		"x1":             "(4, 0)",
		"x2":             "none",
		"linearity":      "true",
	})
}

func TestEngine_StartAndFastForward(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(lessonScript(t))
	vars := testVars()

	state, err := engine.Start(ctx, vars)
	require.NoError(t, err)
	assert.Equal(t, "intro", state.Current)
	assert.Equal(t, domain.StatusAtLine, state.Status)
	assert.Empty(t, state.History)

	ff, err := engine.FastForward(ctx, state, vars)
	require.NoError(t, err)
	assert.Equal(t, "ask", ff.Current)
	assert.Equal(t, domain.StatusAtChoice, ff.Status)
	assert.Equal(t, []domain.HistoryEntry{
		{NodeID: "intro", Selected: domain.NoSelection},
		{NodeID: "setup", Selected: domain.NoSelection},
	}, ff.History)

	// The input snapshot is untouched.
	assert.Equal(t, "intro", state.Current)
	assert.Empty(t, state.History)
}

func TestEngine_FastForwardIsIdempotent(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(lessonScript(t))
	vars := testVars()

	state, _ := engine.Start(ctx, vars)
	once, err := engine.FastForward(ctx, state, vars)
	require.NoError(t, err)
	twice, err := engine.FastForward(ctx, once, vars)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestEngine_HistoryGrowsByOnePerAdvance(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(lessonScript(t))
	vars := testVars()

	state, _ := engine.Start(ctx, vars)
	for !state.Terminated() {
		before := len(state.History)
		choice := 0
		next, err := engine.Advance(ctx, state, vars, choice)
		require.NoError(t, err)
		assert.Len(t, next.History, before+1)
		assert.Equal(t, state.History, next.History[:before])
		state = next
	}
	assert.Equal(t, domain.EndNodeID, state.Current)
}

func TestEngine_TerminalAbsorbs(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(lessonScript(t))
	vars := testVars()

	state, _ := engine.Start(ctx, vars)
	state, _ = engine.FastForward(ctx, state, vars)
	state, err := engine.Advance(ctx, state, vars, 0)
	require.NoError(t, err)
	state, err = engine.FastForward(ctx, state, vars)
	require.NoError(t, err)
	require.True(t, state.Terminated())

	_, err = engine.Advance(ctx, state, vars, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	again, err := engine.FastForward(ctx, state, vars)
	require.NoError(t, err)
	assert.Equal(t, state, again)
}

func TestEngine_OutOfRangeLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(lessonScript(t))
	vars := testVars()

	state, _ := engine.Start(ctx, vars)
	state, _ = engine.FastForward(ctx, state, vars)
	before := state.Snapshot()

	for _, idx := range []int{-1, 2, 99} {
		next, err := engine.Advance(ctx, state, vars, idx)
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
		assert.Nil(t, next)
		assert.Equal(t, before, state)
	}
}

func TestEngine_LoopBackThroughChoice(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(lessonScript(t))
	vars := testVars()

	state, _ := engine.Start(ctx, vars)
	state, _ = engine.FastForward(ctx, state, vars)
	state, err := engine.Advance(ctx, state, vars, 1)
	require.NoError(t, err)

	// "wrong" loops back to the same choice; that is not a narration cycle.
	state, err = engine.FastForward(ctx, state, vars)
	require.NoError(t, err)
	assert.Equal(t, "ask", state.Current)
	assert.Len(t, state.History, 4)
}

func TestEngine_CycleDetection(t *testing.T) {
	b := dsl.New("Loop")
	b.Add("a").Text("A").Go("b")
	b.Add("b").Text("B").Go("a")
	script, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()
	engine := runtime.NewEngine(script)
	vars := testVars()

	state, err := engine.Start(ctx, vars)
	require.NoError(t, err)
	_, err = engine.FastForward(ctx, state, vars)
	assert.ErrorIs(t, err, domain.ErrCycle)
}

func TestEngine_StepLimit(t *testing.T) {
	b := dsl.New("Long")
	b.Add("a").Text("A").Go("b")
	b.Add("b").Text("B").Go("c")
	b.Add("c").Text("C").End()
	script, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()
	engine := runtime.NewEngine(script, runtime.WithMaxSteps(2))
	vars := testVars()

	state, _ := engine.Start(ctx, vars)
	_, err = engine.FastForward(ctx, state, vars)
	assert.ErrorIs(t, err, domain.ErrCycle)
}

func TestEngine_Deterministic(t *testing.T) {
	ctx := context.Background()
	script := lessonScript(t)
	vars := testVars()
	choices := []int{1, 0}

	run := func() *domain.State {
		engine := runtime.NewEngine(script)
		state, _ := engine.Start(ctx, vars)
		state, _ = engine.FastForward(ctx, state, vars)
		for _, c := range choices {
			next, err := engine.Advance(ctx, state, vars, c)
			require.NoError(t, err)
			state, err = engine.FastForward(ctx, next, vars)
			require.NoError(t, err)
		}
		return state
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.True(t, first.Terminated())
}

func TestEngine_GuardedNodes(t *testing.T) {
	b := dsl.New("Guards")
	b.Add("start").Text("Start").Go("linear_only")
	b.Add("linear_only").Text("Linear").When(`linearity == "true"`).Go("quad_only")
	b.Add("quad_only").
		Choice("Quadratic question").
		When(`linearity == "false"`).
		Option("ok", "done").
		Go("done")
	b.Add("done").Text("Done").End()
	script, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()
	engine := runtime.NewEngine(script)

	tests := []struct {
		name      string
		linearity string
		wantIDs   []string
		wantAt    string
	}{
		{"Linear", "true", []string{"start", "linear_only", "done"}, domain.EndNodeID},
		{"Quadratic", "false", []string{"start"}, "quad_only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := variables.FromMap(map[string]string{"linearity": tt.linearity})
			state, err := engine.Start(ctx, vars)
			require.NoError(t, err)
			state, err = engine.FastForward(ctx, state, vars)
			require.NoError(t, err)

			var ids []string
			for _, h := range state.History {
				ids = append(ids, h.NodeID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantAt, state.Current)
		})
	}
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var entered, left, chosen []string
	terminated := 0

	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			entered = append(entered, e.NodeID)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			left = append(left, e.NodeID)
		},
		OnChoice: func(ctx context.Context, e *domain.ChoiceEvent) {
			chosen = append(chosen, e.Target)
		},
		OnTerminate: func(ctx context.Context, e *domain.NodeEvent) {
			terminated++
		},
	}

	ctx := context.Background()
	engine := runtime.NewEngine(lessonScript(t), runtime.WithLifecycleHooks(hooks))
	vars := testVars()

	state, _ := engine.Start(ctx, vars)
	state, _ = engine.FastForward(ctx, state, vars)
	state, _ = engine.Advance(ctx, state, vars, 0)
	_, err := engine.FastForward(ctx, state, vars)
	require.NoError(t, err)

	assert.Equal(t, []string{"intro", "setup", "ask", "right", domain.EndNodeID}, entered)
	assert.Equal(t, []string{"intro", "setup", "ask", "right"}, left)
	assert.Equal(t, []string{"right"}, chosen)
	assert.Equal(t, 1, terminated)
}
