package runtime_test

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/aretw0/thicket/internal/runtime"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/randomizer"
	"github.com/aretw0/thicket/pkg/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(2024, 7))
}

func mustRange(t *testing.T, lo, hi int) randomizer.Randomizer {
	t.Helper()
	rz, err := randomizer.NewRange(lo, hi)
	require.NoError(t, err)
	return rz
}

func folderAndLeaves() []spec.Level {
	return []spec.Level{
		*spec.NewLevel(spec.Fixed(2)).Set("type", "folder"),
		*spec.NewLevel(spec.Fixed(3)).Set("type", "leaf"),
	}
}

func TestBuild_FixedCounts(t *testing.T) {
	b := runtime.NewBuilder(nil)

	res, err := b.Build(seeded(), folderAndLeaves())
	require.NoError(t, err)

	assert.Equal(t, 8, res.NodeCount)
	assert.Equal(t, 2, res.Depth)
	assert.Equal(t, "8", res.NodeCountDisp())
	require.Len(t, res.Children, 2)
	for _, root := range res.Children {
		typ, _ := root.Fields.Get("type")
		assert.Equal(t, "folder", typ)
		require.Len(t, root.Children, 3)
		for _, child := range root.Children {
			typ, _ := child.Fields.Get("type")
			assert.Equal(t, "leaf", typ)
			assert.Empty(t, child.Children)
		}
	}

	count, depth := domain.Measure(res.Children)
	assert.Equal(t, res.NodeCount, count)
	assert.Equal(t, res.Depth, depth)
}

func TestBuild_IDsArePreOrder(t *testing.T) {
	res, err := runtime.NewBuilder(nil).Build(seeded(), folderAndLeaves())
	require.NoError(t, err)

	var ids []int
	res.Walk(func(n *domain.Node) { ids = append(ids, n.ID) })
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, ids)
}

func TestBuild_EmptyInputs(t *testing.T) {
	b := runtime.NewBuilder(nil)

	t.Run("No levels", func(t *testing.T) {
		res, err := b.Build(seeded(), nil)
		require.NoError(t, err)
		assert.Zero(t, res.NodeCount)
		assert.Zero(t, res.Depth)
		assert.Empty(t, res.Children)
	})

	t.Run("Zero count", func(t *testing.T) {
		res, err := b.Build(seeded(), []spec.Level{{Count: spec.Fixed(0)}})
		require.NoError(t, err)
		assert.Zero(t, res.NodeCount)
		assert.Zero(t, res.Depth)
	})

	t.Run("Zero count prunes deeper levels", func(t *testing.T) {
		res, err := b.Build(seeded(), []spec.Level{
			{Count: spec.Fixed(2)},
			{Count: spec.Fixed(0)},
			{Count: spec.Fixed(5)},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.NodeCount)
		assert.Equal(t, 1, res.Depth)
	})
}

func TestBuild_RandomCounts(t *testing.T) {
	levels := []spec.Level{
		{Count: spec.RandomCount(mustRange(t, 0, 4))},
		{Count: spec.RandomCount(mustRange(t, 0, 4))},
		{Count: spec.RandomCount(mustRange(t, 0, 4))},
	}
	b := runtime.NewBuilder(nil)

	for seed := uint64(0); seed < 20; seed++ {
		res, err := b.Build(rand.New(rand.NewPCG(seed, seed)), levels)
		require.NoError(t, err)

		count, depth := domain.Measure(res.Children)
		assert.Equal(t, count, res.NodeCount, "seed %d", seed)
		assert.Equal(t, depth, res.Depth, "seed %d", seed)
		assert.LessOrEqual(t, res.Depth, 3)
	}
}

func TestBuild_FieldResolution(t *testing.T) {
	never, err := randomizer.NewValue(true, 0)
	require.NoError(t, err)
	always, err := randomizer.NewValue("X", 1)
	require.NoError(t, err)

	l := spec.NewLevel(spec.Fixed(50)).
		Set("title", "$(Noun:plural)").
		Set("hidden", never).
		Set("shown", always).
		Set("kind", "plain")
	l.Callback = func(r *rand.Rand, f *domain.Fields) error {
		_, hasTitle := f.Get("title")
		if !hasTitle {
			return errors.New("callback ran before fields were resolved")
		}
		f.Set("extra", r.IntN(10))
		f.Delete("kind")
		return nil
	}

	res, err := runtime.NewBuilder(nil).Build(seeded(), []spec.Level{*l})
	require.NoError(t, err)

	for _, n := range res.Children {
		assert.Equal(t, []string{"title", "shown", "extra"}, n.Fields.Keys())
		title, _ := n.Fields.Get("title")
		assert.NotContains(t, title, "$(")
		shown, _ := n.Fields.Get("shown")
		assert.Equal(t, "X", shown)
	}
}

func TestBuild_Errors(t *testing.T) {
	b := runtime.NewBuilder(nil)

	t.Run("Unknown template category", func(t *testing.T) {
		res, err := b.Build(seeded(), []spec.Level{*spec.NewLevel(spec.Fixed(1)).Set("title", "$(Planet)")})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrTemplateResolution)
	})

	t.Run("Non-integer count draw", func(t *testing.T) {
		word := randomizer.Func(func(*rand.Rand) (any, bool) { return "three", true })
		res, err := b.Build(seeded(), []spec.Level{{Count: spec.Fixed(1)}, {Count: spec.RandomCount(word)}})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrSpecShape)
	})

	t.Run("Count draw above the limit", func(t *testing.T) {
		huge := mustRange(t, math.MaxInt-1, math.MaxInt)
		res, err := b.Build(seeded(), []spec.Level{{Count: spec.Fixed(1)}, {Count: spec.RandomCount(huge)}})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrSpecShape)
	})

	t.Run("Callback failure", func(t *testing.T) {
		boom := errors.New("boom")
		l := spec.Level{Count: spec.Fixed(1), Callback: func(*rand.Rand, *domain.Fields) error { return boom }}
		res, err := b.Build(seeded(), []spec.Level{l})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Callback sets children", func(t *testing.T) {
		l := spec.Level{Count: spec.Fixed(1), Callback: func(_ *rand.Rand, f *domain.Fields) error {
			f.Set("children", 1)
			return nil
		}}
		_, err := b.Build(seeded(), []spec.Level{l})
		assert.ErrorIs(t, err, domain.ErrSpecShape)
	})
}

func TestBuild_Hooks(t *testing.T) {
	var (
		created []int
		pruned  []int
		summary *domain.BuildEvent
	)
	hooks := domain.LifecycleHooks{
		OnNodeCreated:   func(e *domain.NodeEvent) { created = append(created, e.NodeID) },
		OnLevelPruned:   func(e *domain.LevelEvent) { pruned = append(pruned, e.ParentID) },
		OnBuildComplete: func(e *domain.BuildEvent) { summary = e },
	}

	levels := []spec.Level{{Count: spec.Fixed(2)}, {Count: spec.Fixed(0)}}
	_, err := runtime.NewBuilder(nil, runtime.WithLifecycleHooks(hooks)).Build(seeded(), levels)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, created)
	assert.Equal(t, []int{1, 2}, pruned)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.NodeCount)
	assert.Equal(t, 1, summary.Depth)
}

func TestBuild_Parallel(t *testing.T) {
	levels := []spec.Level{
		*spec.NewLevel(spec.Fixed(6)).Set("title", "$(Noun)"),
		*spec.NewLevel(spec.RandomCount(mustRange(t, 0, 5))).Set("title", "$(Verb:ing)"),
		*spec.NewLevel(spec.RandomCount(mustRange(t, 0, 3))).Set("size", mustRange(t, 1, 100)),
	}

	var mu sync.Mutex
	var created []int
	hooks := domain.LifecycleHooks{OnNodeCreated: func(e *domain.NodeEvent) {
		mu.Lock()
		defer mu.Unlock()
		created = append(created, e.NodeID)
	}}

	b := runtime.NewBuilder(nil, runtime.WithParallelism(4), runtime.WithLifecycleHooks(hooks))

	first, err := b.Build(rand.New(rand.NewPCG(9, 9)), levels)
	require.NoError(t, err)
	second, err := b.Build(rand.New(rand.NewPCG(9, 9)), levels)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	c, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(c), "parallel builds are deterministic under a seed")

	count, depth := domain.Measure(first.Children)
	assert.Equal(t, count, first.NodeCount)
	assert.Equal(t, depth, first.Depth)
	require.Len(t, first.Children, 6)

	var ids []int
	first.Walk(func(n *domain.Node) { ids = append(ids, n.ID) })
	for i, id := range ids {
		assert.Equal(t, i+1, id)
	}
	assert.Equal(t, ids, created[:len(ids)])
}
