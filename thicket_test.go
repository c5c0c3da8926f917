package thicket_test

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/lexicon"
	"github.com/aretw0/thicket/pkg/randomizer"
	"github.com/aretw0/thicket/pkg/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTree_FolderAndLeaves(t *testing.T) {
	tree, err := thicket.New(thicket.WithSeed(1)).GenerateMaps([]map[string]any{
		{"count": 2, "type": "folder"},
		{"count": 3, "type": "leaf"},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, tree.NodeCount)
	assert.Equal(t, 2, tree.Depth)
	require.Len(t, tree.Children, 2)
	for _, root := range tree.Children {
		require.Len(t, root.Children, 3)
		for _, leaf := range root.Children {
			typ, _ := leaf.Fields.Get("type")
			assert.Equal(t, "leaf", typ)
		}
	}

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"folder","children":[{"type":"leaf"},{"type":"leaf"},{"type":"leaf"}]},
		{"type":"folder","children":[{"type":"leaf"},{"type":"leaf"},{"type":"leaf"}]}
	]`, string(data))
}

func TestGenerateTree_ZeroCount(t *testing.T) {
	tree, err := thicket.GenerateTree([]spec.Level{{Count: spec.Fixed(0)}})
	require.NoError(t, err)
	assert.Zero(t, tree.NodeCount)
	assert.Zero(t, tree.Depth)
	assert.Equal(t, "0", tree.NodeCountDisp())
}

func TestGenerateTree_Seeded(t *testing.T) {
	rz, err := randomizer.NewRange(0, 10)
	require.NoError(t, err)
	levels := []spec.Level{
		*spec.NewLevel(spec.RandomCount(rz)).Set("title", "$(Adj) $(Noun:plural)"),
		*spec.NewLevel(spec.RandomCount(rz)).Set("size", rz),
	}

	a, err := thicket.GenerateTree(levels, thicket.WithSeed(99))
	require.NoError(t, err)
	b, err := thicket.GenerateTree(levels, thicket.WithSeed(99))
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.JSONEq(t, string(ja), string(jb))
	assert.Equal(t, a.NodeCount, b.NodeCount)
}

func TestGenerator_CustomLexicon(t *testing.T) {
	lex, err := lexicon.New(lexicon.Document{Nouns: []lexicon.Entry{{Word: "cactus", Plural: "cacti"}}})
	require.NoError(t, err)

	g := thicket.New(thicket.WithLexicon(lex), thicket.WithRand(rand.New(rand.NewPCG(1, 2))))
	assert.Same(t, lex, g.Lexicon())

	tree, err := g.Generate([]spec.Level{*spec.NewLevel(spec.Fixed(3)).Set("title", "$(NOUN:plural)")})
	require.NoError(t, err)
	for _, n := range tree.Children {
		title, _ := n.Fields.Get("title")
		assert.Equal(t, "CACTI", title)
	}

	_, err = g.Generate([]spec.Level{*spec.NewLevel(spec.Fixed(1)).Set("title", "$(Verb)")})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestGenerator_Hooks(t *testing.T) {
	var built *domain.BuildEvent
	g := thicket.New(
		thicket.WithName("hooks"),
		thicket.WithLifecycleHooks(domain.LifecycleHooks{
			OnBuildComplete: func(e *domain.BuildEvent) { built = e },
		}),
	)
	assert.Equal(t, "hooks", g.Name)

	_, err := g.Generate([]spec.Level{{Count: spec.Fixed(4)}})
	require.NoError(t, err)
	require.NotNil(t, built)
	assert.Equal(t, 4, built.NodeCount)
	assert.Equal(t, 1, built.Depth)
}

func TestGenerator_Parallel(t *testing.T) {
	rz, err := randomizer.NewRange(1, 4)
	require.NoError(t, err)
	levels := []spec.Level{
		{Count: spec.Fixed(8)},
		{Count: spec.RandomCount(rz)},
		{Count: spec.RandomCount(rz)},
	}

	tree, err := thicket.GenerateTree(levels, thicket.WithSeed(5), thicket.WithParallelism(3))
	require.NoError(t, err)

	count, depth := domain.Measure(tree.Children)
	assert.Equal(t, count, tree.NodeCount)
	assert.Equal(t, 3, depth)
	assert.Equal(t, depth, tree.Depth)
}

func TestGenerateMaps_ShapeError(t *testing.T) {
	_, err := thicket.New().GenerateMaps([]map[string]any{{"count": "lots"}})
	assert.ErrorIs(t, err, domain.ErrSpecShape)
}
