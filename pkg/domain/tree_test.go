package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(id int, kv ...any) *Node {
	f := NewFields()
	for i := 0; i+1 < len(kv); i += 2 {
		f.Set(kv[i].(string), kv[i+1])
	}
	return &Node{ID: id, Fields: f}
}

func TestNode_MarshalJSON(t *testing.T) {
	t.Run("Field order is preserved", func(t *testing.T) {
		n := leaf(1, "zeta", 1, "alpha", "a", "mid", true)
		data, err := json.Marshal(n)
		require.NoError(t, err)
		assert.Equal(t, `{"zeta":1,"alpha":"a","mid":true}`, string(data))
	})

	t.Run("Children only when present", func(t *testing.T) {
		parent := leaf(1, "title", "root")
		parent.Children = []*Node{leaf(2, "title", "child")}
		data, err := json.Marshal(parent)
		require.NoError(t, err)
		assert.Equal(t, `{"title":"root","children":[{"title":"child"}]}`, string(data))
	})

	t.Run("Empty node", func(t *testing.T) {
		data, err := json.Marshal(&Node{})
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(data))
	})

	t.Run("Unsupported value", func(t *testing.T) {
		_, err := json.Marshal(leaf(3, "bad", make(chan int)))
		assert.Error(t, err)
	})
}

func TestFields(t *testing.T) {
	f := NewFields()
	f.Set("b", 1)
	f.Set("a", 2)
	f.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, f.Keys())
	v, ok := f.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	f.Delete("b")
	f.Delete("missing")
	assert.False(t, f.Has("b"))
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, map[string]any{"a": 2}, f.Map())
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{8, "8"},
		{999, "999"},
		{1000, "1k"},
		{1234, "1.2k"},
		{56000, "56k"},
		{3400000, "3.4M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.n), "FormatCount(%d)", tt.n)
	}
}

func TestMeasureAndWalk(t *testing.T) {
	a := leaf(1)
	a.Children = []*Node{leaf(2), leaf(3)}
	a.Children[1].Children = []*Node{leaf(4)}
	b := leaf(5)
	tree := &TreeResult{Children: []*Node{a, b}}

	count, depth := Measure(tree.Children)
	assert.Equal(t, 5, count)
	assert.Equal(t, 3, depth)

	var order []int
	tree.Walk(func(n *Node) { order = append(order, n.ID) })
	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)

	count, depth = Measure(nil)
	assert.Zero(t, count)
	assert.Zero(t, depth)
}

func TestTreeResult_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(&TreeResult{})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	data, err = json.Marshal(&TreeResult{Children: []*Node{leaf(1, "k", "v")}, NodeCount: 1, Depth: 1})
	require.NoError(t, err)
	assert.Equal(t, `[{"k":"v"}]`, string(data))
}

func TestErrors(t *testing.T) {
	t.Run("Construction", func(t *testing.T) {
		var err error = &ConstructionError{Randomizer: "range", Reason: "low 3 > high 1", Err: ErrInvalidRange}
		assert.ErrorIs(t, err, ErrInvalidRange)
		assert.EqualError(t, err, "range randomizer: low 3 > high 1")
	})

	t.Run("Template", func(t *testing.T) {
		var err error = &TemplateError{Template: "$(X)", Placeholder: "$(X)", Reason: "nope", Err: ErrUnknownCategory}
		assert.ErrorIs(t, err, ErrTemplateResolution)
		assert.ErrorIs(t, err, ErrUnknownCategory)
		assert.False(t, errors.Is(err, ErrUnknownForm))
	})

	t.Run("Spec shape", func(t *testing.T) {
		var err error = &SpecShapeError{Level: 1, Key: "count", Value: 1.5, Reason: "must be an integer or a randomizer"}
		assert.ErrorIs(t, err, ErrSpecShape)
		assert.Contains(t, err.Error(), "float64")
	})
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnBuildComplete: func(*BuildEvent) { calls = append(calls, "a") }}
	b := LifecycleHooks{
		OnBuildComplete: func(*BuildEvent) { calls = append(calls, "b") },
		OnNodeCreated:   func(*NodeEvent) { calls = append(calls, "node") },
	}

	merged := a.Merge(b)
	merged.OnBuildComplete(&BuildEvent{})
	merged.OnNodeCreated(&NodeEvent{})
	assert.Nil(t, merged.OnLevelPruned)
	assert.Equal(t, []string{"a", "b", "node"}, calls)
}
