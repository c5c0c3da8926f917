package fixture_test

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamYAML = `
name: team
description: Teams and members
add_html: false
types:
  team: {icon: bi bi-people, colspan: true}
  member: {icon: bi bi-person}
columns:
  - {id: "*", title: Title}
  - {id: age, title: Age, html: "<input type=number>"}
levels:
  - count: 2
    fields:
      title: Team $(Noun)
      type: team
      expanded: {value: true, probability: 1}
  - count: {range: [3, 3]}
    callback: {name: checkboxes, count: 2, probability: 1}
    fields:
      title: $(name:middle)
      type: member
      age: {range: [21, 99]}
      joined: {date_range: ["2020-01-01", today]}
      tags: [a, b]
      note: {value: null}
`

func fixedNow() time.Time {
	return time.Date(2020, 1, 3, 12, 0, 0, 0, time.UTC)
}

func decodeTeam(t *testing.T) *fixture.Definition {
	t.Helper()
	d := fixture.NewDecoder()
	d.Now = fixedNow
	def, err := d.Decode([]byte(teamYAML))
	require.NoError(t, err)
	return def
}

func TestDecode(t *testing.T) {
	def := decodeTeam(t)

	assert.Equal(t, "team", def.Name)
	assert.Equal(t, "Teams and members", def.Description)
	assert.False(t, def.HTML)
	require.Len(t, def.Levels, 2)
	require.Len(t, def.Columns, 2)

	var typeNames []string
	for pair := def.Types.Oldest(); pair != nil; pair = pair.Next() {
		typeNames = append(typeNames, pair.Key)
	}
	assert.Equal(t, []string{"team", "member"}, typeNames)

	var names []string
	for _, f := range def.Levels[1].Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"title", "type", "age", "joined", "tags", "note"}, names, "field order follows the document")
	assert.True(t, def.Levels[1].Count.IsRandom())
	assert.NotNil(t, def.Levels[1].Callback)
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		shape bool
	}{
		{"not a mapping", `[1, 2]`, false},
		{"bad name", "name: Bad Name\nlevels: [{count: 1}]", false},
		{"unknown top-level key", "name: x\nlevels: [{count: 1}]\nextra: 1", false},
		{"missing levels", "name: x", false},
		{"missing count", "name: x\nlevels: [{fields: {title: a}}]", true},
		{"count not an integer", "name: x\nlevels: [{count: ten}]", true},
		{"unknown level key", "name: x\nlevels: [{count: 1, depth: 2}]", true},
		{"two generators", "name: x\nlevels: [{count: 1, fields: {a: {range: [1, 2], sample: [x]}}}]", true},
		{"unknown randomizer key", "name: x\nlevels: [{count: 1, fields: {a: {ranges: [1, 2]}}}]", true},
		{"range needs two bounds", "name: x\nlevels: [{count: 1, fields: {a: {range: [1]}}}]", true},
		{"bad date", "name: x\nlevels: [{count: 1, fields: {a: {date_range: [yesterday, today]}}}]", true},
		{"reserved field", "name: x\nlevels: [{count: 1, fields: {children: 1}}]", true},
		{"unknown callback", "name: x\nlevels: [{count: 1, callback: nope}]", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.Parse([]byte(tc.doc))
			require.Error(t, err)
			if tc.shape {
				assert.ErrorIs(t, err, domain.ErrSpecShape)
			}
		})
	}

	t.Run("construction errors surface", func(t *testing.T) {
		_, err := fixture.Parse([]byte("name: x\nlevels: [{count: 1, fields: {a: {range: [5, 1]}}}]"))
		assert.ErrorIs(t, err, domain.ErrInvalidRange)

		_, err = fixture.Parse([]byte("name: x\nlevels: [{count: 1, fields: {a: {text: \"$(Blorp)\"}}}]"))
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)

		_, err = fixture.Parse([]byte("name: x\nlevels: [{count: 1, callback: nope}]"))
		assert.ErrorIs(t, err, domain.ErrUnknownCallback)
	})
}

func TestCheckboxes(t *testing.T) {
	cb, err := fixture.Checkboxes(map[string]any{"count": 3, "probability": 0})
	require.NoError(t, err)

	f := domain.NewFields()
	f.Set("state_2", true)
	require.NoError(t, cb(rand.New(rand.NewPCG(1, 2)), f))
	assert.False(t, f.Has("state_2"), "keys drawing no value are removed")
	assert.Equal(t, 0, f.Len())

	cb, err = fixture.Checkboxes(map[string]any{"count": "2", "probability": 1, "prefix": "cb_"})
	require.NoError(t, err)
	require.NoError(t, cb(rand.New(rand.NewPCG(1, 2)), f))
	assert.Equal(t, []string{"cb_1", "cb_2"}, f.Keys())

	_, err = fixture.Checkboxes(map[string]any{"count": 1, "colour": "red"})
	assert.Error(t, err)
	_, err = fixture.Checkboxes(map[string]any{"count": -1})
	assert.Error(t, err)
	_, err = fixture.Checkboxes(map[string]any{"count": 1, "probability": 2})
	assert.ErrorIs(t, err, domain.ErrInvalidProbability)
}

func TestAssemble(t *testing.T) {
	def := decodeTeam(t)
	gen := thicket.New(thicket.WithSeed(7))

	f, err := fixture.Assemble(gen, def)
	require.NoError(t, err)

	assert.Equal(t, 8, f.Tree.NodeCount)
	assert.Equal(t, 2, f.Tree.Depth)
	assert.Equal(t, "fixture_team_8_2_2", f.BaseName())
	assert.Equal(t, "fixture_team_8_2_2_t_c.json", f.FileName(fixture.TypesColumns))
	assert.Equal(t, fixture.AllLayouts, f.Layouts())

	html, _ := f.Columns[1].Get(fixture.HTMLKey)
	assert.Nil(t, html, "html snippets are dropped when add_html is off")

	member := f.Tree.Children[0].Children[0]
	assert.Equal(t, []string{"title", "type", "age", "joined", "tags", "note", "state_1", "state_2"}, member.Fields.Keys())
	joined, _ := member.Fields.Get("joined")
	assert.Contains(t, []any{"2020-01-01", "2020-01-02", "2020-01-03"}, joined)
	expanded, _ := f.Tree.Children[0].Fields.Get("expanded")
	assert.Equal(t, true, expanded)

	t.Run("WithHTML", func(t *testing.T) {
		f, err := fixture.Assemble(gen, def, fixture.WithHTML(true))
		require.NoError(t, err)
		html, _ := f.Columns[1].Get(fixture.HTMLKey)
		assert.Equal(t, "<input type=number>", html)
	})
}

func TestMarshal_Layouts(t *testing.T) {
	def := decodeTeam(t)
	f, err := fixture.Assemble(thicket.New(thicket.WithSeed(3)), def)
	require.NoError(t, err)

	plainData, err := f.Marshal(fixture.Plain)
	require.NoError(t, err)
	var plain []any
	require.NoError(t, json.Unmarshal(plainData, &plain))

	for _, layout := range []fixture.Layout{fixture.Extended, fixture.Columns, fixture.Types, fixture.TypesColumns} {
		data, err := f.Marshal(layout)
		require.NoError(t, err, layout)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		if diff := cmp.Diff(plain, doc["children"]); diff != "" {
			t.Errorf("%s children differ from plain layout (-plain +%s):\n%s", layout, layout, diff)
		}
	}

	data, err := f.Marshal(fixture.TypesColumns)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"types":\{"team":.*,"columns":\[\{"id":"\*","title":"Title"\}.*\],"children":\[`, string(data))

	t.Run("unavailable layout", func(t *testing.T) {
		bare := &fixture.Fixture{Name: "bare", Tree: f.Tree}
		assert.Equal(t, []fixture.Layout{fixture.Plain, fixture.Extended}, bare.Layouts())
		assert.Equal(t, 1, bare.ColumnCount())
		_, err := bare.Marshal(fixture.Columns)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestParseLayout(t *testing.T) {
	l, err := fixture.ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, fixture.Extended, l)

	l, err = fixture.ParseLayout("types_columns")
	require.NoError(t, err)
	assert.Equal(t, "_t_c", l.Suffix())

	_, err = fixture.ParseLayout("xml")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestWriter(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "fixture_team_1k_9_9.json")
	other := filepath.Join(dir, "fixture_teams_1_1_1.json")
	sibling := filepath.Join(dir, "fixture_team_big_1.1k_3_7_t_c.json")
	for _, p := range []string{stale, other, sibling} {
		require.NoError(t, os.WriteFile(p, []byte("[]"), 0644))
	}

	w := &fixture.Writer{Dir: dir}
	removed, err := w.RemoveStale("team")
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, removed)
	assert.FileExists(t, other)
	assert.FileExists(t, sibling, "files of a fixture whose name extends this one are kept")

	f, err := fixture.Assemble(thicket.New(thicket.WithSeed(1)), decodeTeam(t))
	require.NoError(t, err)
	files, err := w.Write(f)
	require.NoError(t, err)
	require.Len(t, files, 5)

	for _, wf := range files {
		info, err := os.Stat(wf.Path)
		require.NoError(t, err)
		assert.Equal(t, wf.Size, info.Size())
		assert.Equal(t, f.FileName(wf.Layout), filepath.Base(wf.Path))
	}

	_, err = w.RemoveStale("../etc")
	assert.Error(t, err)
}

func TestBuiltin(t *testing.T) {
	defs, err := fixture.Builtin()
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "department", defs[0].Name)
	assert.Equal(t, "store", defs[1].Name)

	store, err := fixture.Assemble(thicket.New(thicket.WithSeed(42)), defs[1])
	require.NoError(t, err)
	assert.Equal(t, 1110, store.Tree.NodeCount)
	assert.Equal(t, "fixture_store_1.1k_3_7", store.BaseName())

	dept, err := fixture.Assemble(thicket.New(thicket.WithSeed(42)), defs[0])
	require.NoError(t, err)
	count, depth := domain.Measure(dept.Tree.Children)
	assert.Equal(t, count, dept.Tree.NodeCount)
	assert.Equal(t, depth, dept.Tree.Depth)
	assert.Len(t, dept.Tree.Children, 10)
}
