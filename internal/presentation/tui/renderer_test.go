package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeDisp(t *testing.T) {
	assert.Equal(t, "812", SizeDisp(812))
	assert.Equal(t, "4,999", SizeDisp(4999))
	assert.Equal(t, "9.8 KiB", SizeDisp(10000))
	assert.Equal(t, "1.0 MiB", SizeDisp(1<<20))
}

func TestDescribe(t *testing.T) {
	defs, err := fixture.Builtin()
	require.NoError(t, err)

	md := Describe(defs[0])
	assert.Contains(t, md, "# department")
	assert.Contains(t, md, "with callback")
	assert.Contains(t, md, "- **title**")
	assert.Contains(t, md, "| age | Age |")
	assert.Contains(t, md, "- person")
}

func TestStatusLines(t *testing.T) {
	var buf bytes.Buffer
	Created(&buf, "fixture_store_1.1k_3_7.json", 120)
	Removed(&buf, "old.json")
	PrintBanner(&buf, "0.1.0")

	assert.Contains(t, buf.String(), "fixture_store_1.1k_3_7.json, 120")
	assert.Contains(t, buf.String(), "old.json")
	assert.Contains(t, buf.String(), "v0.1.0")
}
