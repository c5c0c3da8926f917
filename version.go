package thicket

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the release of the thicket module.
var Version = strings.TrimSpace(version)
