package data

import (
	_ "embed"
)

// StarterPresets is the preset library imported when a subject asks for one without supplying its own
//
//go:embed presets/starter.yaml
var StarterPresets []byte
