package assets

import _ "embed"

// PresetsData holds the raw JSON catalog of search engine presets.
//
//go:embed presets.json
var PresetsData []byte
