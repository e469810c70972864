package services

import (
	"encoding/json"
	"fmt"

	"sidesearch/internal/assets"
	"sidesearch/internal/models"
)

// Preset is one recommended search engine entry. Copy the URL into a
// SearchEngineModel to adopt it.
type Preset struct {
	Name string `json:"name"`
	URL  string `json:"url"`

	// Visibility filters. An entry with regions/languages set is shown only
	// when the region matches or a preferred language matches; blockedRegions
	// and hiddenLanguages hide an otherwise global entry.
	Regions         []string `json:"regions,omitempty"`
	Languages       []string `json:"languages,omitempty"`
	BlockedRegions  []string `json:"blockedRegions,omitempty"`
	HiddenLanguages []string `json:"hiddenLanguages,omitempty"`
}

type presetCatalog struct {
	DefaultEngine   Preset   `json:"defaultEngine"`
	DefaultEngineCN Preset   `json:"defaultEngineCN"`
	AIAssistants    []Preset `json:"aiAssistants"`
	SearchEngines   []Preset `json:"searchEngines"`
}

// PresetService serves the embedded, region-filtered search engine catalog.
type PresetService struct {
	catalog presetCatalog
	geo     *GeoService
}

func NewPresetService(geo *GeoService) (*PresetService, error) {
	var catalog presetCatalog
	if err := json.Unmarshal(assets.PresetsData, &catalog); err != nil {
		return nil, fmt.Errorf("parse presets asset: %w", err)
	}
	return &PresetService{catalog: catalog, geo: geo}, nil
}

// DefaultEngine is the engine seeded on first run.
func (s *PresetService) DefaultEngine() models.SearchEngineModel {
	preset := s.catalog.DefaultEngine
	if s.geo.Region() == "CN" {
		preset = s.catalog.DefaultEngineCN
	}
	return models.NewSearchEngineModel(preset.Name, preset.URL)
}

func (s *PresetService) AIAssistants() []Preset {
	return s.filter(s.catalog.AIAssistants)
}

func (s *PresetService) SearchEngines() []Preset {
	return s.filter(s.catalog.SearchEngines)
}

func (s *PresetService) filter(presets []Preset) []Preset {
	var visible []Preset
	for _, p := range presets {
		if s.visible(p) {
			visible = append(visible, p)
		}
	}
	return visible
}

func (s *PresetService) visible(p Preset) bool {
	region := s.geo.Region()
	for _, blocked := range p.BlockedRegions {
		if region == blocked {
			return false
		}
	}
	for _, lang := range p.HiddenLanguages {
		if s.geo.ContainsLanguage(lang) {
			return false
		}
	}
	if len(p.Regions) == 0 && len(p.Languages) == 0 {
		return true
	}
	for _, r := range p.Regions {
		if region == r {
			return true
		}
	}
	for _, lang := range p.Languages {
		if s.geo.ContainsLanguage(lang) {
			return true
		}
	}
	return false
}
