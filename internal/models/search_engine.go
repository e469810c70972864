package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// OpenInOption selects where a resolved destination is opened.
type OpenInOption string

const (
	OpenInAppBrowser OpenInOption = "inAppBrowser"
	OpenInDefaultApp OpenInOption = "defaultApp"
)

// ParseOpenInOption maps a persisted raw value to a known option,
// falling back to the in-app browser.
func ParseOpenInOption(raw string) OpenInOption {
	switch OpenInOption(raw) {
	case OpenInAppBrowser, OpenInDefaultApp:
		return OpenInOption(raw)
	}
	return OpenInAppBrowser
}

// SearchEngineModel is the settings model for a URL-based assistant.
// URL may be a literal destination or a template containing the %s placeholder.
type SearchEngineModel struct {
	ID                     uuid.UUID    `json:"id"`
	Name                   string       `json:"name"`
	URL                    string       `json:"url"`
	OpenIn                 OpenInOption `json:"openIn"`
	DisablePercentEncoding bool         `json:"disablePercentEncoding"`
	MaxQueryLength         *int         `json:"maxQueryLength,omitempty"`
}

func NewSearchEngineModel(name, url string) SearchEngineModel {
	return SearchEngineModel{
		ID:     uuid.New(),
		Name:   name,
		URL:    url,
		OpenIn: OpenInAppBrowser,
	}
}

func (m SearchEngineModel) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SearchEngineModelFromJSON(data []byte) (*SearchEngineModel, error) {
	var m SearchEngineModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m.OpenIn = ParseOpenInOption(string(m.OpenIn))
	return &m, nil
}
