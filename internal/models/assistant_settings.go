package models

import (
	"encoding/json"
	"strings"
)

// LocalModelSettings configures the local-runtime assistant.
// The API key concept does not apply here; the runtime lives on this machine.
type LocalModelSettings struct {
	BaseURL            string `json:"baseUrl"`
	Model              string `json:"model"`
	CustomInstructions string `json:"customInstructions"`
}

const DefaultLocalRuntimeURL = "http://localhost:11434"

func DefaultLocalModelSettings() LocalModelSettings {
	return LocalModelSettings{BaseURL: DefaultLocalRuntimeURL}
}

func (m LocalModelSettings) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LocalModelSettingsFromJSON(data []byte) (*LocalModelSettings, error) {
	var m LocalModelSettings
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if strings.TrimSpace(m.BaseURL) == "" {
		m.BaseURL = DefaultLocalRuntimeURL
	}
	return &m, nil
}

// GeminiSettings configures the Gemini cloud assistant. The API key is kept
// in the system keyring, never in this blob.
type GeminiSettings struct {
	Model              string `json:"model"`
	CustomInstructions string `json:"customInstructions"`
}

func (m GeminiSettings) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func GeminiSettingsFromJSON(data []byte) (*GeminiSettings, error) {
	var m GeminiSettings
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
