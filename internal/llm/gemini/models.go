package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const generateContentMethod = "generateContent"

type modelEntry struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

type listModelsResponse struct {
	Models        []modelEntry `json:"models"`
	NextPageToken string       `json:"nextPageToken"`
}

// ListModels returns the identifiers of models that support text
// generation, with the "models/" resource prefix stripped.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		endpoint := c.baseURL + "/v1beta/models?pageSize=200"
		if pageToken != "" {
			endpoint += "&pageToken=" + pageToken
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("list models request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		var parsed listModelsResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("decode response %q: %w", string(body), err)
		}
		for _, m := range parsed.Models {
			if !supportsGeneration(m) {
				continue
			}
			ids = append(ids, strings.TrimPrefix(m.Name, "models/"))
		}

		if parsed.NextPageToken == "" {
			return ids, nil
		}
		pageToken = parsed.NextPageToken
	}
}

func supportsGeneration(m modelEntry) bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == generateContentMethod {
			return true
		}
	}
	return false
}
