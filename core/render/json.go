// JSON renderer.
// Writes the extracted sessions next to the composed document, in the same
// shape the HTTP API returns.

package render

import (
	"encoding/json"
	"fmt"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

// JSONRenderer produces the sessions and email as one JSON document.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type jsonOutput struct {
	Sessions  []core.SessionData `json:"sessions"`
	EmailHTML string             `json:"emailHtml"`
}

// Render marshals sessions and emailHTML with indentation.
func (r *JSONRenderer) Render(emailHTML string, sessions []core.SessionData) ([]byte, error) {
	if sessions == nil {
		sessions = []core.SessionData{}
	}
	data, err := json.MarshalIndent(jsonOutput{Sessions: sessions, EmailHTML: emailHTML}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
