package tokens

import "encoding/json"

// ImportEnvelope is the catalog import/export document. Categories and
// components are opaque to brandkit beyond the fields the codec validates.
type ImportEnvelope struct {
	Version      string            `json:"version,omitempty"`
	ExportedAt   string            `json:"exportedAt,omitempty"`
	Categories   []json.RawMessage `json:"categories,omitempty"`
	Components   []Component       `json:"components,omitempty"`
	DesignTokens json.RawMessage   `json:"designTokens,omitempty"`
}

// Component is the part of a catalog component entry brandkit inspects.
type Component struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}
