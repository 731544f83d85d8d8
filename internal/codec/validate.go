// Package codec validates catalog import envelopes and renders the bundle
// into the catalog export formats.
package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

// Validation messages.
const (
	MsgInvalidJSON    = "Invalid JSON format"
	MsgMissingVersion = "Missing version field"
	MsgNoData         = "No valid data found"
)

// Stats counts the entries of an envelope for preview.
type Stats struct {
	Categories int `json:"categories"`
	Components int `json:"components"`
	Tokens     int `json:"tokens"`
}

// Result is the outcome of Validate. Stats is nil only when the input is not
// JSON at all.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Stats    *Stats   `json:"stats,omitempty"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// Validate checks a catalog envelope. Every component is checked even after
// the first failure so all problems are reported together.
func Validate(jsonText string) Result {
	result := Result{Errors: []string{}, Warnings: []string{}}

	if !json.Valid([]byte(jsonText)) {
		result.Errors = append(result.Errors, MsgInvalidJSON)
		return result
	}

	// Non-object documents carry no envelope fields.
	var fields map[string]json.RawMessage
	_ = json.Unmarshal([]byte(jsonText), &fields)

	stats := &Stats{}
	result.Stats = stats

	if !present(fields["version"]) {
		result.Warnings = append(result.Warnings, MsgMissingVersion)
	}

	if !present(fields["categories"]) && !present(fields["components"]) && !present(fields["designTokens"]) {
		result.Errors = append(result.Errors, MsgNoData)
	}

	var categories []json.RawMessage
	if json.Unmarshal(fields["categories"], &categories) == nil {
		stats.Categories = len(categories)
	}

	var components []json.RawMessage
	if json.Unmarshal(fields["components"], &components) == nil {
		stats.Components = len(components)
		for i, raw := range components {
			if missing := missingComponentFields(raw); len(missing) > 0 {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Component at index %d is missing required fields: %s", i, strings.Join(missing, ", ")))
			}
		}
	}

	var designTokens map[string]json.RawMessage
	if json.Unmarshal(fields["designTokens"], &designTokens) == nil {
		stats.Tokens = len(designTokens)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func present(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null" && trimmed != "false" && trimmed != `""` && trimmed != "0"
}

func missingComponentFields(raw json.RawMessage) []string {
	var component tokens.Component
	if err := json.Unmarshal(raw, &component); err != nil {
		return []string{"name", "slug"}
	}

	err := validatorInstance().Struct(component)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"name", "slug"}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

// DecodeEnvelope parses a validated envelope.
func DecodeEnvelope(jsonText string) (tokens.ImportEnvelope, error) {
	var env tokens.ImportEnvelope
	if err := json.Unmarshal([]byte(jsonText), &env); err != nil {
		return tokens.ImportEnvelope{}, err
	}
	return env, nil
}
