package logging

import (
	"context"

	"github.com/alexisbeaulieu97/brandkit/internal/ports"
)

// Discard drops every entry. Components fall back to it when no logger is
// configured.
var Discard ports.Logger = discard{}

type discard struct{}

func (discard) Debug(context.Context, string, ...interface{}) {}
func (discard) Info(context.Context, string, ...interface{}) {}
func (discard) Warn(context.Context, string, ...interface{}) {}
func (discard) Error(context.Context, string, ...interface{}) {}
func (d discard) With(...interface{}) ports.Logger { return d }

// NewNoOpLogger returns Discard.
func NewNoOpLogger() ports.Logger {
	return Discard
}
