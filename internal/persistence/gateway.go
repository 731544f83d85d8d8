package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/alexisbeaulieu97/brandkit/internal/ports"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
	pkgerrors "github.com/alexisbeaulieu97/brandkit/pkg/errors"
)

// Key is the fixed key the bundle is stored under.
const Key = "brandkit-design-tokens"

// Gateway reads and writes the full bundle.
type Gateway struct {
	kv     KV
	logger ports.Logger
}

// NewGateway creates a gateway over kv.
func NewGateway(kv KV, logger ports.Logger) *Gateway {
	return &Gateway{kv: kv, logger: logger.With("component", "persistence")}
}

// Write stores the whole bundle as JSON.
func (g *Gateway) Write(ctx context.Context, bundle tokens.Bundle) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return pkgerrors.NewStorageError(Key, "encode", err)
	}
	if err := g.kv.Set(ctx, Key, data); err != nil {
		return pkgerrors.NewStorageError(Key, "write", err)
	}
	return nil
}

// Read returns the stored bundle with missing fields filled from defaults,
// or nil when nothing usable is stored. Unparseable content is logged and
// treated as absent.
func (g *Gateway) Read(ctx context.Context) (*tokens.Bundle, error) {
	data, err := g.kv.Get(ctx, Key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.NewStorageError(Key, "read", err)
	}

	var stored tokens.Bundle
	if err := json.Unmarshal(data, &stored); err != nil {
		g.logger.Warn(ctx, "stored tokens are not valid JSON; using defaults", "key", Key, "error", err)
		return nil, nil
	}
	merged := tokens.MergeDefaults(stored)
	return &merged, nil
}

// Clear removes the stored bundle.
func (g *Gateway) Clear(ctx context.Context) error {
	if err := g.kv.Delete(ctx, Key); err != nil {
		return pkgerrors.NewStorageError(Key, "delete", err)
	}
	return nil
}
