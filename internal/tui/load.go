package tui

import (
	"context"

	"github.com/skypie-oracle/precomputer/internal/persist"
)

// LoadModel reads a worker's wrapper and optimal-decision files out of
// store and builds a ready-to-run Model. wrapperKey and decisionsKey are
// the blob keys WrapperRecord.OptimalPath / the worker's output file name
// resolved to when the run wrote them.
func LoadModel(ctx context.Context, store persist.BlobStore, wrapperKey, decisionsKey string) (Model, error) {
	wrapper, err := persist.ReadWrapper(ctx, store, wrapperKey)
	if err != nil {
		return Model{}, err
	}
	decisions, err := persist.ReadDecisions(ctx, store, decisionsKey)
	if err != nil {
		return Model{}, err
	}
	return NewModel(wrapper, decisions), nil
}
