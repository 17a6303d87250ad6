package history

import (
	"context"

	"github.com/amishk599/boardwatch/internal/model"
)

// ReadOnlyStore is used in check mode. It reads the real history so the
// reported delta is accurate, but never writes, so a check run leaves
// nothing behind.
type ReadOnlyStore struct {
	inner Store
}

var _ Store = (*ReadOnlyStore)(nil)

func NewReadOnlyStore(inner Store) *ReadOnlyStore { return &ReadOnlyStore{inner: inner} }

func (s *ReadOnlyStore) Load(ctx context.Context) ([]model.Posting, error) { return s.inner.Load(ctx) }
func (s *ReadOnlyStore) Save(context.Context, []model.Posting) error       { return nil }
func (s *ReadOnlyStore) Location() string                                  { return s.inner.Location() }
func (s *ReadOnlyStore) Close() error                                      { return s.inner.Close() }
