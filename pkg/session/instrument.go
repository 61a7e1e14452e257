package session

import (
	"context"
	"time"

	"github.com/matzehuels/pairrank/pkg/observability"
)

// Instrument wraps s so every operation is reported to the registered
// [observability.StoreHooks] under the given backend name.
func Instrument(backend string, s Store) Store {
	return &instrumented{backend: backend, Store: s}
}

type instrumented struct {
	backend string
	Store
}

func (s *instrumented) Get(ctx context.Context, id string) (*Session, error) {
	start := time.Now()
	sess, err := s.Store.Get(ctx, id)
	if err != nil {
		observability.Store().OnError(ctx, s.backend, "get", err)
		return nil, err
	}
	observability.Store().OnLoad(ctx, s.backend, sess != nil, time.Since(start))
	return sess, nil
}

func (s *instrumented) Set(ctx context.Context, sess *Session) error {
	start := time.Now()
	if err := s.Store.Set(ctx, sess); err != nil {
		observability.Store().OnError(ctx, s.backend, "set", err)
		return err
	}
	size := 0
	if data, err := Encode(sess); err == nil {
		size = len(data)
	}
	observability.Store().OnSave(ctx, s.backend, size, time.Since(start))
	return nil
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	if err != nil {
		observability.Store().OnError(ctx, s.backend, "delete", err)
	}
	return err
}

func (s *instrumented) List(ctx context.Context) ([]*Session, error) {
	out, err := s.Store.List(ctx)
	if err != nil {
		observability.Store().OnError(ctx, s.backend, "list", err)
	}
	return out, err
}
