package catalog

import (
	"context"

	"catshop/internal/domain"
	"catshop/internal/store"
)

type documentStore interface {
	Load() (store.Document, error)
}

// Service serves the read-only catalog straight from the document.
type Service struct {
	store documentStore
}

func New(st documentStore) *Service {
	return &Service{store: st}
}

func (s *Service) List(ctx context.Context) ([]domain.Cat, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return doc.Cats, nil
}
