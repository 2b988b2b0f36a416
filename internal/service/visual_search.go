package service

import (
	"context"

	"github.com/iliyamo/commerce-admin-api/internal/repository"
)

// VisualMatch is one product match returned by visual search.
type VisualMatch struct {
	Product repository.Product `json:"product"`
	Score   float64            `json:"score"`
}

// VisualSearcher finds catalogue products resembling an image.  The
// interface keeps the handler ignorant of whether a real similarity
// engine or the stub below is behind it.
type VisualSearcher interface {
	Search(ctx context.Context, imageURL string, limit int) ([]VisualMatch, error)
}

// StubVisualSearcher has no vision model.  It returns the most popular
// in-stock products with descending pseudo-similarity scores, which gives
// the storefront a realistic payload shape to build against.
type StubVisualSearcher struct {
	Products *repository.ProductRepo
}

func NewStubVisualSearcher(products *repository.ProductRepo) *StubVisualSearcher {
	return &StubVisualSearcher{Products: products}
}

func (s *StubVisualSearcher) Search(ctx context.Context, _ string, limit int) ([]VisualMatch, error) {
	if limit < 1 {
		limit = 5
	}
	products, err := s.Products.Popular(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]VisualMatch, 0, len(products))
	score := 0.97
	for _, p := range products {
		out = append(out, VisualMatch{Product: p, Score: score})
		score -= 0.06
		if score < 0.5 {
			score = 0.5
		}
	}
	return out, nil
}
