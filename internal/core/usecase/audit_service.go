package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/bookstore/internal/core/domain"
	"github.com/atvirokodosprendimai/bookstore/internal/core/ports"
)

type AuditService struct {
	repo ports.BookEventRepository
}

func NewAuditService(repo ports.BookEventRepository) *AuditService {
	return &AuditService{repo: repo}
}

// History returns a book's events oldest first. Events outlive the book, so a
// deleted ISBN still has history.
func (s *AuditService) History(ctx context.Context, filter domain.BookEventFilter) ([]domain.BookEvent, error) {
	if err := domain.ValidateISBN(filter.ISBN); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}
