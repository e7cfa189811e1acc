package sqlite

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/bookstore/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/bookstore/internal/core/domain"
)

type BookEventRepository struct {
	db *gormsqlite.DB
}

func NewBookEventRepository(db *gormsqlite.DB) *BookEventRepository {
	return &BookEventRepository{db: db}
}

func (r *BookEventRepository) List(ctx context.Context, filter domain.BookEventFilter) ([]domain.BookEvent, error) {
	var models []bookEventModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		query := tx.Where("isbn = ?", filter.ISBN)
		if filter.AfterID > 0 {
			query = query.Where("id > ?", filter.AfterID)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		return query.Order("id ASC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list book events: %w", err)
	}

	events := make([]domain.BookEvent, 0, len(models))
	for _, model := range models {
		events = append(events, domain.BookEvent{
			ID:         model.ID,
			EventID:    model.EventID,
			ISBN:       model.ISBN,
			Action:     model.Action,
			RequestID:  model.RequestID,
			OccurredAt: model.OccurredAt,
		})
	}
	return events, nil
}
