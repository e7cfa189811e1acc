package ports

import (
	"context"

	"github.com/atvirokodosprendimai/bookstore/internal/core/domain"
)

// BookRepository writes a BookEvent alongside every successful mutation.
type BookRepository interface {
	List(ctx context.Context) ([]domain.Book, error)
	Get(ctx context.Context, isbn string) (domain.Book, error)
	Create(ctx context.Context, book domain.Book, meta domain.MutationMetadata) (domain.Book, error)
	Update(ctx context.Context, book domain.Book, meta domain.MutationMetadata) (domain.Book, error)
	Delete(ctx context.Context, isbn string, meta domain.MutationMetadata) error
}

type BookEventRepository interface {
	List(ctx context.Context, filter domain.BookEventFilter) ([]domain.BookEvent, error)
}
