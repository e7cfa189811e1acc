package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/bookstore/internal/core/domain"
	"github.com/atvirokodosprendimai/bookstore/internal/core/ports"
)

type BookService struct {
	repo ports.BookRepository
}

func NewBookService(repo ports.BookRepository) *BookService {
	return &BookService{repo: repo}
}

func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	return s.repo.List(ctx)
}

func (s *BookService) Get(ctx context.Context, isbn string) (domain.Book, error) {
	if err := domain.ValidateISBN(isbn); err != nil {
		return domain.Book{}, err
	}
	return s.repo.Get(ctx, isbn)
}

func (s *BookService) Create(ctx context.Context, book domain.Book, meta domain.MutationMetadata) (domain.Book, error) {
	if err := domain.ValidateISBN(book.ISBN); err != nil {
		return domain.Book{}, err
	}
	return s.repo.Create(ctx, book, meta.Normalize())
}

func (s *BookService) Update(ctx context.Context, book domain.Book, meta domain.MutationMetadata) (domain.Book, error) {
	if err := domain.ValidateISBN(book.ISBN); err != nil {
		return domain.Book{}, err
	}
	return s.repo.Update(ctx, book, meta.Normalize())
}

func (s *BookService) Delete(ctx context.Context, isbn string, meta domain.MutationMetadata) error {
	if err := domain.ValidateISBN(isbn); err != nil {
		return err
	}
	return s.repo.Delete(ctx, isbn, meta.Normalize())
}
