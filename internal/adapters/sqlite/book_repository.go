package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/bookstore/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/bookstore/internal/core/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookModel struct {
	ISBN      string `gorm:"column:isbn;primaryKey"`
	AmazonURL string `gorm:"column:amazon_url"`
	Author    string `gorm:"column:author"`
	Language  string `gorm:"column:language"`
	Pages     int    `gorm:"column:pages"`
	Publisher string `gorm:"column:publisher"`
	Title     string `gorm:"column:title;not null"`
	Year      int    `gorm:"column:year"`
}

func (bookModel) TableName() string {
	return "books"
}

type bookEventModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EventID    string    `gorm:"column:event_id;not null"`
	ISBN       string    `gorm:"column:isbn;not null"`
	Action     string    `gorm:"column:action;not null"`
	RequestID  string    `gorm:"column:request_id;not null"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null"`
}

func (bookEventModel) TableName() string {
	return "book_events"
}

type BookRepository struct {
	db *gormsqlite.DB
}

func NewBookRepository(db *gormsqlite.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	var models []bookModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Order("title ASC").Order("isbn ASC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	books := make([]domain.Book, 0, len(models))
	for _, model := range models {
		books = append(books, toBookDomain(model))
	}
	return books, nil
}

func (r *BookRepository) Get(ctx context.Context, isbn string) (domain.Book, error) {
	var model bookModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("isbn = ?", isbn).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, domain.ErrNotFound
		}
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	return toBookDomain(model), nil
}

func (r *BookRepository) Create(ctx context.Context, book domain.Book, meta domain.MutationMetadata) (domain.Book, error) {
	model := toBookModel(book)
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		var existing int64
		if err := tx.Model(&bookModel{}).Where("isbn = ?", book.ISBN).Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing book: %w", err)
		}
		if existing > 0 {
			return domain.ErrConflict
		}
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		return appendEvent(tx, book.ISBN, domain.BookCreated, meta)
	})
	if err != nil {
		return domain.Book{}, err
	}
	return toBookDomain(model), nil
}

func (r *BookRepository) Update(ctx context.Context, book domain.Book, meta domain.MutationMetadata) (domain.Book, error) {
	var saved bookModel
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		// A map writes zero values too; PUT replaces every column.
		res := tx.Model(&bookModel{}).Where("isbn = ?", book.ISBN).Updates(map[string]any{
			"amazon_url": book.AmazonURL,
			"author":     book.Author,
			"language":   book.Language,
			"pages":      book.Pages,
			"publisher":  book.Publisher,
			"title":      book.Title,
			"year":       book.Year,
		})
		if res.Error != nil {
			return fmt.Errorf("update book: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := appendEvent(tx, book.ISBN, domain.BookUpdated, meta); err != nil {
			return err
		}
		if err := tx.Where("isbn = ?", book.ISBN).First(&saved).Error; err != nil {
			return fmt.Errorf("load updated book: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Book{}, err
	}
	return toBookDomain(saved), nil
}

func (r *BookRepository) Delete(ctx context.Context, isbn string, meta domain.MutationMetadata) error {
	return r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Where("isbn = ?", isbn).Delete(&bookModel{})
		if res.Error != nil {
			return fmt.Errorf("delete book: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return appendEvent(tx, isbn, domain.BookDeleted, meta)
	})
}

func appendEvent(tx *gormsqlite.Tx, isbn, action string, meta domain.MutationMetadata) error {
	meta = meta.Normalize()
	model := bookEventModel{
		EventID:    uuid.NewString(),
		ISBN:       isbn,
		Action:     action,
		RequestID:  meta.RequestID,
		OccurredAt: meta.OccurredAt.UTC(),
	}
	if err := tx.Create(&model).Error; err != nil {
		return fmt.Errorf("insert book event: %w", err)
	}
	return nil
}

func toBookModel(book domain.Book) bookModel {
	return bookModel{
		ISBN:      book.ISBN,
		AmazonURL: book.AmazonURL,
		Author:    book.Author,
		Language:  book.Language,
		Pages:     book.Pages,
		Publisher: book.Publisher,
		Title:     book.Title,
		Year:      book.Year,
	}
}

func toBookDomain(model bookModel) domain.Book {
	return domain.Book{
		ISBN:      model.ISBN,
		AmazonURL: model.AmazonURL,
		Author:    model.Author,
		Language:  model.Language,
		Pages:     model.Pages,
		Publisher: model.Publisher,
		Title:     model.Title,
		Year:      model.Year,
	}
}
