package domain

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidISBN = errors.New("invalid isbn")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("already exists")
)

var isbnPattern = regexp.MustCompile(`^[0-9A-Za-z-]{1,32}$`)

type Book struct {
	ISBN      string `json:"isbn"`
	AmazonURL string `json:"amazon_url"`
	Author    string `json:"author"`
	Language  string `json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
}

func ValidateISBN(isbn string) error {
	if !isbnPattern.MatchString(isbn) {
		return ErrInvalidISBN
	}
	return nil
}
