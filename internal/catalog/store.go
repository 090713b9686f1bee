package catalog

import (
	"context"
	"errors"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrReviewExists   = errors.New("review already exists")
	ErrReviewNotFound = errors.New("review not found")
)

// Book is a catalog record. ISBN is the catalog key and is not part of the JSON
// object; Reviews maps username to review text.
type Book struct {
	ISBN    string            `json:"-"`
	Title   string            `json:"title"`
	Author  string            `json:"author"`
	Reviews map[string]string `json:"reviews,omitempty"`
}

type Store interface {
	All(ctx context.Context) (map[string]Book, error)
	Get(ctx context.Context, isbn string) (Book, bool, error)
	ByAuthor(ctx context.Context, author string) ([]Book, error)
	ByTitle(ctx context.Context, title string) ([]Book, error)

	Reviews(ctx context.Context, isbn string) (map[string]string, bool, error)
	AddReview(ctx context.Context, isbn, username, text string) error
	DeleteReview(ctx context.Context, isbn, username string) error

	Ping(ctx context.Context) error
}
