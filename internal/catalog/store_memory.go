package catalog

import (
	"context"
	"maps"
	"sort"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string]Book
}

// NewMemStore takes ownership of a copy of books. Keys are the ISBNs; the ISBN
// field of each value is overwritten with its key.
func NewMemStore(books map[string]Book) *MemStore {
	s := &MemStore{m: make(map[string]Book, len(books))}
	for isbn, b := range books {
		b.ISBN = isbn
		b.Reviews = maps.Clone(b.Reviews)
		s.m[isbn] = b
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) All(ctx context.Context) (map[string]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Book, len(s.m))
	for isbn, b := range s.m {
		out[isbn] = clone(b)
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, isbn string) (Book, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.m[isbn]
	if !ok {
		return Book{}, false, nil
	}
	return clone(b), true, nil
}

func (s *MemStore) ByAuthor(ctx context.Context, author string) ([]Book, error) {
	return s.filter(func(b Book) bool { return b.Author == author }), nil
}

func (s *MemStore) ByTitle(ctx context.Context, title string) ([]Book, error) {
	return s.filter(func(b Book) bool { return b.Title == title }), nil
}

func (s *MemStore) filter(match func(Book) bool) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Book, 0, 4)
	for _, b := range s.m {
		if match(b) {
			out = append(out, clone(b))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ISBN < out[j].ISBN })
	return out
}

func (s *MemStore) Reviews(ctx context.Context, isbn string) (map[string]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.m[isbn]
	if !ok {
		return nil, false, nil
	}

	out := maps.Clone(b.Reviews)
	if out == nil {
		out = map[string]string{}
	}
	return out, true, nil
}

func (s *MemStore) AddReview(ctx context.Context, isbn, username, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.m[isbn]
	if !ok {
		return ErrBookNotFound
	}
	if _, exists := b.Reviews[username]; exists {
		return ErrReviewExists
	}

	if b.Reviews == nil {
		b.Reviews = make(map[string]string)
	}
	b.Reviews[username] = text
	s.m[isbn] = b
	return nil
}

func (s *MemStore) DeleteReview(ctx context.Context, isbn, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.m[isbn]
	if !ok {
		return ErrBookNotFound
	}
	if _, exists := b.Reviews[username]; !exists {
		return ErrReviewNotFound
	}

	delete(b.Reviews, username)
	return nil
}

func clone(b Book) Book {
	b.Reviews = maps.Clone(b.Reviews)
	return b
}
