package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed seed/books.json
var defaultSeed []byte

// LoadSeed reads a JSON object of ISBN to book. An empty path returns the
// embedded default catalog.
func LoadSeed(path string) (map[string]Book, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
		raw = b
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (map[string]Book, error) {
	var books map[string]Book
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	for isbn, b := range books {
		if isbn == "" {
			return nil, fmt.Errorf("seed: empty isbn key")
		}
		b.ISBN = isbn
		books[isbn] = b
	}
	return books, nil
}
