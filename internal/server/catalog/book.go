// Package catalog reads the book catalog the favorites feature refers to.
// The catalog is read-only from this service's point of view.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// BookID identifies a catalog entry. It is opaque to this service; JSON
// numbers are accepted and stored in their shortest decimal form, so 7,
// 7.0 and 7e0 are the same id.
type BookID string

func (id *BookID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = BookID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("book id must be a string or number: %w", err)
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return fmt.Errorf("book id must be a string or number: %w", err)
	}
	if f == 0 {
		f = 0 // -0
	}
	*id = BookID(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

type Book struct {
	ID     BookID `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Catalog lists all books in catalog order.
type Catalog interface {
	List(ctx context.Context) ([]Book, error)
}

func decode(data []byte) ([]Book, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Book{}, nil
	}
	var books []Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// MemoryCatalog serves a fixed list.
type MemoryCatalog struct {
	books []Book
}

func NewMemoryCatalog(books ...Book) *MemoryCatalog {
	return &MemoryCatalog{books: append([]Book{}, books...)}
}

func (c *MemoryCatalog) List(ctx context.Context) ([]Book, error) {
	return append([]Book{}, c.books...), nil
}
