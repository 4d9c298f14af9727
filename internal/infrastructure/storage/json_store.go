package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"OutreachScanner/internal/domain"
	"OutreachScanner/internal/ports"
)

// JSONStore persists the article collection as a single human-readable
// JSON document. Single writer, full-document overwrite on every save.
type JSONStore struct {
	path string
}

var _ ports.ArticleStore = (*JSONStore)(nil)

// NewJSONStore points the store at a document path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the document. A missing file or one that fails to decode
// yields an empty collection, not an error: the next save rebuilds it.
func (s *JSONStore) Load(ctx context.Context) (domain.Collection, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return emptyCollection(), nil
		}
		return emptyCollection(), fmt.Errorf("read %s: %w", s.path, err)
	}

	var col domain.Collection
	if err := json.Unmarshal(raw, &col); err != nil {
		return emptyCollection(), nil
	}

	if col.Articles == nil {
		col.Articles = []domain.Article{}
	}
	return col, nil
}

// Save rewrites the whole document with two-space indentation. HTML
// escaping is off so URLs and non-ASCII text are stored verbatim.
func (s *JSONStore) Save(ctx context.Context, col domain.Collection) error {
	if col.Articles == nil {
		col.Articles = []domain.Article{}
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(col); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode collection: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}

	return nil
}

func emptyCollection() domain.Collection {
	return domain.Collection{Articles: []domain.Article{}}
}
