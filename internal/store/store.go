// Package store persists layouts by name. Publishing stored layouts to a
// downstream document service is out of scope; the store only loads, saves
// and lists.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/validation"
)

// TemplateStore loads and saves named layouts.
type TemplateStore interface {
	Load(ctx context.Context, name string) (*layout.Layout, error)
	Save(ctx context.Context, name string, l *layout.Layout) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// FileStore keeps one file per layout in a directory. It saves pretty JSON
// and also loads YAML files placed there by hand.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := validation.ValidatePath(dir); err != nil {
		return nil, errors.WrapConfig(err, "invalid template directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot create template directory")
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Load reads the named layout, preferring the JSON file.
func (s *FileStore) Load(ctx context.Context, name string) (*layout.Layout, error) {
	if err := validation.ValidateTemplateName(name); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeValidationFailed, err.Error())
	}

	for _, ext := range validation.LayoutExtensions {
		path := filepath.Join(s.dir, name+ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot read template").WithFile(path)
		}
		if ext == ".json" {
			l, err := layout.Parse(data)
			if err != nil {
				return nil, withFile(err, path)
			}
			return l, nil
		}
		l, err := layout.ParseYAML(data)
		if err != nil {
			return nil, withFile(err, path)
		}
		return l, nil
	}
	return nil, errors.ErrFileNotFound(filepath.Join(s.dir, name+".json"), os.ErrNotExist)
}

func withFile(err error, path string) error {
	if de, ok := errors.AsDocketError(err); ok {
		return de.WithFile(path)
	}
	return err
}

// Save writes l as indented JSON, replacing any previous version atomically.
func (s *FileStore) Save(ctx context.Context, name string, l *layout.Layout) error {
	if err := validation.ValidateTemplateName(name); err != nil {
		return errors.NewValidationError(errors.ErrCodeValidationFailed, err.Error())
	}
	if l == nil {
		return errors.NewValidationError(errors.ErrCodeValidationFailed, "cannot save a nil layout")
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInternalError, "cannot encode layout", err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.dir, name+".json")
	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot create temporary file").WithFile(path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot write template").WithFile(path)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot write template").WithFile(path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot replace template").WithFile(path)
	}
	return nil
}

// List returns the stored layout names, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot list templates").WithFile(s.dir)
	}

	seen := map[string]struct{}{}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if validation.ValidateFileExtension(e.Name(), validation.LayoutExtensions) != nil {
			continue
		}
		seen[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes every file of the named layout. Deleting a missing layout
// is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := validation.ValidateTemplateName(name); err != nil {
		return errors.NewValidationError(errors.ErrCodeValidationFailed, err.Error())
	}
	for _, ext := range validation.LayoutExtensions {
		err := os.Remove(filepath.Join(s.dir, name+ext))
		if err != nil && !os.IsNotExist(err) {
			return errors.WrapIO(err, errors.ErrCodeFileNotFound, fmt.Sprintf("cannot delete template %s", name))
		}
	}
	return nil
}

var _ TemplateStore = (*FileStore)(nil)
