package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/google/renameio/v2"

	"github.com/umputun/perspectives/pkg/domain"
)

// Files stores each record as <root>/<category>/<id>.json
type Files struct {
	root string
}

// NewFiles makes a file store rooted at the given directory
func NewFiles(root string) *Files {
	return &Files{root: root}
}

// Save writes the record into its category partition, replacing any previous version.
// The write goes through a synced temp file and rename, so readers never see a partial record.
func (f *Files) Save(_ context.Context, rec domain.Record) error {
	if err := checkKey(rec.Category, rec.ID); err != nil {
		return err
	}
	dir := filepath.Join(f.root, string(rec.Category))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create partition %s: %w", rec.Category, err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}
	if err := renameio.WriteFile(filepath.Join(dir, rec.ID+".json"), data, 0o600); err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	return nil
}

// Get loads a single record
func (f *Files) Get(_ context.Context, cat domain.Category, id string) (domain.Record, error) {
	if err := checkKey(cat, id); err != nil {
		return domain.Record{}, err
	}
	rec, err := readRecord(filepath.Join(f.root, string(cat), id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return domain.Record{}, fmt.Errorf("get %s/%s: %w", cat, id, ErrNotFound)
	}
	if err != nil {
		return domain.Record{}, fmt.Errorf("get %s/%s: %w", cat, id, err)
	}
	rec.Category = cat
	return rec, nil
}

// List returns all readable records of the partition sorted by file name.
// A missing partition is empty, unreadable or malformed files are logged and skipped.
func (f *Files) List(_ context.Context, cat domain.Category) ([]domain.Record, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("invalid category %q", cat)
	}
	dir := filepath.Join(f.root, string(cat))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read partition %s: %w", cat, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	res := make([]domain.Record, 0, len(names))
	for _, name := range names {
		rec, err := readRecord(filepath.Join(dir, name))
		if err != nil {
			lgr.Printf("[WARN] skip record %s/%s: %v", cat, name, err)
			continue
		}
		rec.Category = cat // partition is authoritative
		res = append(res, rec)
	}
	return res, nil
}

// IDs returns ids of all readable records in the partition
func (f *Files) IDs(ctx context.Context, cat domain.Category) ([]string, error) {
	recs, err := f.List(ctx, cat)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// Delete removes the record from the partition
func (f *Files) Delete(_ context.Context, cat domain.Category, id string) error {
	if err := checkKey(cat, id); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(f.root, string(cat), id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s/%s: %w", cat, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", cat, id, err)
	}
	return nil
}

func readRecord(path string) (domain.Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from validated category and id
	if err != nil {
		return domain.Record{}, err
	}
	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Record{}, fmt.Errorf("unmarshal: %w", err)
	}
	if rec.ID == "" {
		return domain.Record{}, errors.New("record without id")
	}
	return rec, nil
}

// WriteJSON marshals v with indentation and writes it atomically, creating parent directories
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", filepath.Base(path), err)
	}
	if err := renameio.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
