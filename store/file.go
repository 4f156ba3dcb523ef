package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xy-planning-network/golink"
)

var _ Store = (*File)(nil)

// File is a [Store] persisting records to a JSON file.
// Reads are served from memory; every write rewrites the file
// and fails without effect if the file cannot be written.
type File struct {
	mem  *Memory
	path string

	mu sync.Mutex
}

type fileContents struct {
	Redirects []fileRecord `json:"redirects"`
}

type fileRecord struct {
	ID int64 `json:"id"`
	Record
}

// OpenFile loads the records stored at path into a [*File],
// creating the file if it does not exist.
func OpenFile(path string) (*File, error) {
	var contents fileContents
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("%w: reading %s: %s", golink.ErrBadConfig, path, err)
	case len(b) > 0:
		if err := json.Unmarshal(b, &contents); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %s", golink.ErrBadFormat, path, err)
		}
	}

	records := make([]Record, 0, len(contents.Redirects))
	for _, fr := range contents.Redirects {
		fr.Record.ID = fr.ID
		records = append(records, fr.Record)
	}

	mem, err := NewMemory(records...)
	if err != nil {
		return nil, err
	}

	f := &File{mem: mem, path: path}
	if err := f.persist(mem); err != nil {
		return nil, err
	}

	return f, nil
}

// Get retrieves the record whose public reference or alias equals ref.
func (f *File) Get(ctx context.Context, ref string) (Record, error) { return f.mem.Get(ctx, ref) }

// List retrieves the records in page in the order they were created.
func (f *File) List(ctx context.Context, page Page) (List, error) { return f.mem.List(ctx, page) }

// Create stores a new record and rewrites the file.
func (f *File) Create(ctx context.Context, alias, destination string, by User) (Record, error) {
	return f.write(func(m *Memory) (Record, error) { return m.Create(ctx, alias, destination, by) })
}

// Update replaces the destination of the record ref names and rewrites the file.
func (f *File) Update(ctx context.Context, ref, destination string, by User) (Record, error) {
	return f.write(func(m *Memory) (Record, error) { return m.Update(ctx, ref, destination, by) })
}

// Delete removes the record ref names and rewrites the file.
func (f *File) Delete(ctx context.Context, ref string) (Record, error) {
	return f.write(func(m *Memory) (Record, error) { return m.Delete(ctx, ref) })
}

// write applies change to a copy of the records and persists the copy.
// The records served by f change only once the file is written.
func (f *File) write(change func(m *Memory) (Record, error)) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.mem.clone()
	r, err := change(next)
	if err != nil {
		return Record{}, err
	}

	if err := f.persist(next); err != nil {
		return Record{}, err
	}

	f.mem.replace(next)
	return r, nil
}

// persist writes every record in m to a temporary file and renames it over f.path.
func (f *File) persist(m *Memory) error {
	records := m.snapshot()
	contents := fileContents{Redirects: make([]fileRecord, 0, len(records))}
	for _, r := range records {
		contents.Redirects = append(contents.Redirects, fileRecord{ID: r.ID, Record: r})
	}

	b, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding redirects: %s", golink.ErrUnexpected, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".golink-*.json")
	if err != nil {
		return fmt.Errorf("%w: writing %s: %s", golink.ErrUnexpected, f.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %s", golink.ErrUnexpected, f.path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: writing %s: %s", golink.ErrUnexpected, f.path, err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("%w: writing %s: %s", golink.ErrUnexpected, f.path, err)
	}

	return nil
}
