package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xy-planning-network/golink"
)

var _ Store = (*Memory)(nil)

// Memory is a [Store] holding records in process.
// Records are lost when the process exits.
type Memory struct {
	mu      sync.RWMutex
	lastID  int64
	records []Record
}

// NewMemory constructs a [*Memory] seeded with records.
// Seeded records missing an ID or public reference are assigned one.
func NewMemory(records ...Record) (*Memory, error) {
	m := new(Memory)
	for _, r := range records {
		if r.ID == 0 {
			r.ID = m.lastID + 1
		}
		if r.PublicRef == "" {
			ref, err := m.newRef()
			if err != nil {
				return nil, err
			}
			r.PublicRef = ref
		}
		if r.ID > m.lastID {
			m.lastID = r.ID
		}

		m.records = append(m.records, r)
	}

	return m, nil
}

// Get retrieves the record whose public reference or alias equals ref.
func (m *Memory) Get(_ context.Context, ref string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.index(ref)
	if i < 0 {
		return Record{}, fmt.Errorf("%w: redirect %q", golink.ErrNotFound, ref)
	}

	return m.records[i], nil
}

// Create stores a new record, assigning it an ID and a public reference.
func (m *Memory) Create(_ context.Context, alias, destination string, by User) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.Alias == alias {
			return Record{}, fmt.Errorf("%w: alias %q", golink.ErrExists, alias)
		}
	}

	ref, err := m.newRef()
	if err != nil {
		return Record{}, err
	}

	m.lastID++
	r := Record{
		ID:          m.lastID,
		PublicRef:   ref,
		Alias:       alias,
		Destination: destination,
		CreatedOn:   time.Now().UTC(),
		CreatedBy:   by,
	}
	m.records = append(m.records, r)

	return r, nil
}

// Update replaces the destination and author of the record ref names.
func (m *Memory) Update(_ context.Context, ref, destination string, by User) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(ref)
	if i < 0 {
		return Record{}, fmt.Errorf("%w: redirect %q", golink.ErrNotFound, ref)
	}

	m.records[i].Destination = destination
	m.records[i].CreatedBy = by

	return m.records[i], nil
}

// Delete removes the record ref names.
func (m *Memory) Delete(_ context.Context, ref string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(ref)
	if i < 0 {
		return Record{}, fmt.Errorf("%w: redirect %q", golink.ErrNotFound, ref)
	}

	r := m.records[i]
	m.records = append(m.records[:i], m.records[i+1:]...)

	return r, nil
}

// List retrieves the records in page in the order they were created.
func (m *Memory) List(_ context.Context, page Page) (List, error) {
	page = page.Normalize()

	m.mu.RLock()
	defer m.mu.RUnlock()

	total := int64(len(m.records))
	start := min(page.Offset(), len(m.records))
	end := min(start+page.Size, len(m.records))

	return List{
		Records: append([]Record{}, m.records[start:end]...),
		Total:   total,
		HasMore: page.HasMore(total),
	}, nil
}

// snapshot copies every record.
func (m *Memory) snapshot() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Record{}, m.records...)
}

// clone copies m.
func (m *Memory) clone() *Memory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &Memory{lastID: m.lastID, records: append([]Record{}, m.records...)}
}

// replace swaps the contents of m for those of next.
func (m *Memory) replace(next *Memory) {
	next.mu.RLock()
	defer next.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID = next.lastID
	m.records = next.records
}

// index finds the position of the record ref names, or -1.
func (m *Memory) index(ref string) int {
	for i, r := range m.records {
		if r.Matches(ref) {
			return i
		}
	}

	return -1
}

// newRef generates a public reference unused by any record.
func (m *Memory) newRef() (string, error) {
	for {
		ref, err := NewPublicRef()
		if err != nil {
			return "", err
		}

		if m.index(ref) < 0 {
			return ref, nil
		}
	}
}
