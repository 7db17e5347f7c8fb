package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ndtreports/model"
)

// Compile-time check that Memory satisfies Repository.
var _ Repository = (*Memory)(nil)

// Memory is an in-process Repository used by tests and the CLI when no
// PocketBase data directory is involved.
type Memory struct {
	mu      sync.Mutex
	records []model.InspectionRecord
	newID   func() string
}

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{newID: uuid.NewString}
}

// Append stores a copy of rec under a fresh ID and returns the stored copy.
func (m *Memory) Append(rec model.InspectionRecord) (model.InspectionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := rec.Clone()
	stored.ID = m.newID()
	m.records = append(m.records, stored)
	return stored.Clone(), nil
}

// List returns copies of all records in insertion order.
func (m *Memory) List() ([]model.InspectionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.InspectionRecord, len(m.records))
	for i, r := range m.records {
		out[i] = r.Clone()
	}
	return out, nil
}

// Get returns the record with the given ID.
func (m *Memory) Get(id string) (model.InspectionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return model.InspectionRecord{}, fmt.Errorf("get %s: %w", id, model.ErrRecordNotFound)
}

// ReplaceByID replaces the record with rec.ID in place, keeping its position.
func (m *Memory) ReplaceByID(rec model.InspectionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, r := range m.records {
		if r.ID == rec.ID {
			m.records[i] = rec.Clone()
			return nil
		}
	}
	return fmt.Errorf("replace %s: %w", rec.ID, model.ErrRecordNotFound)
}
