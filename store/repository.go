// Package store persists finalized conclusions behind a small repository
// interface so the backing store can change without touching the allocator
// or the export writers.
package store

import "ndtreports/model"

// Repository is the ordered collection of finalized conclusions.
//
// List returns records in the order they were appended. ReplaceByID swaps a
// record for a new version with the same ID and returns
// model.ErrRecordNotFound when no such record exists.
type Repository interface {
	Append(rec model.InspectionRecord) (model.InspectionRecord, error)
	List() ([]model.InspectionRecord, error)
	Get(id string) (model.InspectionRecord, error)
	ReplaceByID(rec model.InspectionRecord) error
}

// Numbers returns the document numbers of every stored record.
func Numbers(repo Repository) ([]string, error) {
	records, err := repo.List()
	if err != nil {
		return nil, err
	}
	numbers := make([]string, 0, len(records))
	for _, r := range records {
		numbers = append(numbers, r.Number)
	}
	return numbers, nil
}
