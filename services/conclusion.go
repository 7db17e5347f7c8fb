package services

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"ndtreports/model"
	"ndtreports/store"
)

// ErrMissingID is returned by Update for drafts that were never saved.
var ErrMissingID = errors.New("draft has no record id")

// ConclusionService ties drafts, the repository and the number allocator
// together.
type ConclusionService struct {
	repo     store.Repository
	resolver Resolver
	prefix   string
	now      func() time.Time
}

// NewConclusionService returns a service numbering conclusions with prefix.
func NewConclusionService(repo store.Repository, resolver Resolver, prefix string) *ConclusionService {
	return &ConclusionService{
		repo:     repo,
		resolver: resolver,
		prefix:   prefix,
		now:      time.Now,
	}
}

// Repository returns the backing repository.
func (s *ConclusionService) Repository() store.Repository {
	return s.repo
}

// NextNumber proposes the number for the next draft.
func (s *ConclusionService) NextNumber() (string, error) {
	return GenerateConclusionNumber(s.repo, s.prefix, s.now())
}

// NewDraft returns a fresh draft with the next proposed number.
func (s *ConclusionService) NewDraft(defaults DraftDefaults) (Draft, error) {
	number, err := s.NextNumber()
	if err != nil {
		return Draft{}, err
	}
	return NewDraft(defaults, number, s.now()), nil
}

// Save finalizes d and appends it as a new record.
func (s *ConclusionService) Save(d Draft) (model.InspectionRecord, error) {
	rec := Finalize(d, s.resolver)
	rec.ID = ""
	saved, err := s.repo.Append(rec)
	if err != nil {
		return model.InspectionRecord{}, fmt.Errorf("append conclusion %s: %w", rec.Number, err)
	}
	return saved, nil
}

// Update finalizes d and replaces the record it was opened from.
func (s *ConclusionService) Update(d Draft) (model.InspectionRecord, error) {
	if d.ID == "" {
		return model.InspectionRecord{}, ErrMissingID
	}
	rec := Finalize(d, s.resolver)
	if err := s.repo.ReplaceByID(rec); err != nil {
		return model.InspectionRecord{}, fmt.Errorf("replace conclusion %s: %w", d.ID, err)
	}
	return rec, nil
}

// AppendDefects adds rows to the defect table of the saved record id. Only
// the new rows are resolved against the reference directory; the header and
// the rows already stored keep the names they were saved with.
func (s *ConclusionService) AppendDefects(id string, rows []DefectDraft) (model.InspectionRecord, error) {
	rec, err := s.repo.Get(id)
	if err != nil {
		return model.InspectionRecord{}, err
	}
	added := finalizeDefects(rows, rec.PipeDiameter, rec.WallThickness, s.resolver)
	rec.Defects = append(slices.Clone(rec.Defects), added...)
	if err := s.repo.ReplaceByID(rec); err != nil {
		return model.InspectionRecord{}, fmt.Errorf("append defects to %s: %w", id, err)
	}
	return rec, nil
}

// Get returns one record.
func (s *ConclusionService) Get(id string) (model.InspectionRecord, error) {
	return s.repo.Get(id)
}

// List returns records newest first.
func (s *ConclusionService) List() ([]model.InspectionRecord, error) {
	records, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Latest returns the most recently appended record. ok is false when the
// repository is empty.
func (s *ConclusionService) Latest() (rec model.InspectionRecord, ok bool, err error) {
	records, err := s.repo.List()
	if err != nil {
		return model.InspectionRecord{}, false, err
	}
	if len(records) == 0 {
		return model.InspectionRecord{}, false, nil
	}
	return records[len(records)-1], true, nil
}
