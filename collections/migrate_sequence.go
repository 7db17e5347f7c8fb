package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateConclusionSequence assigns a list position to conclusions that have
// none, such as records added through the admin dashboard. Unnumbered
// records are appended after the highest existing seq in creation order.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateConclusionSequence(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId(Conclusions)
	if err != nil {
		return fmt.Errorf("migrate: could not find %s collection: %w", Conclusions, err)
	}

	unnumbered, err := app.FindRecordsByFilter(col, "seq = 0", "@rowid", 0, 0)
	if err != nil {
		return fmt.Errorf("migrate: could not query unnumbered conclusions: %w", err)
	}
	if len(unnumbered) == 0 {
		return nil
	}

	last, err := app.FindRecordsByFilter(col, "seq > 0", "-seq", 1, 0)
	if err != nil {
		return fmt.Errorf("migrate: could not query last seq: %w", err)
	}
	next := 1
	if len(last) > 0 {
		next = last[0].GetInt("seq") + 1
	}

	log.Printf("migrate: found %d conclusion(s) without seq -- numbering from %d...\n", len(unnumbered), next)

	for _, r := range unnumbered {
		r.Set("seq", next)
		if err := app.Save(r); err != nil {
			log.Printf("migrate: failed to number conclusion %s: %v\n", r.Id, err)
			continue
		}
		next++
	}
	return nil
}
