package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"ndtreports/model"
)

// Collection names used by the record store.
const (
	Conclusions = "conclusions"
	Defects     = "defects"
)

// Setup programmatically creates/ensures the conclusions and defects
// collections exist.
func Setup(app *pocketbase.PocketBase) {
	conclusions := ensureCollection(app, Conclusions, func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "seq", Required: false, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "number", Required: false})
		c.Fields.Add(&core.TextField{Name: "date", Required: false})
		c.Fields.Add(&core.TextField{Name: "object_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "pipeline_section", Required: false})
		c.Fields.Add(&core.TextField{Name: "control_method", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "result",
			Required:  true,
			Values:    []string{string(model.ResultAccepted), string(model.ResultRejected)},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "attributes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, Defects, func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "conclusion",
			Required:      true,
			CollectionId:  conclusions.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "weld_id", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "verdict",
			Required:  true,
			Values:    []string{string(model.VerdictPass), string(model.VerdictFail)},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "attributes"})
	})
}

// ensureCollection returns the named collection, creating it with the fields
// added by addFields when it does not exist yet.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
