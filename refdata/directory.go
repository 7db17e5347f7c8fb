// Package refdata loads customers, welders, pipe diameters and templates
// and resolves them by id when a draft is finalized.
package refdata

import (
	"sort"
	"sync"

	"ndtreports/model"
)

// Bundle is the raw payload returned by a Source.
type Bundle struct {
	Customers     []model.Customer     `json:"customers" yaml:"customers"`
	Welders       []model.Welder       `json:"welders" yaml:"welders"`
	PipeDiameters []model.PipeDiameter `json:"pipe_diameters" yaml:"pipe_diameters"`
	Templates     []model.Template     `json:"templates" yaml:"templates"`
}

// Directory is the in-memory lookup table over a loaded Bundle. The zero
// value is an empty directory where every lookup misses.
type Directory struct {
	mu        sync.RWMutex
	customers map[string]model.Customer
	welders   map[string]model.Welder
	diameters map[string]model.PipeDiameter
	templates map[string]model.Template
	order     Bundle
}

// NewDirectory indexes b by id. Entries with an empty id are dropped and a
// repeated id keeps the last entry.
func NewDirectory(b Bundle) *Directory {
	d := &Directory{}
	for _, c := range b.Customers {
		d.PutCustomer(c)
	}
	for _, w := range b.Welders {
		d.PutWelder(w)
	}
	for _, p := range b.PipeDiameters {
		d.PutPipeDiameter(p)
	}
	for _, t := range b.Templates {
		d.PutTemplate(t)
	}
	return d
}

// Customer looks up a customer by id.
func (d *Directory) Customer(id string) (model.Customer, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.customers[id]
	return c, ok
}

// Welder looks up a welder by id.
func (d *Directory) Welder(id string) (model.Welder, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	w, ok := d.welders[id]
	return w, ok
}

// PipeDiameter looks up pipe geometry by id.
func (d *Directory) PipeDiameter(id string) (model.PipeDiameter, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.diameters[id]
	return p, ok
}

// Template looks up a template by id.
func (d *Directory) Template(id string) (model.Template, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.templates[id]
	return t, ok
}

// PutCustomer adds or replaces a customer.
func (d *Directory) PutCustomer(c model.Customer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.order.Customers = upsert(&d.customers, d.order.Customers, c.ID, c,
		func(x model.Customer) string { return x.ID })
}

// PutWelder adds or replaces a welder.
func (d *Directory) PutWelder(w model.Welder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.order.Welders = upsert(&d.welders, d.order.Welders, w.ID, w,
		func(x model.Welder) string { return x.ID })
}

// PutPipeDiameter adds or replaces a pipe diameter entry.
func (d *Directory) PutPipeDiameter(p model.PipeDiameter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.order.PipeDiameters = upsert(&d.diameters, d.order.PipeDiameters, p.ID, p,
		func(x model.PipeDiameter) string { return x.ID })
}

// PutTemplate adds or replaces a template.
func (d *Directory) PutTemplate(t model.Template) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.order.Templates = upsert(&d.templates, d.order.Templates, t.ID, t,
		func(x model.Template) string { return x.ID })
}

// upsert stores v under id in index and keeps order in first-seen order.
// Entries without an id are ignored.
func upsert[T any](index *map[string]T, order []T, id string, v T, idOf func(T) string) []T {
	if id == "" {
		return order
	}
	if *index == nil {
		*index = map[string]T{}
	}
	if _, ok := (*index)[id]; ok {
		for i := range order {
			if idOf(order[i]) == id {
				order[i] = v
			}
		}
	} else {
		order = append(order, v)
	}
	(*index)[id] = v
	return order
}

// Snapshot returns a copy of every entry in load order.
func (d *Directory) Snapshot() Bundle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Bundle{
		Customers:     append([]model.Customer(nil), d.order.Customers...),
		Welders:       append([]model.Welder(nil), d.order.Welders...),
		PipeDiameters: append([]model.PipeDiameter(nil), d.order.PipeDiameters...),
		Templates:     append([]model.Template(nil), d.order.Templates...),
	}
}

// Templates returns the templates sorted by name.
func (d *Directory) Templates() []model.Template {
	out := d.Snapshot().Templates
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Empty reports whether nothing was loaded.
func (d *Directory) Empty() bool {
	b := d.Snapshot()
	return len(b.Customers) == 0 && len(b.Welders) == 0 && len(b.PipeDiameters) == 0 && len(b.Templates) == 0
}
