package mirror

// RelationDescriptor names one relation an asset kind may carry and the kind
// its targets belong to.
type RelationDescriptor struct {
	// Name is the relation-type name used in export payloads (e.g. "upstream").
	Name string
	// TargetType is the asset kind the relation points at.
	TargetType string
}

// TypeDescriptor describes one asset kind: its place in the static hierarchy
// and the relations its entities may carry.
type TypeDescriptor struct {
	// Name is the unique asset kind name (e.g. "table").
	Name string
	// ParentType is the kind of the hierarchy parent, empty for roots.
	ParentType string
	// Relations lists the relation kinds entities of this type may carry.
	Relations []RelationDescriptor
}

// HasSelfRelations reports whether entities of this kind can reference other
// entities of the same kind. Kinds without self-relations can be imported in a
// single phase, since batching cannot split a relation from its target.
func (d TypeDescriptor) HasSelfRelations() bool {
	for _, rel := range d.Relations {
		if rel.TargetType == d.Name {
			return true
		}
	}
	return false
}

// Registry holds the ordered set of asset kinds. Registration order is
// hierarchy order: parents before children.
type Registry struct {
	ordered []TypeDescriptor
	byName  map[string]TypeDescriptor
}

// NewRegistry builds a registry from descriptors, preserving order.
func NewRegistry(descs ...TypeDescriptor) *Registry {
	r := &Registry{byName: make(map[string]TypeDescriptor, len(descs))}
	for _, d := range descs {
		r.ordered = append(r.ordered, d)
		r.byName[d.Name] = d
	}
	return r
}

// Types returns all descriptors in registration order.
func (r *Registry) Types() []TypeDescriptor {
	return r.ordered
}

// Get returns the descriptor for the named kind.
func (r *Registry) Get(name string) (TypeDescriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// ChildrenOf returns the kinds whose ParentType is the named kind.
func (r *Registry) ChildrenOf(name string) []string {
	var children []string
	for _, d := range r.ordered {
		if d.ParentType == name {
			children = append(children, d.Name)
		}
	}
	return children
}

// ExportStages groups the kinds into waves that are safe to export
// concurrently. A kind is placed only after its hierarchy parent and after
// every kind its cross-type relations target, so a relation payload never
// references a kind whose import may still be in flight. Self-relations are
// ignored here; the two-phase protocol handles those within a single kind.
func (r *Registry) ExportStages() [][]TypeDescriptor {
	placed := make(map[string]bool, len(r.ordered))
	var stages [][]TypeDescriptor

	for len(placed) < len(r.ordered) {
		var stage []TypeDescriptor
		for _, d := range r.ordered {
			if placed[d.Name] {
				continue
			}
			ready := d.ParentType == "" || placed[d.ParentType]
			for _, rel := range d.Relations {
				if rel.TargetType != d.Name && !placed[rel.TargetType] {
					ready = false
					break
				}
			}
			if ready {
				stage = append(stage, d)
			}
		}
		if len(stage) == 0 {
			// Relation cycle across kinds; export the remainder in one wave
			// rather than spinning forever.
			for _, d := range r.ordered {
				if !placed[d.Name] {
					stage = append(stage, d)
				}
			}
		}
		for _, d := range stage {
			placed[d.Name] = true
		}
		stages = append(stages, stage)
	}
	return stages
}

// DefaultRegistry returns the built-in asset kinds of the source catalog.
//
// Tables and columns carry lineage relations to their own kind and therefore
// take the two-phase import path; views and reports only reference other
// kinds and import single-phase.
func DefaultRegistry() *Registry {
	return NewRegistry(
		TypeDescriptor{Name: "system"},
		TypeDescriptor{Name: "database", ParentType: "system"},
		TypeDescriptor{Name: "schema", ParentType: "database"},
		TypeDescriptor{
			Name:       "table",
			ParentType: "schema",
			Relations: []RelationDescriptor{
				{Name: "upstream", TargetType: "table"},
			},
		},
		TypeDescriptor{
			Name:       "column",
			ParentType: "table",
			Relations: []RelationDescriptor{
				{Name: "source_columns", TargetType: "column"},
			},
		},
		TypeDescriptor{
			Name:       "view",
			ParentType: "schema",
			Relations: []RelationDescriptor{
				{Name: "base_tables", TargetType: "table"},
			},
		},
		TypeDescriptor{
			Name:       "report",
			ParentType: "system",
			Relations: []RelationDescriptor{
				{Name: "tables", TargetType: "table"},
				{Name: "views", TargetType: "view"},
			},
		},
	)
}
