package docstore

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dusk-indust/docgraph/internal/objectid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Filter selects documents. All set constraints must hold; the zero
// Filter matches every document.
type Filter struct {
	// ID restricts the match to one document when non-zero.
	ID objectid.ID
	// Exists lists dotted paths that must be present.
	Exists []string `validate:"dive,required"`
	// Equals maps dotted paths to required values.
	Equals map[string]any
}

// ByID returns a filter matching a single identifier.
func ByID(id objectid.ID) Filter {
	return Filter{ID: id}
}

// FieldExists returns a filter matching documents that carry every path.
func FieldExists(paths ...string) Filter {
	return Filter{Exists: paths}
}

// IsZero reports whether the filter has no constraints.
func (f Filter) IsZero() bool {
	return f.ID.IsZero() && len(f.Exists) == 0 && len(f.Equals) == 0
}

// compile validates paths and normalizes Equals values.
func (f Filter) compile() (Filter, error) {
	for _, p := range f.Exists {
		if err := checkPath(p); err != nil {
			return f, err
		}
	}
	if len(f.Equals) == 0 {
		return f, nil
	}
	eq := make(map[string]any, len(f.Equals))
	for p, v := range f.Equals {
		if err := checkPath(p); err != nil {
			return f, err
		}
		nv, err := normalize(v)
		if err != nil {
			return f, err
		}
		eq[p] = nv
	}
	f.Equals = eq
	return f, nil
}

func (f Filter) matches(doc Document) bool {
	if !f.ID.IsZero() && doc.ID() != f.ID {
		return false
	}
	for _, p := range f.Exists {
		if _, ok := lookup(doc, p); !ok {
			return false
		}
	}
	for p, want := range f.Equals {
		got, ok := lookup(doc, p)
		if !ok || !equalValues(got, want) {
			return false
		}
	}
	return true
}

// InsertRequest inserts one or more documents. Documents without an _id
// are assigned a fresh identifier.
type InsertRequest struct {
	Documents []Document `validate:"min=1"`
	Durable   bool
}

// FindRequest selects documents in key order.
type FindRequest struct {
	Filter Filter
	// Fields projects the result onto these dotted paths; _id is always
	// kept. Empty means the whole document.
	Fields []string `validate:"dive,required"`
	Skip   int      `validate:"gte=0"`
	// Limit caps the number of results; zero means unlimited.
	Limit int `validate:"gte=0"`
	// Eager materializes the full result before Find returns instead of
	// fetching batches as the cursor advances.
	Eager bool
}

// FindOneRequest selects the first matching document.
type FindOneRequest struct {
	Filter Filter
	Fields []string `validate:"dive,required"`
}

// Update describes field modifications with dotted paths.
type Update struct {
	Set   map[string]any
	Unset []string `validate:"dive,required"`
}

// IsZero reports whether the update modifies nothing.
func (u Update) IsZero() bool {
	return len(u.Set) == 0 && len(u.Unset) == 0
}

func (u Update) compile() (Update, error) {
	if u.IsZero() {
		return u, fmt.Errorf("%w: empty update", ErrInvalidUpdate)
	}
	set := make(map[string]any, len(u.Set))
	for p, v := range u.Set {
		if err := checkPath(p); err != nil {
			return u, err
		}
		if p == IDField || strings.HasPrefix(p, IDField+".") {
			return u, fmt.Errorf("%w: %s is immutable", ErrInvalidUpdate, IDField)
		}
		if err := checkFields(v); err != nil {
			return u, err
		}
		nv, err := normalize(v)
		if err != nil {
			return u, err
		}
		set[p] = nv
	}
	for _, p := range u.Unset {
		if err := checkPath(p); err != nil {
			return u, err
		}
		if p == IDField {
			return u, fmt.Errorf("%w: %s is immutable", ErrInvalidUpdate, IDField)
		}
	}
	u.Set = set
	return u, nil
}

// apply mutates doc in place.
func (u Update) apply(doc Document) error {
	for p, v := range u.Set {
		if err := setPath(doc, p, cloneValue(v)); err != nil {
			return err
		}
	}
	for _, p := range u.Unset {
		unsetPath(doc, p)
	}
	return nil
}

// UpdateRequest modifies matching documents.
type UpdateRequest struct {
	Filter Filter
	Update Update
	// Upsert creates a document when nothing matches. The new document
	// takes the filter's ID (or a fresh one) and its Equals fields.
	Upsert bool
	// Multi updates every match instead of only the first.
	Multi   bool
	Durable bool
}

// UpdateResult reports what an update touched.
type UpdateResult struct {
	Matched    int
	Modified   int
	UpsertedID objectid.ID
}

// RemoveRequest deletes every matching document.
type RemoveRequest struct {
	Filter  Filter
	Durable bool
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
