package docstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/dusk-indust/docgraph/internal/objectid"
)

// Collection is a named set of documents inside a database. Documents are
// kept in identifier order.
type Collection struct {
	db     *Database
	name   string
	prefix string
	meta   string
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

func (c *Collection) backend() Backend { return c.db.client.backend }

func (c *Collection) key(id objectid.ID) string { return c.prefix + id.Hex() }

func (c *Collection) fail(kind Kind, args any, err error) error {
	ectx := c.db.client.errContext()
	ectx.Database = c.db.name
	ectx.Collection = c.name
	ectx.Args = args
	return &Error{Kind: kind, Context: ectx, Err: err}
}

func (c *Collection) checkOpen() error {
	if c.db.client.isClosed() {
		return ErrClosed
	}
	return nil
}

// EnsureIndex declares a secondary index on field. Declarations are
// recorded with the collection and are idempotent; they do not change how
// queries execute.
func (c *Collection) EnsureIndex(ctx context.Context, field string) (err error) {
	defer observe(c.name, "ensure_index", time.Now(), &err)
	if err := c.checkOpen(); err != nil {
		return c.fail(KindUpdate, field, err)
	}
	if err := checkPath(field); err != nil {
		return c.fail(KindUpdate, field, err)
	}
	fields, err := c.Indexes(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(fields, field) {
		return nil
	}
	fields = append(fields, field)
	raw, err := json.Marshal(fields)
	if err != nil {
		return c.fail(KindUpdate, field, err)
	}
	if err := c.backend().Put(ctx, c.meta, raw, true); err != nil {
		return c.fail(KindUpdate, field, err)
	}
	return nil
}

// Indexes lists declared index fields in declaration order.
func (c *Collection) Indexes(ctx context.Context) ([]string, error) {
	if err := c.checkOpen(); err != nil {
		return nil, c.fail(KindFind, nil, err)
	}
	raw, found, err := c.backend().Get(ctx, c.meta)
	if err != nil {
		return nil, c.fail(KindFind, nil, err)
	}
	if !found {
		return nil, nil
	}
	var fields []string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, c.fail(KindFind, nil, err)
	}
	return fields, nil
}

// Insert stores new documents and returns their identifiers in input
// order. Documents are written one at a time; a failure leaves earlier
// documents in place.
func (c *Collection) Insert(ctx context.Context, req InsertRequest) (ids []objectid.ID, err error) {
	defer observe(c.name, "insert", time.Now(), &err)
	if err := c.checkOpen(); err != nil {
		return nil, c.fail(KindInsert, req, err)
	}
	if err := validateRequest(req); err != nil {
		return nil, c.fail(KindInsert, req, err)
	}

	ids = make([]objectid.ID, 0, len(req.Documents))
	for _, in := range req.Documents {
		if in == nil {
			return ids, c.fail(KindInsert, req, fmt.Errorf("%w: nil document", ErrInvalidDocument))
		}
		doc := in.Clone()
		id, err := assignID(doc)
		if err != nil {
			return ids, c.fail(KindInsert, req, err)
		}
		if err := checkFields(withoutID(doc)); err != nil {
			return ids, c.fail(KindInsert, req, err)
		}
		key := c.key(id)
		_, exists, err := c.backend().Get(ctx, key)
		if err != nil {
			return ids, c.fail(KindInsert, req, err)
		}
		if exists {
			return ids, c.fail(KindInsert, req, fmt.Errorf("%w: %s", ErrDuplicateKey, id))
		}
		raw, err := encodeDocument(doc)
		if err != nil {
			return ids, c.fail(KindInsert, req, err)
		}
		if err := c.backend().Put(ctx, key, raw, req.Durable); err != nil {
			return ids, c.fail(KindInsert, req, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func assignID(doc Document) (objectid.ID, error) {
	v, ok := doc[IDField]
	if !ok {
		id := objectid.New()
		doc[IDField] = id
		return id, nil
	}
	id, ok := v.(objectid.ID)
	if !ok || id.IsZero() {
		return objectid.Nil, fmt.Errorf("%w: %s must be a non-zero objectid.ID, got %T", ErrInvalidDocument, IDField, v)
	}
	return id, nil
}

func withoutID(doc Document) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k != IDField {
			out[k] = v
		}
	}
	return out
}

// scan visits matching documents after the given key in key order.
func (c *Collection) scan(ctx context.Context, f Filter, after string, fn func(key string, doc Document) (bool, error)) error {
	if !f.ID.IsZero() {
		key := c.key(f.ID)
		if after != "" && key <= after {
			return nil
		}
		raw, found, err := c.backend().Get(ctx, key)
		if err != nil || !found {
			return err
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return err
		}
		if !f.matches(doc) {
			return nil
		}
		_, err = fn(key, doc)
		return err
	}
	return c.backend().Scan(ctx, c.prefix, after, func(key string, raw []byte) (bool, error) {
		doc, err := decodeDocument(raw)
		if err != nil {
			return false, fmt.Errorf("%s: %w", key, err)
		}
		if !f.matches(doc) {
			return true, nil
		}
		return fn(key, doc)
	})
}

// Find returns a cursor over matching documents.
func (c *Collection) Find(ctx context.Context, req FindRequest) (cur *Cursor, err error) {
	defer observe(c.name, "find", time.Now(), &err)
	if err := c.checkOpen(); err != nil {
		return nil, c.fail(KindFind, req, err)
	}
	if err := validateRequest(req); err != nil {
		return nil, c.fail(KindFind, req, err)
	}
	f, err := req.Filter.compile()
	if err != nil {
		return nil, c.fail(KindFind, req, err)
	}
	for _, p := range req.Fields {
		if err := checkPath(p); err != nil {
			return nil, c.fail(KindFind, req, err)
		}
	}
	req.Filter = f

	cur = &Cursor{coll: c, req: req}
	if req.Eager {
		if err := cur.fill(ctx, 0); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// FindOne returns the first matching document, or nil when none matches.
func (c *Collection) FindOne(ctx context.Context, req FindOneRequest) (doc Document, err error) {
	defer observe(c.name, "find_one", time.Now(), &err)
	if err := c.checkOpen(); err != nil {
		return nil, c.fail(KindFind, req, err)
	}
	if err := validateRequest(req); err != nil {
		return nil, c.fail(KindFind, req, err)
	}
	f, err := req.Filter.compile()
	if err != nil {
		return nil, c.fail(KindFind, req, err)
	}
	for _, p := range req.Fields {
		if err := checkPath(p); err != nil {
			return nil, c.fail(KindFind, req, err)
		}
	}
	err = c.scan(ctx, f, "", func(_ string, d Document) (bool, error) {
		doc = project(d, req.Fields)
		return false, nil
	})
	if err != nil {
		return nil, c.fail(KindFind, req, err)
	}
	return doc, nil
}

// Update applies req.Update to the first match, or every match with
// Multi. With Upsert and no match, a new document is created.
func (c *Collection) Update(ctx context.Context, req UpdateRequest) (res UpdateResult, err error) {
	defer observe(c.name, "update", time.Now(), &err)
	if err := c.checkOpen(); err != nil {
		return res, c.fail(KindUpdate, req, err)
	}
	if err := validateRequest(req); err != nil {
		return res, c.fail(KindUpdate, req, err)
	}
	f, err := req.Filter.compile()
	if err != nil {
		return res, c.fail(KindUpdate, req, err)
	}
	upd, err := req.Update.compile()
	if err != nil {
		return res, c.fail(KindUpdate, req, err)
	}

	// Collect first: backends forbid writes from inside a scan.
	type match struct {
		key string
		doc Document
	}
	var matches []match
	err = c.scan(ctx, f, "", func(key string, doc Document) (bool, error) {
		matches = append(matches, match{key: key, doc: doc})
		return req.Multi, nil
	})
	if err != nil {
		return res, c.fail(KindUpdate, req, err)
	}

	for _, m := range matches {
		res.Matched++
		before := m.doc.Clone()
		if err := upd.apply(m.doc); err != nil {
			return res, c.fail(KindUpdate, req, err)
		}
		if equalValues(map[string]any(before), map[string]any(m.doc)) {
			continue
		}
		raw, err := encodeDocument(m.doc)
		if err != nil {
			return res, c.fail(KindUpdate, req, err)
		}
		if err := c.backend().Put(ctx, m.key, raw, req.Durable); err != nil {
			return res, c.fail(KindUpdate, req, err)
		}
		res.Modified++
	}

	if res.Matched > 0 || !req.Upsert {
		return res, nil
	}

	id := f.ID
	if id.IsZero() {
		id = objectid.New()
	}
	doc := Document{IDField: id}
	for p, v := range f.Equals {
		if err := setPath(doc, p, cloneValue(v)); err != nil {
			return res, c.fail(KindUpdate, req, err)
		}
	}
	if err := upd.apply(doc); err != nil {
		return res, c.fail(KindUpdate, req, err)
	}
	raw, err := encodeDocument(doc)
	if err != nil {
		return res, c.fail(KindUpdate, req, err)
	}
	if err := c.backend().Put(ctx, c.key(id), raw, req.Durable); err != nil {
		return res, c.fail(KindUpdate, req, err)
	}
	res.UpsertedID = id
	return res, nil
}

// Remove deletes every matching document and returns how many were
// removed.
func (c *Collection) Remove(ctx context.Context, req RemoveRequest) (n int, err error) {
	defer observe(c.name, "remove", time.Now(), &err)
	if err := c.checkOpen(); err != nil {
		return 0, c.fail(KindRemove, req, err)
	}
	if err := validateRequest(req); err != nil {
		return 0, c.fail(KindRemove, req, err)
	}
	f, err := req.Filter.compile()
	if err != nil {
		return 0, c.fail(KindRemove, req, err)
	}

	var keys []string
	err = c.scan(ctx, f, "", func(key string, _ Document) (bool, error) {
		keys = append(keys, key)
		return true, nil
	})
	if err != nil {
		return 0, c.fail(KindRemove, req, err)
	}
	for _, k := range keys {
		if err := c.backend().Delete(ctx, k, req.Durable); err != nil {
			return n, c.fail(KindRemove, req, err)
		}
		n++
	}
	return n, nil
}

// Count returns the number of matching documents.
func (c *Collection) Count(ctx context.Context, f Filter) (int, error) {
	cur, err := c.Find(ctx, FindRequest{Filter: f, Fields: []string{IDField}})
	if err != nil {
		return 0, err
	}
	n := 0
	for cur.Next(ctx) {
		n++
	}
	return n, cur.Err()
}
