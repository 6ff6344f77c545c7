package docstore

import (
	"context"
)

// batchSize is how many documents a lazy cursor reads per backend scan.
const batchSize = 64

// Cursor iterates over the result of a Find. A cursor is single-pass and
// not safe for concurrent use.
//
//	cur, err := coll.Find(ctx, docstore.FindRequest{})
//	for cur.Next(ctx) {
//		doc := cur.Document()
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor struct {
	coll *Collection
	req  FindRequest

	buf     []Document
	cur     Document
	after   string
	skipped int
	emitted int
	done    bool
	err     error
}

// Next advances to the next document. It returns false at the end of the
// result or on error; check Err afterwards.
func (c *Cursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if c.req.Limit > 0 && c.emitted >= c.req.Limit {
		c.cur = nil
		return false
	}
	if len(c.buf) == 0 && !c.done {
		if err := ctx.Err(); err != nil {
			c.err = err
			return false
		}
		if err := c.fill(ctx, batchSize); err != nil {
			c.err = err
			return false
		}
	}
	if len(c.buf) == 0 {
		c.cur = nil
		return false
	}
	c.cur = c.buf[0]
	c.buf = c.buf[1:]
	c.emitted++
	return true
}

// Document returns the current document.
func (c *Cursor) Document() Document { return c.cur }

// Err returns the first error met while iterating.
func (c *Cursor) Err() error { return c.err }

// All drains the cursor.
func (c *Cursor) All(ctx context.Context) ([]Document, error) {
	var out []Document
	for c.Next(ctx) {
		out = append(out, c.Document())
	}
	return out, c.Err()
}

// fill reads up to n further matches into the buffer; n <= 0 reads the
// remainder of the result.
func (c *Cursor) fill(ctx context.Context, n int) error {
	want := n
	if c.req.Limit > 0 {
		remaining := c.req.Limit - c.emitted - len(c.buf)
		if remaining <= 0 {
			c.done = true
			return nil
		}
		if want <= 0 || remaining < want {
			want = remaining
		}
	}
	got := 0
	exhausted := true
	err := c.coll.scan(ctx, c.req.Filter, c.after, func(key string, doc Document) (bool, error) {
		c.after = key
		if c.skipped < c.req.Skip {
			c.skipped++
			return true, nil
		}
		c.buf = append(c.buf, project(doc, c.req.Fields))
		got++
		if want > 0 && got >= want {
			exhausted = false
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return c.coll.fail(KindFind, c.req, err)
	}
	if exhausted {
		c.done = true
	}
	return nil
}
