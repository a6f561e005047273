// Package arrivals keeps the arrivals table in correspondence with the latest
// fetched list. Rows are keyed by (stop, line, destination) and survive
// refreshes for as long as their key keeps appearing upstream.
package arrivals

import (
	"time"

	"github.com/tinytelemetry/signboard/internal/format"
	"github.com/tinytelemetry/signboard/internal/model"
)

// Key is the composite identity of a row.
type Key struct {
	Stop        string
	Line        string
	Destination string
}

// KeyOf builds the identity key for an arrival.
func KeyOf(item model.ArrivalItem) Key {
	return Key{Stop: item.Stop, Line: item.Line, Destination: item.Destination}
}

func (k Key) String() string {
	return k.Stop + "-" + k.Line + "-" + k.Destination
}

// Row is one rendered arrivals row. Timing fields are rewritten by
// Reconcile; Tick only reads them.
type Row struct {
	ID          uint64
	Key         Key
	Stop        string
	Line        string
	Destination string

	ETABase   int
	FetchedAt time.Time

	Label    string
	BumpedAt time.Time // last label change, drives the pulse highlight
}

// Changes counts what one Reconcile pass did.
type Changes struct {
	Created int
	Updated int
	Removed int
}

// Table is an insertion-ordered map from Key to Row.
type Table struct {
	order  []Key
	rows   map[Key]*Row
	nextID uint64
	now    func() time.Time
}

// NewTable returns an empty table. A nil clock uses time.Now.
func NewTable(now func() time.Time) *Table {
	if now == nil {
		now = time.Now
	}
	return &Table{
		rows: make(map[Key]*Row),
		now:  now,
	}
}

// Reconcile applies the incoming list: unknown keys append new rows, known
// keys are updated in place and have their countdown reset, and rows whose
// key is absent from items are removed. Existing rows are never reordered.
func (t *Table) Reconcile(items []model.ArrivalItem) Changes {
	var ch Changes
	now := t.now()
	seen := make(map[Key]struct{}, len(items))

	for _, item := range items {
		key := KeyOf(item)
		row, ok := t.rows[key]
		if !ok {
			t.nextID++
			row = &Row{ID: t.nextID, Key: key}
			t.rows[key] = row
			t.order = append(t.order, key)
			ch.Created++
		} else if _, dup := seen[key]; !dup {
			ch.Updated++
		}

		row.Stop = item.Stop
		row.Line = item.Line
		row.Destination = item.Destination
		row.ETABase = item.ETASeconds
		row.FetchedAt = now
		t.render(row, now)

		seen[key] = struct{}{}
	}

	if len(seen) == len(t.order) {
		return ch
	}

	kept := t.order[:0]
	for _, key := range t.order {
		if _, ok := seen[key]; ok {
			kept = append(kept, key)
			continue
		}
		delete(t.rows, key)
		ch.Removed++
	}
	clear(t.order[len(kept):])
	t.order = kept
	return ch
}

// Tick recomputes every row's label against the current time and returns how
// many labels changed.
func (t *Table) Tick() int {
	now := t.now()
	changed := 0
	for _, key := range t.order {
		if t.render(t.rows[key], now) {
			changed++
		}
	}
	return changed
}

// render updates the row label and marks a pulse when it changed.
func (t *Table) render(row *Row, now time.Time) bool {
	label := format.Countdown(row.ETABase, row.FetchedAt, now)
	if label == row.Label {
		return false
	}
	row.Label = label
	row.BumpedAt = now
	return true
}

// Rows returns the rows in display order. The pointers stay owned by the table.
func (t *Table) Rows() []*Row {
	out := make([]*Row, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.rows[key])
	}
	return out
}

// Get looks up a row by key.
func (t *Table) Get(key Key) (*Row, bool) {
	row, ok := t.rows[key]
	return row, ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.order)
}

// Pulsing reports whether the row's label changed within window of now.
func (r *Row) Pulsing(now time.Time, window time.Duration) bool {
	return !r.BumpedAt.IsZero() && now.Sub(r.BumpedAt) < window
}
