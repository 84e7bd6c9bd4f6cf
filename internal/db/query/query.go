// Package query builds the listing queries shared by the public pages and
// the back-office.
//
// Every resource kind enumerates the (table, field) pairs it can be sorted
// or filtered on. A pair maps to a fixed SQL expression, so request input
// only ever selects among those expressions or becomes a bound argument.
package query

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mediatekformation/mediatekformation/internal/metrics"
)

// Scope is a gorm scope.
type Scope = func(*gorm.DB) *gorm.DB

// Key identifies an allowed pair. Table is empty for the kind's own columns.
type Key struct {
	Table string
	Field string
}

type order struct {
	expr      string
	join      string
	nullsLast bool
}

type term struct {
	order
	dir Direction
}

type match int

const (
	contains match = iota
	equals
)

type filter struct {
	cond  string // one placeholder
	match match
}

// Kind describes the listings of one resource.
type Kind struct {
	name         string
	table        string
	selectExpr   string
	defaultOrder []term
	searchOrder  []term
	orders       map[Key]order
	filters      map[Key]filter
}

// Name of the kind, used as metric label.
func (k *Kind) Name() string { return k.name }

// CanSort reports whether the kind can be ordered by (table, field).
func (k *Kind) CanSort(table, field string) bool {
	_, ok := k.orders[Key{table, field}]
	return ok
}

// CanFilter reports whether the kind can be filtered on (table, field).
func (k *Kind) CanFilter(table, field string) bool {
	_, ok := k.filters[Key{table, field}]
	return ok
}

// All lists every record in the kind's default order.
func (k *Kind) All() Scope {
	return func(tx *gorm.DB) *gorm.DB {
		return k.sorted(k.base(tx), k.defaultOrder...)
	}
}

// OrderedBy lists every record ordered by the allowed field in dir.
func (k *Kind) OrderedBy(field string, dir Direction, table string) (Scope, error) {
	t, err := k.term(field, dir, table)
	if err != nil {
		return nil, err
	}

	return func(tx *gorm.DB) *gorm.DB {
		return k.sorted(k.base(tx), t)
	}, nil
}

// Containing lists the records whose field matches value, in the kind's
// search order. An empty value filters nothing.
func (k *Kind) Containing(field, value, table string) (Scope, error) {
	if value == "" {
		return k.All(), nil
	}

	cond, arg, err := k.condition(field, value, table)
	if err != nil {
		return nil, err
	}

	return func(tx *gorm.DB) *gorm.DB {
		return k.sorted(k.base(tx).Where(cond, arg), k.searchOrder...)
	}, nil
}

// ContainingOrderedBy filters like Containing and orders the result by the
// kind's own sort field instead of its search order.
func (k *Kind) ContainingOrderedBy(field, value, table, sort string, dir Direction) (Scope, error) {
	if value == "" {
		return k.OrderedBy(sort, dir, "")
	}

	t, err := k.term(sort, dir, "")
	if err != nil {
		return nil, err
	}

	cond, arg, err := k.condition(field, value, table)
	if err != nil {
		return nil, err
	}

	return func(tx *gorm.DB) *gorm.DB {
		return k.sorted(k.base(tx).Where(cond, arg), t)
	}, nil
}

// Scope picks the listing matching p.
func (k *Kind) Scope(p Params) (Scope, error) {
	switch p.Mode {
	case ModeSearch:
		if p.Sort != "" {
			return k.ContainingOrderedBy(p.Field, p.Value, p.Table, p.Sort, p.Direction)
		}

		return k.Containing(p.Field, p.Value, p.Table)
	case ModeSort:
		return k.OrderedBy(p.Field, p.Direction, p.Table)
	default:
		return k.All(), nil
	}
}

// List runs the listing selected by p. Extra scopes, typically preloads,
// are applied after the listing scope.
func List[T any](ctx context.Context, db *gorm.DB, k *Kind, p Params, extra ...Scope) ([]T, error) {
	scope, err := k.Scope(p)
	if err != nil {
		metrics.RejectedListQueries.WithLabelValues(k.name).Inc()
		return nil, err
	}

	metrics.ListQueries.WithLabelValues(k.name, p.Mode.String()).Inc()

	return Find[T](ctx, db, append([]Scope{scope}, extra...)...)
}

// Find runs scopes into a slice of T.
func Find[T any](ctx context.Context, db *gorm.DB, scopes ...Scope) ([]T, error) {
	var out []T

	if err := db.WithContext(ctx).Scopes(scopes...).Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "listing query failed")
	}

	return out, nil
}

func (k *Kind) base(tx *gorm.DB) *gorm.DB {
	return tx.Table(k.table).Select(k.selectExpr)
}

func (k *Kind) term(field string, dir Direction, table string) (term, error) {
	if !dir.Valid() {
		return term{}, errors.Wrapf(ErrInvalidDirection, "%s: %q", k.name, dir)
	}

	o, ok := k.orders[Key{table, field}]
	if !ok {
		return term{}, errors.Wrapf(ErrUnknownField, "%s: sort on %q.%q", k.name, table, field)
	}

	return term{order: o, dir: dir}, nil
}

func (k *Kind) condition(field, value, table string) (string, any, error) {
	f, ok := k.filters[Key{table, field}]
	if !ok {
		return "", nil, errors.Wrapf(ErrUnknownField, "%s: filter on %q.%q", k.name, table, field)
	}

	if f.match == equals {
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return "", nil, errors.Wrapf(ErrInvalidValue, "%s: %q.%q wants an id", k.name, table, field)
		}

		return f.cond, id, nil
	}

	return f.cond, "%" + value + "%", nil
}

// sorted applies terms then the id tie-break.
func (k *Kind) sorted(tx *gorm.DB, terms ...term) *gorm.DB {
	for _, t := range terms {
		if t.join != "" {
			tx = tx.Joins(t.join)
		}

		if t.nullsLast {
			tx = tx.Order(t.expr + " IS NULL")
		}

		tx = tx.Order(t.expr + " " + string(t.dir))
	}

	return tx.Order(k.table + ".id ASC")
}
