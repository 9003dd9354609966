// Package memory implementa tablestore.Store en memoria.
// Útil para desarrollo y testing; replica la semántica del backend pg
// (ids asignados, timestamps, ErrNotFound en cero filas).
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nusarupa/nusarupa/internal/tablestore"
)

type Store struct {
	mu   sync.RWMutex
	data map[string][]tablestore.Record // collection → filas en orden de inserción
	now  func() time.Time
}

func New() *Store {
	return &Store{
		data: make(map[string][]tablestore.Record),
		now:  time.Now,
	}
}

// SetClock fija el reloj (tests).
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close()                         {}

func clone(rec tablestore.Record) tablestore.Record {
	out := make(tablestore.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func (s *Store) Select(ctx context.Context, collection string, q tablestore.Query) ([]tablestore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []tablestore.Record
	for _, rec := range s.data[collection] {
		ok, err := matches(rec, q.Conds)
		if err != nil {
			return nil, err
		}
		if ok && matchesSearch(rec, q.Search) {
			out = append(out, clone(rec))
		}
	}
	if q.Order.Field != "" {
		sortRecords(out, q.Order)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) SelectOne(ctx context.Context, collection string, conds ...tablestore.Cond) (tablestore.Record, error) {
	rows, err := s.Select(ctx, collection, tablestore.Query{Conds: conds, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, tablestore.ErrNotFound
	}
	return rows[0], nil
}

func (s *Store) Count(ctx context.Context, collection string, conds ...tablestore.Cond) (int64, error) {
	rows, err := s.Select(ctx, collection, tablestore.Query{Conds: conds})
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (s *Store) Insert(ctx context.Context, collection string, values tablestore.Record) (tablestore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := clone(values)
	if _, ok := rec["id"]; !ok {
		rec["id"] = uuid.NewString()
	}
	now := s.now()
	if _, ok := rec["created_at"]; !ok {
		rec["created_at"] = now
	}
	if _, ok := rec["updated_at"]; !ok {
		rec["updated_at"] = now
	}
	s.data[collection] = append(s.data[collection], rec)
	return clone(rec), nil
}

func (s *Store) Update(ctx context.Context, collection string, id string, patch tablestore.Record) (tablestore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.data[collection] {
		if rec["id"] == id {
			updated := clone(rec)
			for k, v := range patch {
				if k == "id" {
					return nil, fmt.Errorf("%w: id no es actualizable", tablestore.ErrInvalid)
				}
				updated[k] = v
			}
			updated["updated_at"] = s.now()
			s.data[collection][i] = updated
			return clone(updated), nil
		}
	}
	return nil, tablestore.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, collection string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.data[collection]
	for i, rec := range rows {
		if rec["id"] == id {
			s.data[collection] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return tablestore.ErrNotFound
}

// ---------- matching ----------

func matches(rec tablestore.Record, conds []tablestore.Cond) (bool, error) {
	for _, c := range conds {
		v, ok := rec[c.Field]
		if !ok {
			return false, nil
		}
		switch c.Op {
		case tablestore.OpEq:
			if !equal(v, c.Value) {
				return false, nil
			}
		case tablestore.OpGte:
			cmp, err := compare(v, c.Value)
			if err != nil {
				return false, err
			}
			if cmp < 0 {
				return false, nil
			}
		default:
			return false, fmt.Errorf("%w: operador desconocido %q", tablestore.ErrInvalid, c.Op)
		}
	}
	return true, nil
}

func matchesSearch(rec tablestore.Record, search *tablestore.Search) bool {
	if search == nil || search.Term == "" {
		return true
	}
	term := strings.ToLower(search.Term)
	for _, f := range search.Fields {
		if s, ok := rec[f].(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func equal(a, b any) bool {
	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			return ai == bi
		}
	}
	return a == b
}

func compare(a, b any) (int, error) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("%w: comparación string vs %T", tablestore.ErrInvalid, b)
		}
		return strings.Compare(av, bv), nil
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, fmt.Errorf("%w: comparación time vs %T", tablestore.ErrInvalid, b)
		}
		return av.Compare(bv), nil
	default:
		ai, aok := asInt(a)
		bi, bok := asInt(b)
		if aok && bok {
			switch {
			case ai < bi:
				return -1, nil
			case ai > bi:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: tipo no comparable %T", tablestore.ErrInvalid, a)
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func sortRecords(recs []tablestore.Record, order tablestore.Order) {
	sort.SliceStable(recs, func(i, j int) bool {
		cmp, err := compare(recs[i][order.Field], recs[j][order.Field])
		if err != nil {
			return false
		}
		if order.Ascending {
			return cmp < 0
		}
		return cmp > 0
	})
}

var _ tablestore.Store = (*Store)(nil)
