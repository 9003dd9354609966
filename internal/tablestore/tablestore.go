// Package tablestore define el contrato del table store remoto: CRUD genérico
// + filtros/orden/count sobre colecciones con nombre.
//
// Backends:
//   - pg (producción, pgx/pgxpool)
//   - memory (desarrollo/testing)
package tablestore

import (
	"context"
	"errors"
)

// Record es la forma cruda de un registro tal como cruza la frontera del
// store. La validación por colección vive en el paquete domain.
type Record = map[string]any

// Op es el operador de una condición de filtro.
type Op string

const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
)

// Cond es una condición de filtro campo/operador/valor.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Eq construye una condición de igualdad exacta (case-sensitive).
func Eq(field string, value any) Cond {
	return Cond{Field: field, Op: OpEq, Value: value}
}

// Gte construye una condición "mayor o igual".
func Gte(field string, value any) Cond {
	return Cond{Field: field, Op: OpGte, Value: value}
}

// Search es un filtro de substring case-insensitive aplicado como OR sobre
// varios campos (title/author/description en la práctica).
type Search struct {
	Fields []string
	Term   string
}

// Order define el orden de un Select.
type Order struct {
	Field     string
	Ascending bool
}

// Query agrupa condiciones, búsqueda, orden y límite de un Select.
type Query struct {
	Conds  []Cond
	Search *Search
	Order  Order
	Limit  int
}

// Store es el contrato consumido por hooks, readers y providers.
// Toda operación puede fallar con un error de transporte; SelectOne
// distingue ErrNotFound para que el caller pueda renderizar "no existe".
type Store interface {
	Ping(ctx context.Context) error

	Select(ctx context.Context, collection string, q Query) ([]Record, error)
	SelectOne(ctx context.Context, collection string, conds ...Cond) (Record, error)
	Count(ctx context.Context, collection string, conds ...Cond) (int64, error)

	// Insert asigna id/created_at/updated_at y devuelve el registro completo.
	Insert(ctx context.Context, collection string, values Record) (Record, error)
	// Update aplica un patch parcial y devuelve el registro resultante.
	Update(ctx context.Context, collection string, id string, patch Record) (Record, error)
	Delete(ctx context.Context, collection string, id string) error

	Close()
}

// Errores sentinel de la frontera del store.
var (
	ErrNotFound = errors.New("tablestore: not found")
	ErrConflict = errors.New("tablestore: conflict")
	ErrInvalid  = errors.New("tablestore: invalid")
)

// IsNotFound reporta si err representa "cero filas", no un error de transporte.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
