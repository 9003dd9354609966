package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// Reader es la variante de solo lectura para browsing público. No notifica:
// los fallos vuelven envueltos en el mensaje del recurso y la pantalla
// decide cómo mostrarlos.
type Reader[T any] struct {
	store tablestore.Store
	col   Collection[T]

	// baseConds se aplican a todo Select (ej. is_active=true en el reader
	// público de donaciones).
	baseConds []tablestore.Cond
}

// NewReader crea un reader sin condiciones base.
func NewReader[T any](store tablestore.Store, col Collection[T]) *Reader[T] {
	return &Reader[T]{store: store, col: col}
}

// FetchAll devuelve la colección completa con el orden del recurso.
func (r *Reader[T]) FetchAll(ctx context.Context) ([]T, error) {
	recs, err := r.store.Select(ctx, r.col.Name, tablestore.Query{
		Conds: r.baseConds,
		Order: r.col.Order,
	})
	if err != nil {
		return nil, r.wrap(err, r.col.Messages.LoadFailed)
	}
	items, err := decodeAll(r.col, recs)
	if err != nil {
		return nil, r.wrap(err, r.col.Messages.LoadFailed)
	}
	return items, nil
}

// GetByID busca un registro puntual. Un miss es una condición "not found"
// (errors.Is(err, tablestore.ErrNotFound)), distinta de un error de
// transporte, para que el caller pueda renderizar "no existe".
func (r *Reader[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	rec, err := r.store.SelectOne(ctx, r.col.Name, tablestore.Eq("id", id))
	if err != nil {
		if tablestore.IsNotFound(err) {
			return zero, fmt.Errorf("%s: %w", r.col.Messages.NotFound, err)
		}
		return zero, r.wrap(err, r.col.Messages.LoadFailed)
	}
	item, err := r.col.Decode(rec)
	if err != nil {
		return zero, r.wrap(err, r.col.Messages.LoadFailed)
	}
	return item, nil
}

// GetByCategory filtra por igualdad exacta de categoría. El sentinel
// "semua"/"all" desactiva el filtro y equivale al FetchAll.
func (r *Reader[T]) GetByCategory(ctx context.Context, category string) ([]T, error) {
	conds := r.baseConds
	if !isAllCategory(category) {
		if r.col.CategoryField == "" {
			return nil, fmt.Errorf("%w: %s no tiene categorías", tablestore.ErrInvalid, r.col.Name)
		}
		conds = append(append([]tablestore.Cond{}, conds...), tablestore.Eq(r.col.CategoryField, category))
	}
	recs, err := r.store.Select(ctx, r.col.Name, tablestore.Query{
		Conds: conds,
		Order: r.col.Order,
	})
	if err != nil {
		return nil, r.wrap(err, r.col.Messages.LoadFailed)
	}
	items, err := decodeAll(r.col, recs)
	if err != nil {
		return nil, r.wrap(err, r.col.Messages.LoadFailed)
	}
	return items, nil
}

// Search hace substring match case-insensitive sobre los campos de búsqueda
// del recurso, intersectado con la categoría si viene.
func (r *Reader[T]) Search(ctx context.Context, term, category string) ([]T, error) {
	conds := r.baseConds
	if !isAllCategory(category) && r.col.CategoryField != "" {
		conds = append(append([]tablestore.Cond{}, conds...), tablestore.Eq(r.col.CategoryField, category))
	}
	recs, err := r.store.Select(ctx, r.col.Name, tablestore.Query{
		Conds:  conds,
		Search: &tablestore.Search{Fields: r.col.SearchFields, Term: term},
		Order:  r.col.Order,
	})
	if err != nil {
		return nil, r.wrap(err, r.col.Messages.SearchFailed)
	}
	items, err := decodeAll(r.col, recs)
	if err != nil {
		return nil, r.wrap(err, r.col.Messages.SearchFailed)
	}
	return items, nil
}

func (r *Reader[T]) wrap(err error, msg string) error {
	return fmt.Errorf("%s: %w", msg, err)
}

func isAllCategory(category string) bool {
	return category == "" || category == domain.CategoryAll || category == domain.CategoryAllEN
}

// ---------- readers especializados ----------

// ActivityReader agrega las consultas propias de actividades.
type ActivityReader struct {
	*Reader[domain.Activity]
}

// NewActivityReader crea el reader público de actividades.
func NewActivityReader(store tablestore.Store) ActivityReader {
	return ActivityReader{NewReader(store, Activities())}
}

// Upcoming devuelve actividades con date >= hoy (inclusive), ascendente.
func (r ActivityReader) Upcoming(ctx context.Context) ([]domain.Activity, error) {
	today := time.Now().Format("2006-01-02")
	recs, err := r.store.Select(ctx, r.col.Name, tablestore.Query{
		Conds: []tablestore.Cond{tablestore.Gte("date", today)},
		Order: tablestore.Order{Field: "date", Ascending: true},
	})
	if err != nil {
		return nil, r.wrap(err, r.col.Messages.LoadFailed)
	}
	items, err := decodeAll(r.col, recs)
	if err != nil {
		return nil, r.wrap(err, r.col.Messages.LoadFailed)
	}
	return items, nil
}

// DonationReader agrega las consultas propias de donaciones.
type DonationReader struct {
	*Reader[domain.Donation]
}

// NewDonationReader crea el reader público de donaciones: solo campañas
// activas, newest-first.
func NewDonationReader(store tablestore.Store) DonationReader {
	r := NewReader(store, Donations())
	r.baseConds = []tablestore.Cond{tablestore.Eq("is_active", true)}
	return DonationReader{r}
}

// Active devuelve las campañas activas, newest-first.
func (r DonationReader) Active(ctx context.Context) ([]domain.Donation, error) {
	return r.FetchAll(ctx)
}

// NewArtworkReader crea el reader público de la galería.
func NewArtworkReader(store tablestore.Store) *Reader[domain.Artwork] {
	return NewReader(store, Artworks())
}
