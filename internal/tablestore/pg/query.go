package pg

import (
	"fmt"
	"strings"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// Whitelist de colecciones y columnas. Los nombres de campo vienen de código
// cliente, nunca se interpolan sin pasar por acá.
var collections = map[string]map[string]bool{
	domain.CollectionArtworks: cols(
		"id", "title", "author", "description", "image_url",
		"category", "likes", "views", "created_at", "updated_at",
	),
	domain.CollectionActivities: cols(
		"id", "title", "description", "date", "time", "location",
		"image_url", "participants", "created_at", "updated_at",
	),
	domain.CollectionDonations: cols(
		"id", "title", "description", "target_amount", "collected_amount",
		"image_url", "is_active", "created_at", "updated_at",
	),
	domain.CollectionProfiles: cols(
		"id", "user_id", "full_name", "bio", "avatar_url", "role",
		"created_at", "updated_at",
	),
	domain.CollectionUserRoles: cols(
		"id", "user_id", "role", "created_at",
	),
	domain.CollectionUsers: cols(
		"id", "email", "password_hash", "display_name", "metadata",
		"created_at", "updated_at",
	),
}

func cols(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func checkCollection(collection string) (map[string]bool, error) {
	allowed, ok := collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: colección desconocida %q", tablestore.ErrInvalid, collection)
	}
	return allowed, nil
}

func checkField(collection string, allowed map[string]bool, field string) error {
	if !allowed[field] {
		return fmt.Errorf("%w: campo desconocido %q en %q", tablestore.ErrInvalid, field, collection)
	}
	return nil
}

// quoteIdent cita un identificador ya validado ("time" y "date" son reservadas).
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// escapeLike escapa los metacaracteres de LIKE en el término de búsqueda.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// buildSelect arma el SELECT para una Query. Función pura, testeable.
func buildSelect(collection string, q tablestore.Query) (string, []any, error) {
	allowed, err := checkCollection(collection)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	var args []any
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(quoteIdent(collection))

	where, args, err := buildWhere(collection, allowed, q.Conds, q.Search, args)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(where)

	if q.Order.Field != "" {
		if err := checkField(collection, allowed, q.Order.Field); err != nil {
			return "", nil, err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(quoteIdent(q.Order.Field))
		if q.Order.Ascending {
			sb.WriteString(" ASC")
		} else {
			sb.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args, nil
}

func buildWhere(collection string, allowed map[string]bool, conds []tablestore.Cond, search *tablestore.Search, args []any) (string, []any, error) {
	var parts []string
	for _, c := range conds {
		if err := checkField(collection, allowed, c.Field); err != nil {
			return "", nil, err
		}
		var op string
		switch c.Op {
		case tablestore.OpEq:
			op = "="
		case tablestore.OpGte:
			op = ">="
		default:
			return "", nil, fmt.Errorf("%w: operador desconocido %q", tablestore.ErrInvalid, c.Op)
		}
		args = append(args, c.Value)
		parts = append(parts, fmt.Sprintf("%s %s $%d", quoteIdent(c.Field), op, len(args)))
	}

	if search != nil && search.Term != "" {
		var ors []string
		args = append(args, "%"+escapeLike(search.Term)+"%")
		n := len(args)
		for _, f := range search.Fields {
			if err := checkField(collection, allowed, f); err != nil {
				return "", nil, err
			}
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", quoteIdent(f), n))
		}
		if len(ors) > 0 {
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if len(parts) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// buildInsert arma el INSERT ... RETURNING *.
func buildInsert(collection string, values tablestore.Record) (string, []any, error) {
	allowed, err := checkCollection(collection)
	if err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("%w: insert sin campos", tablestore.ErrInvalid)
	}

	// Orden determinista de columnas para que el SQL sea estable.
	fields := sortedFields(values)
	var colNames, placeholders []string
	var args []any
	for _, f := range fields {
		if err := checkField(collection, allowed, f); err != nil {
			return "", nil, err
		}
		args = append(args, values[f])
		colNames = append(colNames, quoteIdent(f))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		quoteIdent(collection), strings.Join(colNames, ", "), strings.Join(placeholders, ", "))
	return sql, args, nil
}

// buildUpdate arma el UPDATE parcial ... RETURNING *.
func buildUpdate(collection, id string, patch tablestore.Record) (string, []any, error) {
	allowed, err := checkCollection(collection)
	if err != nil {
		return "", nil, err
	}
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("%w: update sin campos", tablestore.ErrInvalid)
	}

	fields := sortedFields(patch)
	var sets []string
	var args []any
	for _, f := range fields {
		if f == "id" {
			return "", nil, fmt.Errorf("%w: id no es actualizable", tablestore.ErrInvalid)
		}
		if err := checkField(collection, allowed, f); err != nil {
			return "", nil, err
		}
		args = append(args, patch[f])
		sets = append(sets, fmt.Sprintf("%s = $%d", quoteIdent(f), len(args)))
	}
	if allowed["updated_at"] {
		sets = append(sets, `"updated_at" = now()`)
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *",
		quoteIdent(collection), strings.Join(sets, ", "), len(args))
	return sql, args, nil
}

func sortedFields(rec tablestore.Record) []string {
	fields := make([]string, 0, len(rec))
	for f := range rec {
		fields = append(fields, f)
	}
	// insertion sort: las listas son chicas
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && fields[j] < fields[j-1]; j-- {
			fields[j], fields[j-1] = fields[j-1], fields[j]
		}
	}
	return fields
}
