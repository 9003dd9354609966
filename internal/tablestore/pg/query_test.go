package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

func TestBuildSelectPlain(t *testing.T) {
	sql, args, err := buildSelect(domain.CollectionArtworks, tablestore.Query{})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "artworks"`, sql)
	assert.Empty(t, args)
}

func TestBuildSelectFull(t *testing.T) {
	q := tablestore.Query{
		Conds: []tablestore.Cond{
			tablestore.Eq("category", "lukisan"),
			tablestore.Gte("likes", 10),
		},
		Search: &tablestore.Search{Term: "batik", Fields: []string{"title", "author"}},
		Order:  tablestore.Order{Field: "created_at", Ascending: false},
		Limit:  20,
	}
	sql, args, err := buildSelect(domain.CollectionArtworks, q)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT * FROM "artworks" WHERE "category" = $1 AND "likes" >= $2 AND ("title" ILIKE $3 OR "author" ILIKE $3) ORDER BY "created_at" DESC LIMIT $4`,
		sql)
	assert.Equal(t, []any{"lukisan", 10, "%batik%", 20}, args)
}

func TestBuildSelectEscapesLikeMeta(t *testing.T) {
	q := tablestore.Query{
		Search: &tablestore.Search{Term: "100%_ok", Fields: []string{"title"}},
	}
	_, args, err := buildSelect(domain.CollectionArtworks, q)
	require.NoError(t, err)
	assert.Equal(t, `%100\%\_ok%`, args[0])
}

func TestBuildSelectQuotesReservedColumns(t *testing.T) {
	q := tablestore.Query{
		Conds: []tablestore.Cond{tablestore.Gte("date", "2026-01-01")},
		Order: tablestore.Order{Field: "time", Ascending: true},
	}
	sql, _, err := buildSelect(domain.CollectionActivities, q)
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT * FROM "activities" WHERE "date" >= $1 ORDER BY "time" ASC`,
		sql)
}

func TestBuildSelectRejectsUnknown(t *testing.T) {
	_, _, err := buildSelect("pg_catalog", tablestore.Query{})
	assert.ErrorIs(t, err, tablestore.ErrInvalid)

	_, _, err = buildSelect(domain.CollectionArtworks, tablestore.Query{
		Conds: []tablestore.Cond{tablestore.Eq("password_hash", "x")},
	})
	assert.ErrorIs(t, err, tablestore.ErrInvalid, "columnas de otra colección no pasan")

	_, _, err = buildSelect(domain.CollectionArtworks, tablestore.Query{
		Order: tablestore.Order{Field: `title"; DROP TABLE artworks; --`},
	})
	assert.ErrorIs(t, err, tablestore.ErrInvalid)
}

func TestBuildInsert(t *testing.T) {
	sql, args, err := buildInsert(domain.CollectionArtworks, tablestore.Record{
		"title":    "Batik Parang",
		"author":   "Siti",
		"category": "batik",
	})
	require.NoError(t, err)
	// Columnas en orden alfabético, SQL estable.
	assert.Equal(t,
		`INSERT INTO "artworks" ("author", "category", "title") VALUES ($1, $2, $3) RETURNING *`,
		sql)
	assert.Equal(t, []any{"Siti", "batik", "Batik Parang"}, args)
}

func TestBuildInsertRejectsEmptyAndUnknown(t *testing.T) {
	_, _, err := buildInsert(domain.CollectionArtworks, tablestore.Record{})
	assert.ErrorIs(t, err, tablestore.ErrInvalid)

	_, _, err = buildInsert(domain.CollectionArtworks, tablestore.Record{"is_admin": true})
	assert.ErrorIs(t, err, tablestore.ErrInvalid)
}

func TestBuildUpdate(t *testing.T) {
	sql, args, err := buildUpdate(domain.CollectionDonations, "d1", tablestore.Record{
		"collected_amount": int64(500000),
		"is_active":        false,
	})
	require.NoError(t, err)
	assert.Equal(t,
		`UPDATE "donations" SET "collected_amount" = $1, "is_active" = $2, "updated_at" = now() WHERE id = $3 RETURNING *`,
		sql)
	assert.Equal(t, []any{int64(500000), false, "d1"}, args)
}

func TestBuildUpdateWithoutUpdatedAtColumn(t *testing.T) {
	sql, _, err := buildUpdate(domain.CollectionUserRoles, "r1", tablestore.Record{
		"role": domain.RoleModerator,
	})
	require.NoError(t, err)
	assert.Equal(t,
		`UPDATE "user_roles" SET "role" = $1 WHERE id = $2 RETURNING *`,
		sql)
}

func TestBuildUpdateRejectsID(t *testing.T) {
	_, _, err := buildUpdate(domain.CollectionArtworks, "a1", tablestore.Record{"id": "otro"})
	assert.ErrorIs(t, err, tablestore.ErrInvalid)

	_, _, err = buildUpdate(domain.CollectionArtworks, "a1", tablestore.Record{})
	assert.ErrorIs(t, err, tablestore.ErrInvalid)
}
