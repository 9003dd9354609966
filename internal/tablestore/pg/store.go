// Package pg implementa tablestore.Store sobre PostgreSQL (pgx/pgxpool).
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

type Store struct{ pool *pgxpool.Pool }

// Config es el tuning opcional del pool.
type Config struct {
	MaxOpenConns    int
	MinIdleConns    int
	ConnMaxLifetime string
}

// New crea el store con un pool pgx.
// El ping inicial es non-blocking: la app puede arrancar con la DB caída.
func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	// Mapear MinIdleConns → MinConns (pgxpool)
	if cfg.MinIdleConns > 0 {
		pcfg.MinConns = int32(cfg.MinIdleConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		logger.L().Warn("pg pool startup ping failed", logger.Err(err))
	} else {
		logger.L().Info("pg pool ready", logger.Any("max_conns", pcfg.MaxConns))
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool interno (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Select(ctx context.Context, collection string, q tablestore.Query) ([]tablestore.Record, error) {
	sql, args, err := buildSelect(collection, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tablestore.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) SelectOne(ctx context.Context, collection string, conds ...tablestore.Cond) (tablestore.Record, error) {
	sql, args, err := buildSelect(collection, tablestore.Query{Conds: conds, Limit: 1})
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, tablestore.ErrNotFound
	}
	return scanRecord(rows)
}

func (s *Store) Count(ctx context.Context, collection string, conds ...tablestore.Cond) (int64, error) {
	allowed, err := checkCollection(collection)
	if err != nil {
		return 0, err
	}
	where, args, err := buildWhere(collection, allowed, conds, nil, nil)
	if err != nil {
		return 0, err
	}
	var n int64
	sql := "SELECT COUNT(*) FROM " + quoteIdent(collection) + where
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) Insert(ctx context.Context, collection string, values tablestore.Record) (tablestore.Record, error) {
	sql, args, err := buildInsert(collection, values)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, mapPgError(err)
		}
		return nil, tablestore.ErrNotFound
	}
	return scanRecord(rows)
}

func (s *Store) Update(ctx context.Context, collection string, id string, patch tablestore.Record) (tablestore.Record, error) {
	sql, args, err := buildUpdate(collection, id, patch)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, mapPgError(err)
		}
		return nil, tablestore.ErrNotFound
	}
	return scanRecord(rows)
}

func (s *Store) Delete(ctx context.Context, collection string, id string) error {
	if _, err := checkCollection(collection); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM "+quoteIdent(collection)+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tablestore.ErrNotFound
	}
	return nil
}

// scanRecord materializa la fila actual como Record usando los field
// descriptions de pgx.
func scanRecord(rows pgx.Rows) (tablestore.Record, error) {
	values, err := rows.Values()
	if err != nil {
		return nil, err
	}
	fields := rows.FieldDescriptions()
	rec := make(tablestore.Record, len(fields))
	for i, fd := range fields {
		rec[string(fd.Name)] = normalizeValue(values[i])
	}
	return rec, nil
}

// normalizeValue reduce los tipos de pgx a los que espera domain.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case [16]byte:
		// uuid crudo: pgx lo entrega así cuando no hay codec registrado
		return uuidString(n)
	default:
		return v
	}
}

func uuidString(b [16]byte) string {
	const hexdigits = "0123456789abcdef"
	buf := make([]byte, 36)
	j := 0
	for i, c := range b {
		switch i {
		case 4, 6, 8, 10:
			buf[j] = '-'
			j++
		}
		buf[j] = hexdigits[c>>4]
		buf[j+1] = hexdigits[c&0x0f]
		j += 2
	}
	return string(buf)
}

// mapPgError traduce errores de postgres a los sentinels del contrato.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return tablestore.ErrConflict
		case "23514", "22P02": // check_violation, invalid_text_representation
			return tablestore.ErrInvalid
		}
	}
	return err
}

var _ tablestore.Store = (*Store)(nil)
