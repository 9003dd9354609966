package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/nusarupa/nusarupa/internal/config"
	migrations "github.com/nusarupa/nusarupa/migrations/postgres"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down] [steps]",
		Short: "Aplica las migraciones de Postgres embebidas",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			steps := 0
			if len(args) >= 1 && args[0] != "" {
				action = strings.ToLower(args[0])
			}
			if len(args) >= 2 {
				if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
					steps = n
				}
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Storage.DSN) == "" {
				return fmt.Errorf("migrate: storage.dsn vacío (o env DATABASE_URL)")
			}

			return runMigrations(cmd.Context(), cfg, action, steps)
		},
	}
}

// runMigrations aplica los *_up.sql (o *_down.sql en orden inverso) embebidos.
func runMigrations(ctx context.Context, cfg *config.Config, action string, steps int) error {
	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("migrate: pgxpool: %w", err)
	}
	defer pool.Close()

	switch action {
	case "up":
		files, err := listSQL("_up.sql")
		if err != nil {
			return err
		}
		sort.Strings(files)
		if steps > 0 && steps < len(files) {
			files = files[:steps]
		}
		for _, f := range files {
			if err := execSQLFile(ctx, pool, f); err != nil {
				return fmt.Errorf("migrate: %s: %w", f, err)
			}
		}
		fmt.Printf("applied %d up migration(s)\n", len(files))
		return nil

	case "down":
		files, err := listSQL("_down.sql")
		if err != nil {
			return err
		}
		// Los down se aplican en orden descendente.
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
		if steps > 0 && steps < len(files) {
			files = files[:steps]
		}
		for _, f := range files {
			if err := execSQLFile(ctx, pool, f); err != nil {
				return fmt.Errorf("migrate: %s: %w", f, err)
			}
		}
		fmt.Printf("applied %d down migration(s)\n", len(files))
		return nil

	default:
		return fmt.Errorf("migrate: acción desconocida %q (up|down)", action)
	}
}

func listSQL(suffix string) ([]string, error) {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func execSQLFile(ctx context.Context, pool *pgxpool.Pool, name string) error {
	b, err := migrations.FS.ReadFile(name)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, string(b))
	return err
}
