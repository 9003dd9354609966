package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/nusarupa/nusarupa/internal/config"
	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/tablestore"
	"github.com/nusarupa/nusarupa/internal/tablestore/pg"
)

func newSeedCmd(configPath *string) *cobra.Command {
	var (
		adminEmail    string
		adminPassword string
		withSamples   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea el usuario admin inicial y, opcionalmente, contenido de ejemplo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if adminEmail == "" || adminPassword == "" {
				return fmt.Errorf("seed: --admin-email y --admin-password son obligatorios")
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Storage.DSN) == "" {
				return fmt.Errorf("seed: storage.dsn vacío (o env DATABASE_URL)")
			}

			ctx := cmd.Context()
			store, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{})
			if err != nil {
				return err
			}
			defer store.Close()

			userID, err := seedAdmin(ctx, store, adminEmail, adminPassword)
			if err != nil {
				return err
			}
			fmt.Printf("admin listo: %s (%s)\n", adminEmail, userID)

			if withSamples {
				if err := seedSamples(ctx, store); err != nil {
					return err
				}
				fmt.Println("contenido de ejemplo creado")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "Email del admin inicial")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password del admin inicial")
	cmd.Flags().BoolVar(&withSamples, "samples", false, "Insertar obras, actividades y donaciones de ejemplo")
	return cmd
}

// seedAdmin crea (o reutiliza) el usuario y le asegura el grant admin.
func seedAdmin(ctx context.Context, store tablestore.Store, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var userID string
	rec, err := store.SelectOne(ctx, domain.CollectionUsers, tablestore.Eq("email", email))
	switch {
	case err == nil:
		userID, _ = rec["id"].(string)
	case errors.Is(err, tablestore.ErrNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		meta, _ := json.Marshal(map[string]any{"display_name": "Admin"})
		created, err := store.Insert(ctx, domain.CollectionUsers, tablestore.Record{
			"email":         email,
			"password_hash": string(hash),
			"display_name":  "Admin",
			"metadata":      string(meta),
		})
		if err != nil {
			return "", err
		}
		userID, _ = created["id"].(string)
	default:
		return "", err
	}

	// Grant idempotente: si ya existe, seguimos.
	_, err = store.SelectOne(ctx, domain.CollectionUserRoles,
		tablestore.Eq("user_id", userID),
		tablestore.Eq("role", domain.RoleAdmin),
	)
	if errors.Is(err, tablestore.ErrNotFound) {
		if _, err := store.Insert(ctx, domain.CollectionUserRoles, tablestore.Record{
			"user_id": userID,
			"role":    domain.RoleAdmin,
		}); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}
	return userID, nil
}

func seedSamples(ctx context.Context, store tablestore.Store) error {
	artworks := []tablestore.Record{
		{
			"title":       "Senja di Borobudur",
			"author":      "Rina Kusuma",
			"description": "Lukisan cat minyak pemandangan stupa saat matahari terbenam.",
			"category":    "lukisan",
		},
		{
			"title":       "Batik Mega Mendung",
			"author":      "Studio Pesisir",
			"description": "Kain batik tulis motif awan khas Cirebon.",
			"category":    "kerajinan",
		},
	}
	for _, a := range artworks {
		if _, err := store.Insert(ctx, domain.CollectionArtworks, a); err != nil {
			return err
		}
	}

	activities := []tablestore.Record{
		{
			"title":       "Kelas Melukis Bersama",
			"description": "Belajar teknik dasar cat air untuk pemula.",
			"date":        "2026-09-12",
			"time":        "09:00",
			"location":    "Balai Warga Nusarupa",
		},
	}
	for _, a := range activities {
		if _, err := store.Insert(ctx, domain.CollectionActivities, a); err != nil {
			return err
		}
	}

	donations := []tablestore.Record{
		{
			"title":         "Renovasi Sanggar Seni",
			"description":   "Dana untuk perbaikan atap dan ruang latihan sanggar.",
			"target_amount": int64(50_000_000),
			"is_active":     true,
		},
	}
	for _, d := range donations {
		if _, err := store.Insert(ctx, domain.CollectionDonations, d); err != nil {
			return err
		}
	}
	return nil
}
