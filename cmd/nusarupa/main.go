package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env es opcional: en prod todo viene del entorno real.
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:   "nusarupa",
		Short: "Plataforma comunitaria Nusarupa: galería, actividades y donaciones",
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("NUSARUPA_CONFIG"), "Ruta al YAML de configuración (opcional)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newSeedCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
