package main

import (
	"github.com/dkeye/Vibesync/internal/storage/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		log.Info().Str("module", "main").Str("db", cfg.DatabasePath).Msg("migrations applied")
		return store.Close()
	},
}
