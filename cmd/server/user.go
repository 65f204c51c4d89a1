package main

import (
	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/dkeye/Vibesync/internal/storage/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage known users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <id> <username>",
	Short: "Add or rename a user so tokens without a username resolve",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := domain.NewUser(domain.UserID(args[0]), args[1])
		if err != nil {
			return err
		}
		store, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.PutUser(cmd.Context(), *user); err != nil {
			return err
		}
		log.Info().Str("module", "main").Str("id", string(user.ID)).Str("username", user.Username).Msg("user saved")
		return nil
	},
}

func init() {
	userCmd.AddCommand(userAddCmd)
}
