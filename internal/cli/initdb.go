package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"marina-frontdesk/internal/config"
	"marina-frontdesk/internal/logger"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create and seed the room inventory if it is empty",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "marina-frontdesk")
		if err != nil {
			return err
		}
		defer log.Sync()

		db, repo, err := openInventory(context.Background(), cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		names, err := repo.Names(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inventory ready: %d room types\n", len(names))
		return nil
	},
}
