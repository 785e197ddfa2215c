package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"marina-frontdesk/internal/config"
	"marina-frontdesk/internal/middleware"
)

var (
	staffID  string
	tokenTTL time.Duration
)

var staffTokenCmd = &cobra.Command{
	Use:   "staff-token",
	Short: "Mint a JWT for the staff API and booking feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStaffToken(cmd, config.LoadJWTSecret())
	},
}

func init() {
	staffTokenCmd.Flags().StringVar(&staffID, "staff", "front-desk", "Staff identifier stored in the token subject")
	staffTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "Token lifetime")
}

func printStaffToken(cmd *cobra.Command, secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if tokenTTL <= 0 {
		return errors.New("--ttl must be positive")
	}

	token, err := middleware.NewJWTAuth(secret).GenerateStaffToken(staffID, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
