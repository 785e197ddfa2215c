package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "frontdesk",
	Short:         "Marina Vista front desk assistant",
	Long:          `Serve and operate the hotel front desk assistant: room questions and bookings over chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(staffTokenCmd)
}
