package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"marina-frontdesk/internal/config"
	"marina-frontdesk/internal/events"
	"marina-frontdesk/internal/logger"
	"marina-frontdesk/internal/models"
	"marina-frontdesk/internal/services"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the receptionist in the terminal",
	Long:  `Start an interactive text conversation. Type "exit" or "quit" to leave.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logger.NewLogger(cfg.LogLevel, "console", "marina-frontdesk")
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		db, roomRepo, err := openInventory(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		reasoner, closeReasoner, err := newReasoner(cfg)
		if err != nil {
			return err
		}
		defer closeReasoner()

		opts, err := receptionistOptions(ctx, cfg)
		if err != nil {
			return err
		}

		receptionist := services.NewReceptionist(
			reasoner,
			services.NewRoomService(roomRepo),
			services.NewReservationService(roomRepo, events.NewLogPublisher(log), log),
			opts,
			log,
		)
		return chatLoop(ctx, receptionist, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

type responder interface {
	Respond(ctx context.Context, message string, history []models.ChatTurn) (string, error)
}

// chatLoop reads one guest line at a time and keeps the exchange as prior turns.
func chatLoop(ctx context.Context, assistant responder, in io.Reader, out io.Writer) error {
	var history []models.ChatTurn
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, `Front desk is open. Type "exit" to leave.`)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		reply, err := assistant.Respond(ctx, line, history)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		fmt.Fprintf(out, "desk> %s\n", reply)
		history = append(history, models.ChatTurn{User: line, Assistant: reply})
	}
}
