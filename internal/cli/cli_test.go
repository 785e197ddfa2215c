package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marina-frontdesk/internal/models"
)

type scriptedResponder struct {
	replies  []string
	failOn   string
	messages []string
	history  [][]models.ChatTurn
}

func (s *scriptedResponder) Respond(ctx context.Context, message string, history []models.ChatTurn) (string, error) {
	s.messages = append(s.messages, message)
	s.history = append(s.history, append([]models.ChatTurn(nil), history...))
	if message == s.failOn {
		return "", errors.New("reasoner unavailable")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func TestChatLoop_CarriesHistory(t *testing.T) {
	bot := &scriptedResponder{replies: []string{"We have four rooms.", "Booked the Deluxe Suite."}}
	in := strings.NewReader("What rooms do you have?\n\nBook the deluxe suite\nexit\n")
	var out bytes.Buffer

	require.NoError(t, chatLoop(context.Background(), bot, in, &out))

	assert.Equal(t, []string{"What rooms do you have?", "Book the deluxe suite"}, bot.messages)
	assert.Empty(t, bot.history[0])
	assert.Equal(t, []models.ChatTurn{{User: "What rooms do you have?", Assistant: "We have four rooms."}}, bot.history[1])
	assert.Contains(t, out.String(), "desk> Booked the Deluxe Suite.")
}

func TestChatLoop_ErrorsDoNotEndSession(t *testing.T) {
	bot := &scriptedResponder{replies: []string{"Hello!"}, failOn: "first"}
	in := strings.NewReader("first\nsecond\n")
	var out bytes.Buffer

	require.NoError(t, chatLoop(context.Background(), bot, in, &out))

	assert.Contains(t, out.String(), "error: reasoner unavailable")
	assert.Contains(t, out.String(), "desk> Hello!")
	// The failed turn is not part of the history.
	assert.Empty(t, bot.history[1])
}

func TestPrintStaffToken(t *testing.T) {
	staffID, tokenTTL = "night-desk", time.Hour

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, printStaffToken(cmd, "cli-secret"))

	parsed, err := jwt.Parse(strings.TrimSpace(out.String()), func(token *jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "night-desk", claims["sub"])
	assert.Equal(t, "staff", claims["role"])
}

func TestPrintStaffToken_RequiresSecret(t *testing.T) {
	staffID, tokenTTL = "night-desk", time.Hour
	assert.Error(t, printStaffToken(&cobra.Command{}, ""))
}

func TestRootRegistersCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "chat", "init-db", "staff-token"})
}

func TestStaffTokenCommand_WithoutDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "s3cret")
	staffID, tokenTTL = "front-desk", time.Hour

	var out bytes.Buffer
	staffTokenCmd.SetOut(&out)
	defer staffTokenCmd.SetOut(nil)

	require.NotPanics(t, func() {
		require.NoError(t, staffTokenCmd.RunE(staffTokenCmd, nil))
	})

	_, err := jwt.Parse(strings.TrimSpace(out.String()), func(token *jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	})
	assert.NoError(t, err)
}
