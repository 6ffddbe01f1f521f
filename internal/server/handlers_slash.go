package server

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/slack-go/slack"

	"github.com/JosephusPaye/memelord/internal/app"
	"github.com/JosephusPaye/memelord/internal/metrics"
)

// slashResponse is the JSON body Slack expects in reply to a slash command.
// "in_channel" makes the reply visible to everyone, "ephemeral" only to the
// user who ran the command.
type slashResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

func (s *Server) handleSlashCommand(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(400)
	}

	verifier, err := slack.NewSecretsVerifier(c.Request().Header, s.config.SlackSigningSecret)
	if err != nil {
		return c.NoContent(401)
	}
	if _, err := verifier.Write(body); err != nil {
		return c.NoContent(401)
	}
	if err := verifier.Ensure(); err != nil {
		slog.Warn("rejected slash command with bad signature", "error", err)
		return c.NoContent(401)
	}

	// SlashCommandParse reads the form body, so restore it after verification.
	c.Request().Body = io.NopCloser(bytes.NewReader(body))
	command, err := slack.SlashCommandParse(c.Request())
	if err != nil {
		return c.NoContent(400)
	}

	ctx := c.Request().Context()
	logger := slog.With("command", command.Command, "team_id", command.TeamID)

	var text string
	var cmdErr error
	switch command.Command {
	case "/divide":
		cmdErr = s.app.Divide(ctx, command.TeamID, command.ChannelID)
	case "/tally":
		text, cmdErr = s.app.Tally(ctx, command.TeamID, command.ChannelID, command.Text)
	case "/award":
		text, cmdErr = s.app.Award(ctx, command.TeamID, command.ChannelID, command.UserID, command.Text)
	case "/leaderboard":
		text, cmdErr = s.app.Leaderboard(ctx, command.TeamID)
	default:
		logger.Warn("unknown slash command")
		metrics.CommandsTotal.WithLabelValues(command.Command, "unknown").Inc()
		return c.JSON(200, slashResponse{ResponseType: "ephemeral", Text: "Unknown command."})
	}

	if cmdErr != nil {
		logger.Error("command failed", "error", cmdErr)
		metrics.CommandsTotal.WithLabelValues(command.Command, "error").Inc()
		return c.JSON(200, slashResponse{ResponseType: "ephemeral", Text: app.RenderError(cmdErr)})
	}

	metrics.CommandsTotal.WithLabelValues(command.Command, "success").Inc()
	if text == "" {
		// The divider is posted into the channel directly, nothing to echo back.
		return c.NoContent(200)
	}
	return c.JSON(200, slashResponse{ResponseType: "in_channel", Text: text})
}
