package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JosephusPaye/memelord/internal/slackapi"
	"github.com/JosephusPaye/memelord/internal/version"
)

const (
	sessionName          = "memelord-session"
	sessionKeyOAuthState = "oauth_state"

	slackAuthorizeURL = "https://slack.com/oauth/v2/authorize"
	oauthTimeout      = 10 * time.Second
)

func (s *Server) handleIndex(c echo.Context) error {
	return c.String(200, "🤖 Meme Lord is running. Visit /install to add it to your workspace.")
}

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := time.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status":  "ok",
		"uptime":  uptime,
		"version": version.Get(),
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	for _, check := range s.checks {
		if err := check.Check(ctx); err != nil {
			return c.JSON(503, map[string]any{
				"status":       "unhealthy",
				"failed_check": check.Name,
				"error":        err.Error(),
			})
		}
	}

	return c.JSON(200, map[string]string{"status": "ready"})
}

func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate OAuth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *Server) handleInstall(c echo.Context) error {
	state, err := generateOAuthState()
	if err != nil {
		slog.Error("failed to generate OAuth state", "error", err)
		return c.String(500, "Internal error")
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.Warn("failed to get session for OAuth state", "error", err)
	}
	session.Values[sessionKeyOAuthState] = state
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		slog.Error("failed to save OAuth state session", "error", err)
		return c.String(500, "Internal error")
	}

	authURL := fmt.Sprintf(
		"%s?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		slackAuthorizeURL,
		url.QueryEscape(s.config.SlackClientID),
		url.QueryEscape(strings.Join(slackapi.InstallScopes, ",")),
		url.QueryEscape(s.config.SlackRedirectURI),
		url.QueryEscape(state),
	)

	return c.Redirect(302, authURL)
}

func (s *Server) handleInstallAuth(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.String(400, "Missing code parameter")
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return c.String(400, "Invalid session")
	}
	expectedState, ok := session.Values[sessionKeyOAuthState].(string)
	if !ok || expectedState == "" {
		return c.String(400, "Missing OAuth state")
	}
	if c.QueryParam("state") != expectedState {
		return c.String(400, "Invalid OAuth state")
	}
	delete(session.Values, sessionKeyOAuthState)
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		slog.Warn("failed to clear OAuth state session", "error", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), oauthTimeout)
	defer cancel()

	team, err := slackapi.ExchangeOAuthCode(ctx, s.config.SlackClientID, s.config.SlackClientSecret, code, s.config.SlackRedirectURI)
	if err != nil {
		slog.Error("failed to exchange OAuth code", "error", err)
		return c.String(500, "Failed to authenticate with Slack")
	}

	if err := s.teams.UpsertTeam(ctx, team); err != nil {
		slog.Error("failed to save team", "team_id", team.TeamID, "error", err)
		return c.String(500, "Failed to save workspace")
	}

	slog.Info("installed into workspace", "team_id", team.TeamID, "team_name", team.TeamName, "channel", team.Channel)
	return c.String(200, fmt.Sprintf("🎉 Meme Lord installed into %s, posting to %s. You can close this tab.", team.TeamName, team.Channel))
}
