package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/JosephusPaye/memelord/internal/config"
	"github.com/JosephusPaye/memelord/internal/domain"
)

const sessionMaxAgeMinutes = 10

// CommandService executes slash commands and returns the text to post back
// into the channel.
type CommandService interface {
	Divide(ctx context.Context, teamID, channelID string) error
	Tally(ctx context.Context, teamID, channelID, text string) (string, error)
	Award(ctx context.Context, teamID, channelID, awarderID, text string) (string, error)
	Leaderboard(ctx context.Context, teamID string) (string, error)
}

// HealthCheck is a named readiness probe against a backing service.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	app          CommandService
	teams        domain.TeamRepository
	sessionStore *sessions.CookieStore
	checks       []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app CommandService, teams domain.TeamRepository, checks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Session store, only used to carry the OAuth state across the install
	// redirect, so it can be short-lived.
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   60 * sessionMaxAgeMinutes,
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		teams:        teams,
		sessionStore: sessionStore,
		checks:       checks,
		startTime:    time.Now(),
	}

	// Register routes
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
