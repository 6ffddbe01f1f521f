package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Landing page and install flow
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/install", s.handleInstall)
	s.echo.GET("/install/auth", s.handleInstallAuth)

	// Slash command webhook from Slack (signing-secret verified, NO session)
	s.echo.POST("/api/messages", s.handleSlashCommand)
}
