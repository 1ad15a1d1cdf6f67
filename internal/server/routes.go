package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(LoggerMiddleware)

	e.GET("/health", s.healthHandler)

	// Wizard session lifecycle
	e.POST("/api/session", s.createSessionHandler)
	e.GET("/api/session/:session_id", s.getSessionHandler)
	e.POST("/api/session/:session_id/goals", s.submitGoalsHandler)
	e.POST("/api/session/:session_id/lifestyle", s.submitLifestyleHandler)
	e.POST("/api/session/:session_id/back", s.backHandler)
	e.POST("/api/session/:session_id/save", s.saveHandler)
	e.POST("/api/session/:session_id/load-saved", s.loadSavedHandler)

	// Routine edits
	e.POST("/api/session/:session_id/routine/remove", s.removeItemHandler)
	e.POST("/api/session/:session_id/routine/restore", s.restoreItemHandler)
	e.POST("/api/session/:session_id/routine/restore-all", s.restoreAllHandler)
	e.POST("/api/session/:session_id/routine/swap", s.swapItemHandler)
	e.POST("/api/session/:session_id/routine/alternative", s.alternativeHandler)

	// Calendar export
	e.POST("/api/session/:session_id/calendar/ical", s.exportICalHandler)
	e.POST("/api/session/:session_id/calendar/google", s.googleCalendarHandler)

	// Notification side channel
	e.GET("/api/session/:session_id/events", s.eventsHandler)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	if s.db != nil {
		return c.JSON(http.StatusOK, s.db.Health())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "up", "storage": "memory"})
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
