/*
Package server implements the application's network transport layer.
It initializes the HTTP server, wires the wizard core to its collaborators
(recommendation service, persistence, notification hub), and configures
timeouts.
*/
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/sessions"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"

	"vitaplan/internal/aiservice"
	"vitaplan/internal/database"
	"vitaplan/internal/notify"
	"vitaplan/internal/persist"
	"vitaplan/internal/wizard"
)

// Server holds the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// db backs the saved-routine store; nil when running on in-memory
	// persistence.
	db database.Service

	// cookies binds a browser to its persistence client ID.
	cookies *sessions.CookieStore

	// registry holds the live wizard sessions.
	registry *wizard.Registry

	// hub pushes side-channel notifications to connected tabs.
	hub *notify.Hub

	// ai is the recommendation and swap collaborator.
	ai *aiservice.Service
}

// NewServer initializes the application and returns a configured
// *http.Server. Configuration comes from environment variables; the service
// degrades to in-memory persistence when no database is reachable.
func NewServer() *http.Server {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	hub := notify.NewHub()

	var db database.Service
	var kv persist.KV
	if dsn := database.DSN(); dsn != "" {
		db, err = database.Connect(context.Background(), dsn)
		if err != nil {
			log.Warn().Err(err).Msg("Database unreachable, falling back to in-memory persistence")
		} else {
			pg := persist.NewPostgres(db.Pool())
			if err := pg.EnsureSchema(context.Background()); err != nil {
				log.Fatal().Err(err).Msg("Failed to bootstrap database schema")
			}
			kv = pg
		}
	}
	if kv == nil {
		log.Info().Msg("No database configured, saved routines are in-memory only")
		kv = persist.NewMemory()
	}

	registry, err := wizard.NewRegistry(persist.NewRoutineStore(kv), hub)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session registry")
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		// Ephemeral secret: cookies stop validating across restarts, which
		// only costs the saved-routine shortcut, not any data.
		secret = uuid.New().String()
	}

	app := &Server{
		port:     port,
		db:       db,
		cookies:  sessions.NewCookieStore([]byte(secret)),
		registry: registry,
		hub:      hub,
		ai:       aiservice.New(),
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.port),
		Handler:      app.RegisterRoutes(),
		IdleTimeout:  time.Minute,      // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  10 * time.Second, // Maximum duration for reading the entire request.
		WriteTimeout: 2 * time.Minute, // Must cover the generation call's full retry budget (3 attempts x 30s plus backoff).
	}
	httpServer.RegisterOnShutdown(app.close)

	return httpServer
}

// close releases the server's database resources on shutdown.
func (s *Server) close() {
	if s.db != nil {
		s.db.Close()
	}
}
