package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"vitaplan/internal/aiservice"
	"vitaplan/internal/calendar"
	"vitaplan/internal/notify"
	"vitaplan/internal/routine"
	"vitaplan/internal/wizard"
)

const clientCookieName = "vitaplan_client"

/* ====================================================================
                        Wizard session lifecycle
==================================================================== */

// createSessionHandler starts a wizard session for this tab. The response
// carries the initial snapshot plus whether a previously saved routine exists,
// so the UI can offer the jump-to-results shortcut.
func (s *Server) createSessionHandler(c echo.Context) error {
	clientID, err := s.clientID(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to establish client identity")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create session"})
	}

	sess := s.registry.Create(clientID)

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"session":           sess.Snapshot(),
		"has_saved_routine": s.hasSavedRoutine(c, clientID),
	})
}

func (s *Server) getSessionHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) submitGoalsHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var goals wizard.HealthGoals
	if err := c.Bind(&goals); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if err := sess.SubmitGoals(goals); err != nil {
		return s.wizardError(c, err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) submitLifestyleHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var lifestyle wizard.Lifestyle
	if err := c.Bind(&lifestyle); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if err := sess.SubmitLifestyle(c.Request().Context(), lifestyle, s.ai); err != nil {
		return s.wizardError(c, err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) backHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sess.Back()
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// saveHandler kicks off a save. The outcome lands on the notification socket,
// never in this response, so the handler only acknowledges the request.
func (s *Server) saveHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sess.Save(c.Request().Context())
	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) loadSavedHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	if err := sess.LoadSaved(c.Request().Context()); err != nil {
		return s.wizardError(c, err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

/* ====================================================================
                            Routine edits
==================================================================== */

type indexRequest struct {
	Index int `json:"index"`
}

func (s *Server) removeItemHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req indexRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := sess.RemoveItem(req.Index); err != nil {
		return s.wizardError(c, err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) restoreItemHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req indexRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := sess.RestoreItem(req.Index); err != nil {
		return s.wizardError(c, err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) restoreAllHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	if err := sess.RestoreAll(); err != nil {
		return s.wizardError(c, err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

type swapRequest struct {
	Target      routine.Item `json:"target"`
	Replacement routine.Item `json:"replacement"`
}

func (s *Server) swapItemHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req swapRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := sess.SwapItem(req.Target, req.Replacement); err != nil {
		return s.wizardError(c, err)
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// alternativeHandler asks the swap collaborator for a replacement candidate.
// The client confirms it separately through the swap endpoint.
func (s *Server) alternativeHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var req aiservice.AlternativeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if len(req.HealthGoals) == 0 {
		req.HealthGoals = sess.Goals().HealthGoals
	}

	alt, err := s.ai.GenerateAlternative(c.Request().Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate alternative")
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "Failed to generate an alternative. Please try again.",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"alternative": alt})
}

/* ====================================================================
                           Calendar export
==================================================================== */

func (s *Server) exportICalHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var opts calendar.Options
	if err := c.Bind(&opts); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	data, err := calendar.BuildICS(sess.EffectiveRoutine(), opts, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate iCal file")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Failed to generate calendar file: %v", err)})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, calendar.ICSFilename))
	return c.Blob(http.StatusOK, calendar.ICSMIMEType, data)
}

func (s *Server) googleCalendarHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var opts calendar.Options
	if err := c.Bind(&opts); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	link, err := calendar.GoogleCalendarURL(sess.EffectiveRoutine(), opts, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build Google Calendar link")
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Failed to add to Google Calendar: %v", err)})
	}

	// The link covers only the first routine item; the full schedule goes
	// through the iCal export.
	return c.JSON(http.StatusOK, map[string]interface{}{
		"url":          link,
		"covers_items": 1,
	})
}

/* ====================================================================
                     Notification side channel
==================================================================== */

func (s *Server) eventsHandler(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	conn, err := notify.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	s.hub.Register(sess.ID, conn)
	defer s.hub.Unregister(sess.ID, conn)

	// Notifications are push-only; the read loop just detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

/* ====================================================================
                              Helpers
==================================================================== */

// clientID reads or establishes the persistent client identity cookie that
// keys saved routines across browser sessions.
func (s *Server) clientID(c echo.Context) (string, error) {
	cookieSess, err := s.cookies.Get(c.Request(), clientCookieName)
	if err != nil {
		// A stale or tampered cookie is replaced, not fatal.
		log.Warn().Err(err).Msg("Resetting invalid client cookie")
	}

	id, ok := cookieSess.Values["client_id"].(string)
	if !ok || id == "" {
		id = uuid.New().String()
		cookieSess.Values["client_id"] = id
		cookieSess.Options.MaxAge = 60 * 60 * 24 * 365
		cookieSess.Options.HttpOnly = true
		if err := cookieSess.Save(c.Request(), c.Response()); err != nil {
			return "", fmt.Errorf("save client cookie: %w", err)
		}
	}
	return id, nil
}

func (s *Server) hasSavedRoutine(c echo.Context, clientID string) bool {
	_, _, ok, err := s.registry.Store().LoadRoutine(c.Request().Context(), clientID)
	if err != nil {
		log.Warn().Err(err).Msg("Could not check for saved routine")
		return false
	}
	return ok
}

// session resolves the :session_id path parameter to a live wizard session.
// The returned error, when non-nil, is already a rendered JSON response.
func (s *Server) session(c echo.Context) (*wizard.Session, error) {
	id := c.Param("session_id")
	sess, ok := s.registry.Get(id)
	if !ok {
		return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
	}
	return sess, nil
}

// wizardError maps the wizard's failure taxonomy onto HTTP responses.
func (s *Server) wizardError(c echo.Context, err error) error {
	var validation *wizard.ValidationError
	var collaborator *wizard.CollaboratorError
	var persistence *wizard.PersistenceError

	switch {
	case errors.As(err, &validation):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": validation.Msg})
	case errors.As(err, &collaborator):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": collaborator.Error()})
	case errors.As(err, &persistence):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": persistence.Error()})
	case errors.Is(err, wizard.ErrGenerationInFlight):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, wizard.ErrStaleResult):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, wizard.ErrNoSavedRoutine):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("Unexpected wizard error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}
}
