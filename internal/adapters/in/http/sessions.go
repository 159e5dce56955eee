package http

import (
	"net/http"
	"time"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

type NewSession struct {
	UserID string `json:"userId"`
}

type Session struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StartSession handles POST /api/sessions.
func (s *Server) StartSession(c echo.Context) error {
	var req NewSession
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return s.fail(c, err)
	}

	sessionID := kernel.NewUUID()
	cmd, err := commands.NewStartSessionCommand(sessionID, userID)
	if err != nil {
		return s.fail(c, err)
	}

	expiresAt, err := s.h.StartSession.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, Session{ID: sessionID.String(), ExpiresAt: expiresAt})
}

// Heartbeat handles POST /api/sessions/:id/heartbeat. An expired session is 401.
func (s *Server) Heartbeat(c echo.Context) error {
	sessionID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewTouchSessionCommand(sessionID)
	if err != nil {
		return s.fail(c, err)
	}

	expiresAt, err := s.h.TouchSession.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, Session{ID: sessionID.String(), ExpiresAt: expiresAt})
}

// EndSession handles DELETE /api/sessions/:id.
func (s *Server) EndSession(c echo.Context) error {
	sessionID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewEndSessionCommand(sessionID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.EndSession.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
