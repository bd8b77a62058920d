package server

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Zachdehooge/weather-map/internal/session"
	"github.com/Zachdehooge/weather-map/internal/startup"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status startup.Status    `json:"status"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleStatus(c echo.Context) error {
	status, errs := s.loader.Status()
	return c.JSON(http.StatusOK, statusResponse{Status: status, Errors: errs})
}

func (s *Server) handleWind(c echo.Context) error {
	snap, ok := s.loader.Snapshot()
	if !ok {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "startup in progress"})
	}
	if snap.Wind == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "wind data unavailable"})
	}
	return c.JSON(http.StatusOK, snap.Wind)
}

func (s *Server) handleCreateSession(c echo.Context) error {
	snap, ok := s.loader.Snapshot()
	if !ok {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "startup in progress"})
	}

	sess := session.New(snap, s.catalog, s.navMetrics)
	s.sessions.Add(sess)
	return c.JSON(http.StatusCreated, sess.View())
}

func (s *Server) handleGetSession(c echo.Context) error {
	return s.withSession(c, viewOnly((*session.Session).View))
}

func (s *Server) handlePrevious(c echo.Context) error {
	return s.withSession(c, viewOnly((*session.Session).Previous))
}

func (s *Server) handleNext(c echo.Context) error {
	return s.withSession(c, viewOnly((*session.Session).Next))
}

func (s *Server) handleEnableOverlay(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid overlay name"})
	}
	return s.withSession(c, func(sess *session.Session) (session.View, error) {
		return sess.EnableOverlay(name)
	})
}

func (s *Server) handleDisableOverlay(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid overlay name"})
	}
	return s.withSession(c, func(sess *session.Session) (session.View, error) {
		return sess.DisableOverlay(name)
	})
}

func viewOnly(fn func(*session.Session) session.View) func(*session.Session) (session.View, error) {
	return func(sess *session.Session) (session.View, error) { return fn(sess), nil }
}

func (s *Server) withSession(c echo.Context, fn func(*session.Session) (session.View, error)) error {
	sess, err := s.sessions.Get(c.Param("id"))
	if errors.Is(err, session.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	}
	if err != nil {
		return err
	}

	view, err := fn(sess)
	if errors.Is(err, session.ErrUnknownOverlay) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
