package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Veraticus/shop-assist/internal/common"
	"github.com/Veraticus/shop-assist/internal/jobsync"
	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/Veraticus/shop-assist/internal/reconcile"
	"github.com/Veraticus/shop-assist/internal/service"
	"github.com/Veraticus/shop-assist/internal/storage"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// MatchRequest is the request body for POST /api/v1/symptoms/match.
type MatchRequest struct {
	Concern string `json:"concern"`
}

// CategoryResponse describes one catalog entry.
type CategoryResponse struct {
	Name      string   `json:"name"`
	Questions []string `json:"questions"`
}

// JobsResponse is the response body for GET /api/v1/jobs.
type JobsResponse struct {
	Jobs  []model.Job `json:"jobs"`
	Count int         `json:"count"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleObserve(c echo.Context) error {
	var req reconcile.ObservedRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("Invalid observe request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.URL) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url field is required")
	}

	obs := s.deps.Host.Observe(req)
	return c.JSON(http.StatusAccepted, obs)
}

func (s *Server) handleMatch(c echo.Context) error {
	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, s.deps.Matcher.Evaluate(req.Concern))
}

func (s *Server) handleCategories(c echo.Context) error {
	categories := s.deps.Matcher.Categories()
	resp := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, CategoryResponse{Name: cat.Name, Questions: cat.Questions})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSearchJobs(c echo.Context) error {
	filter := service.JobFilter{Query: c.QueryParam("q")}

	var err error
	if filter.Limit, err = intParam(c, "limit"); err != nil {
		return err
	}
	if filter.Offset, err = intParam(c, "offset"); err != nil {
		return err
	}

	jobs, err := s.deps.Store.SearchJobs(c.Request().Context(), filter)
	if err != nil {
		return s.storeError(err)
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	return c.JSON(http.StatusOK, JobsResponse{Jobs: jobs, Count: len(jobs)})
}

func (s *Server) handlePendingJob(c echo.Context) error {
	pending, err := jobsync.PendingJob(c.Request().Context(), s.deps.Store)
	if err != nil {
		return s.storeError(err)
	}
	return c.JSON(http.StatusOK, pending)
}

func (s *Server) handleSendJob(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid job id")
	}

	pending, err := jobsync.SendJob(c.Request().Context(), s.deps.Store, id)
	if err != nil {
		return s.storeError(err)
	}
	return c.JSON(http.StatusOK, pending)
}

func (s *Server) handleListGroups(c echo.Context) error {
	groups, err := s.deps.Store.LaborRateGroups(c.Request().Context())
	if err != nil {
		return s.storeError(err)
	}
	if groups == nil {
		groups = []model.LaborRateGroup{}
	}
	return c.JSON(http.StatusOK, groups)
}

func (s *Server) handleReplaceGroups(c echo.Context) error {
	var groups []model.LaborRateGroup
	if err := c.Bind(&groups); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if groups == nil {
		groups = []model.LaborRateGroup{}
	}

	if err := s.deps.Store.SaveLaborRateGroups(c.Request().Context(), groups); err != nil {
		return s.storeError(err)
	}
	s.logger.Info("Replaced labor rate groups", "count", len(groups))
	return c.JSON(http.StatusOK, groups)
}

// handleEvents streams refresh notifications as server-sent events.
func (s *Server) handleEvents(c echo.Context) error {
	res := c.Response()
	res.Header().Set("Content-Type", "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	events, cancel := s.deps.Broadcaster.Subscribe(16)
	defer cancel()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case n, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(n)
			if err != nil {
				s.logger.Warn("Failed to encode notification", "error", err)
				continue
			}
			fmt.Fprintf(res, "event: %s\n", n.Type)
			fmt.Fprintf(res, "data: %s\n\n", data)
			res.Flush()

		case <-ticker.C:
			fmt.Fprintf(res, ": heartbeat\n\n")
			res.Flush()

		case <-c.Request().Context().Done():
			return nil

		case <-s.done:
			return nil
		}
	}
}

func (s *Server) storeError(err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidLaborRateGroup),
		errors.Is(err, storage.ErrEmptyString),
		errors.Is(err, storage.ErrInvalidJob):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Request failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
	}
	return v, nil
}
