package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	wagerapp "github.com/betaware/betaware-api/internal/application"
	"github.com/betaware/betaware-api/internal/domain/entity"
	"github.com/betaware/betaware-api/internal/interface/middleware"
	"github.com/betaware/betaware-api/pkg/response"
	"github.com/betaware/betaware-api/pkg/validation"
)

type WagerHandler struct {
	Svc    *wagerapp.WagerService
	Logger *logrus.Logger
}

func NewWagerHandler(svc *wagerapp.WagerService, logger *logrus.Logger) *WagerHandler {
	return &WagerHandler{Svc: svc, Logger: logger}
}

type createWagerRequest struct {
	Category string  `json:"category" binding:"required"`
	Event    string  `json:"event" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Outcome  string  `json:"outcome" binding:"required,outcome"`
	// Accepts the same formats as the start/end query parameters.
	OccurredAt string `json:"occurred_at" binding:"required"`
}

type wagerDTO struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Event      string    `json:"event"`
	Amount     float64   `json:"amount"`
	Outcome    string    `json:"outcome"`
	OccurredAt time.Time `json:"occurred_at"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
}

func toDTO(w *entity.Wager) wagerDTO {
	return wagerDTO{
		ID:         w.ID,
		Category:   w.Category,
		Event:      w.Event,
		Amount:     w.Amount,
		Outcome:    string(w.Outcome),
		OccurredAt: w.OccurredAt,
		Username:   w.OwnerUsername,
		CreatedAt:  w.CreatedAt,
	}
}

func toDTOs(ws []entity.Wager) []wagerDTO {
	out := make([]wagerDTO, 0, len(ws))
	for i := range ws {
		out = append(out, toDTO(&ws[i]))
	}
	return out
}

// Create POST /api/wagers
func (h *WagerHandler) Create(c *gin.Context) {
	var req createWagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	occurred, err := parseTimeParam(req.OccurredAt)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{
			"occurred_at": "must be RFC3339 or 2006-01-02T15:04:05",
		})
		return
	}

	username := c.GetString(middleware.CtxUsernameKey)
	w, err := h.Svc.Create(c.Request.Context(), username, wagerapp.CreateWagerInput{
		Category:   req.Category,
		Event:      req.Event,
		Amount:     req.Amount,
		Outcome:    entity.Outcome(req.Outcome),
		OccurredAt: occurred,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toDTO(w), "wager created", nil)
}

// List GET /api/wagers — the caller's wagers only.
func (h *WagerHandler) List(c *gin.Context) {
	username := c.GetString(middleware.CtxUsernameKey)
	ws, err := h.Svc.ListMine(c.Request.Context(), username)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toDTOs(ws), "wagers", nil)
}

// ListMineBetween GET /api/wagers/mine?start=&end=
func (h *WagerHandler) ListMineBetween(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	username := c.GetString(middleware.CtxUsernameKey)
	ws, err := h.Svc.ListMineBetween(c.Request.Context(), username, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toDTOs(ws), "wagers in period", nil)
}

// ListAllBetween GET /api/wagers/period?start=&end= — ADMIN only.
func (h *WagerHandler) ListAllBetween(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	role := entity.Role(c.GetString(middleware.CtxRoleKey))
	ws, err := h.Svc.ListAllBetween(c.Request.Context(), role, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toDTOs(ws), "wagers in period", nil)
}

// Search GET /api/wagers/search?q= — ADMIN only, served from Elasticsearch.
func (h *WagerHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", map[string]string{"q": "is required"})
		return
	}
	role := entity.Role(c.GetString(middleware.CtxRoleKey))
	hits, err := h.Svc.Search(c.Request.Context(), role, q, 10)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

// parseRange reads the start/end query parameters. On failure it writes a
// 400 itself and returns ok=false.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err1 := parseTimeParam(c.Query("start"))
	to, err2 := parseTimeParam(c.Query("end"))
	if err1 != nil || err2 != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid period", map[string]string{
			"start": "must be RFC3339 or 2006-01-02T15:04:05",
			"end":   "must be RFC3339 or 2006-01-02T15:04:05",
		})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseTimeParam(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

func (h *WagerHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wagerapp.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "admin role required", nil)
	case errors.Is(err, wagerapp.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, wagerapp.ErrInvalidAmount),
		errors.Is(err, wagerapp.ErrInvalidOutcome),
		errors.Is(err, wagerapp.ErrMissingField):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("wager operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
