package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/service"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/httputil"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/middleware"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/validator"
)

// ModerationHandler handles admin moderation endpoints.
type ModerationHandler struct {
	service *service.ModerationService
	logger  *slog.Logger
}

// NewModerationHandler creates a new moderation HTTP handler.
func NewModerationHandler(svc *service.ModerationService, logger *slog.Logger) *ModerationHandler {
	return &ModerationHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ModerationRequest is the optional JSON body for moderation actions.
type ModerationRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type moderationAction func(ctx context.Context, adminID, targetID, reason string) (*domain.ModerationEntry, error)

func (h *ModerationHandler) handle(param string, act moderationAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, ok := httputil.ParseUUID(w, chi.URLParam(r, param))
		if !ok {
			return
		}

		var req ModerationRequest
		if hasBody(r) {
			if err := validator.DecodeAndValidate(w, r, &req); err != nil {
				httputil.WriteValidationError(w, r, err)
				return
			}
		}

		entry, err := act(r.Context(), middleware.UserIDFromContext(r.Context()), targetID.String(), req.Reason)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: entry})
	}
}

// BanUser handles POST /api/v1/admin/users/{userId}/ban
func (h *ModerationHandler) BanUser() http.HandlerFunc {
	return h.handle("userId", h.service.BanUser)
}

// UnbanUser handles POST /api/v1/admin/users/{userId}/unban
func (h *ModerationHandler) UnbanUser() http.HandlerFunc {
	return h.handle("userId", h.service.UnbanUser)
}

// ApproveSkill handles POST /api/v1/admin/skills/{skillId}/approve
func (h *ModerationHandler) ApproveSkill() http.HandlerFunc {
	return h.handle("skillId", h.service.ApproveSkill)
}

// RejectSkill handles POST /api/v1/admin/skills/{skillId}/reject
func (h *ModerationHandler) RejectSkill() http.HandlerFunc {
	return h.handle("skillId", h.service.RejectSkill)
}

// ListLog handles GET /api/v1/admin/moderation-log?limit=
func (h *ModerationHandler) ListLog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "limit must be a positive integer"},
			})
			return
		}
		limit = n
	}

	entries, err := h.service.ListModerationLog(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: entries})
}
