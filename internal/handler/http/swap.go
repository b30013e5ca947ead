package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/domain"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/service"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/httputil"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/middleware"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/validator"
)

// SwapHandler handles HTTP requests for swap request endpoints.
type SwapHandler struct {
	service *service.SwapService
	logger  *slog.Logger
}

// NewSwapHandler creates a new swap HTTP handler.
func NewSwapHandler(svc *service.SwapService, logger *slog.Logger) *SwapHandler {
	return &SwapHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SkillRefRequest describes one side of a swap. Kind-specific field rules
// are enforced by the domain.
type SkillRefRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=catalog free_text"`
	SkillID string `json:"skill_id" validate:"omitempty,uuid"`
	Label   string `json:"label" validate:"max=100"`
}

func (s SkillRefRequest) toDomain() domain.SkillRef {
	return domain.SkillRef{Kind: s.Kind, SkillID: s.SkillID, Label: s.Label}
}

// CreateSwapRequest is the JSON request body for opening a swap request.
type CreateSwapRequest struct {
	RequesteeID  string          `json:"requestee_id" validate:"required,uuid"`
	OfferedSkill SkillRefRequest `json:"offered_skill" validate:"required"`
	WantedSkill  SkillRefRequest `json:"wanted_skill" validate:"required"`
	Message      string          `json:"message" validate:"max=500"`
}

// TransitionRequest is the optional JSON body for lifecycle actions.
type TransitionRequest struct {
	ResponseMessage string `json:"response_message" validate:"max=500"`
}

// --- Handlers ---

// CreateSwap handles POST /api/v1/swaps
func (h *SwapHandler) CreateSwap(w http.ResponseWriter, r *http.Request) {
	var req CreateSwapRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	swap, err := h.service.Create(r.Context(), service.CreateSwapInput{
		RequesterID:  middleware.UserIDFromContext(r.Context()),
		RequesteeID:  req.RequesteeID,
		OfferedSkill: req.OfferedSkill.toDomain(),
		WantedSkill:  req.WantedSkill.toDomain(),
		Message:      req.Message,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: swap})
}

// ListSwaps handles GET /api/v1/swaps?direction=&status=
func (h *SwapHandler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	var status *string
	if v := r.URL.Query().Get("status"); v != "" {
		status = &v
	}

	swaps, err := h.service.ListForUser(r.Context(),
		middleware.UserIDFromContext(r.Context()),
		r.URL.Query().Get("direction"),
		status,
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: swaps})
}

// GetSwap handles GET /api/v1/swaps/{id}
func (h *SwapHandler) GetSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	swap, err := h.service.GetSwap(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: swap})
}

// TransitionSwap handles POST /api/v1/swaps/{id}/{action}
func (h *SwapHandler) TransitionSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req TransitionRequest
	if hasBody(r) {
		if err := validator.DecodeAndValidate(w, r, &req); err != nil {
			httputil.WriteValidationError(w, r, err)
			return
		}
	}

	action := domain.Action(chi.URLParam(r, "action"))
	swap, err := h.service.Transition(r.Context(), id.String(), middleware.UserIDFromContext(r.Context()), action, req.ResponseMessage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: swap})
}

// DeleteSwap handles DELETE /api/v1/swaps/{id}
func (h *SwapHandler) DeleteSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id.String(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPendingFeedback handles GET /api/v1/feedback/pending
func (h *SwapHandler) ListPendingFeedback(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.service.ListPendingFeedback(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: swaps})
}
