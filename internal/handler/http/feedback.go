package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/service"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/httputil"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/middleware"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/validator"
)

// FeedbackHandler handles HTTP requests for feedback and rating endpoints.
type FeedbackHandler struct {
	service *service.FeedbackService
	logger  *slog.Logger
}

// NewFeedbackHandler creates a new feedback HTTP handler.
func NewFeedbackHandler(svc *service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SubmitFeedbackRequest is the JSON request body for rating a completed swap.
type SubmitFeedbackRequest struct {
	RevieweeID          string `json:"reviewee_id" validate:"omitempty,uuid"`
	Rating              int    `json:"rating" validate:"required,gte=1,lte=5"`
	SkillRating         *int   `json:"skill_rating" validate:"omitempty,gte=1,lte=5"`
	CommunicationRating *int   `json:"communication_rating" validate:"omitempty,gte=1,lte=5"`
	Comment             string `json:"comment" validate:"max=500"`
	RecommendsUser      *bool  `json:"recommends_user"`
	IsPublic            *bool  `json:"is_public"`
}

// UpdateFeedbackRequest is the JSON request body for editing feedback.
// Omitted fields keep their value; clear_* removes a sub-rating.
type UpdateFeedbackRequest struct {
	Rating                   *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	SkillRating              *int    `json:"skill_rating" validate:"omitempty,gte=1,lte=5"`
	CommunicationRating      *int    `json:"communication_rating" validate:"omitempty,gte=1,lte=5"`
	ClearSkillRating         bool    `json:"clear_skill_rating"`
	ClearCommunicationRating bool    `json:"clear_communication_rating"`
	Comment                  *string `json:"comment" validate:"omitempty,max=500"`
	RecommendsUser           *bool   `json:"recommends_user"`
	IsPublic                 *bool   `json:"is_public"`
}

// --- Handlers ---

// SubmitFeedback handles POST /api/v1/swaps/{id}/feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	swapID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req SubmitFeedbackRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	fb, err := h.service.SubmitFeedback(r.Context(), service.SubmitFeedbackInput{
		SwapRequestID:       swapID.String(),
		ReviewerID:          middleware.UserIDFromContext(r.Context()),
		RevieweeID:          req.RevieweeID,
		Rating:              req.Rating,
		SkillRating:         req.SkillRating,
		CommunicationRating: req.CommunicationRating,
		Comment:             req.Comment,
		RecommendsUser:      req.RecommendsUser,
		IsPublic:            req.IsPublic,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: fb})
}

// UpdateFeedback handles PUT /api/v1/feedback/{id}
func (h *FeedbackHandler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateFeedbackRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	fb, err := h.service.UpdateFeedback(r.Context(), service.UpdateFeedbackInput{
		FeedbackID:               id.String(),
		ReviewerID:               middleware.UserIDFromContext(r.Context()),
		Rating:                   req.Rating,
		SkillRating:              req.SkillRating,
		CommunicationRating:      req.CommunicationRating,
		ClearSkillRating:         req.ClearSkillRating,
		ClearCommunicationRating: req.ClearCommunicationRating,
		Comment:                  req.Comment,
		RecommendsUser:           req.RecommendsUser,
		IsPublic:                 req.IsPublic,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: fb})
}

// DeleteFeedback handles DELETE /api/v1/feedback/{id}
func (h *FeedbackHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteFeedback(r.Context(), id.String(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListReceived handles GET /api/v1/users/{userId}/feedback/received
func (h *FeedbackHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseUUID(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}

	list, err := h.service.ListFeedbackReceived(r.Context(), userID.String(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: list})
}

// ListGiven handles GET /api/v1/users/{userId}/feedback/given
func (h *FeedbackHandler) ListGiven(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseUUID(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}

	list, err := h.service.ListFeedbackGiven(r.Context(), userID.String(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: list})
}

// GetRating handles GET /api/v1/users/{userId}/rating
func (h *FeedbackHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParseUUID(w, chi.URLParam(r, "userId"))
	if !ok {
		return
	}

	summary, err := h.service.AggregateRating(r.Context(), userID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
