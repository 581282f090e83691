// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/curatus/internal/config"
	"github.com/tomtom215/curatus/internal/profile"
	"github.com/tomtom215/curatus/internal/recommend"
	"github.com/tomtom215/curatus/internal/recommend/eval"
	"github.com/tomtom215/curatus/internal/validation"
)

// Handler wires the recommendation engine and profile store into HTTP
// endpoints.
type Handler struct {
	engine   *recommend.Engine
	profiles *profile.Store
	cfg      *config.Config
	start    time.Time
}

// NewHandler creates the endpoint handler set.
func NewHandler(engine *recommend.Engine, profiles *profile.Store, cfg *config.Config) *Handler {
	return &Handler{
		engine:   engine,
		profiles: profiles,
		cfg:      cfg,
		start:    time.Now(),
	}
}

// count clamps a requested result count into the configured bounds.
func (h *Handler) count(requested int) int {
	if requested <= 0 {
		return h.cfg.Recommend.DefaultCount
	}
	if requested > h.cfg.Recommend.MaxCount {
		return h.cfg.Recommend.MaxCount
	}
	return requested
}

// decodeJSON reads and validates a request payload. A false return
// means the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", err)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		respondValidationError(w, r, &APIError{
			Code:    ErrCodeValidationFailed,
			Message: apiErr.Message,
			Details: apiErr.Details,
		})
		return false
	}
	return true
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.start).Seconds()),
		"catalog_size":   h.engine.Snapshot().Len(),
		"model_fitted":   h.engine.Collaborative() != nil,
	})
}

// Survey handles GET /api/v1/survey.
// Returns a genre-stratified sample of catalog titles for the
// cold-start survey. The sample is deterministic for a given catalog.
func (h *Handler) Survey(w http.ResponseWriter, r *http.Request) {
	n := getIntParam(r, "count", h.cfg.Recommend.SurveySize)
	if n <= 0 || n > h.cfg.Recommend.SurveySize {
		n = h.cfg.Recommend.SurveySize
	}

	titles := h.engine.SurveyTitles(n)
	respondSuccess(w, r, map[string]interface{}{
		"titles": titles,
		"count":  len(titles),
	})
}

type personalizedRequest struct {
	UserID      string   `json:"user_id" validate:"required"`
	LikedTitles []string `json:"liked_titles"`
	Count       int      `json:"count" validate:"min=0,max=100"`
}

// PersonalizedRecommendations handles POST /api/v1/recommendations.
// Liked titles in the payload are merged into the user's profile
// before recommending, so the survey flow is a single round trip.
func (h *Handler) PersonalizedRecommendations(w http.ResponseWriter, r *http.Request) {
	var req personalizedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	prof, err := h.updatedProfile(req.UserID, req.LikedTitles)
	if err != nil {
		status, code, message := mapDomainError(err)
		respondError(w, r, status, code, message, err)
		return
	}

	recs := h.engine.RecommendForUser(prof.LikedTitles, prof.GenrePreferences, h.count(req.Count))
	respondSuccess(w, r, map[string]interface{}{
		"user_id":         req.UserID,
		"recommendations": recs,
		"count":           len(recs),
	})
}

// updatedProfile merges new liked titles into the profile, or just
// fetches it when there is nothing to add.
func (h *Handler) updatedProfile(userID string, likedTitles []string) (*profile.Profile, error) {
	if len(likedTitles) == 0 {
		return h.profiles.Get(userID)
	}
	return h.profiles.AddLikedTitles(userID, likedTitles, h.engine.TitleGenres())
}

// ContentRecommendations handles GET /api/v1/recommendations/content/{title}.
func (h *Handler) ContentRecommendations(w http.ResponseWriter, r *http.Request) {
	// chi leaves path params percent-encoded when the raw path differs
	title := chi.URLParam(r, "title")
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}
	n := h.count(getIntParam(r, "count", 0))

	recs, err := h.engine.ContentRecommend(title, n)
	if err != nil {
		status, code, message := mapDomainError(err)
		respondError(w, r, status, code, message, err)
		return
	}

	respondSuccess(w, r, map[string]interface{}{
		"title":           title,
		"recommendations": recs,
		"count":           len(recs),
	})
}

// CollaborativeRecommendations handles
// GET /api/v1/recommendations/collaborative/{userID}.
// Unknown users get an empty list, not an error.
func (h *Handler) CollaborativeRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	n := h.count(getIntParam(r, "count", 0))

	scored := h.engine.CollaborativeRecommend(userID, n)
	respondSuccess(w, r, map[string]interface{}{
		"user_id": userID,
		"items":   scored,
		"count":   len(scored),
	})
}

// HybridRecommendations handles
// GET /api/v1/recommendations/hybrid/{userID}?title=seed.
func (h *Handler) HybridRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	seedTitle := r.URL.Query().Get("title")
	n := h.count(getIntParam(r, "count", 0))

	recs, err := h.engine.HybridRecommend(userID, seedTitle, n)
	if err != nil {
		status, code, message := mapDomainError(err)
		respondError(w, r, status, code, message, err)
		return
	}

	respondSuccess(w, r, map[string]interface{}{
		"user_id":         userID,
		"seed_title":      seedTitle,
		"recommendations": recs,
		"count":           len(recs),
	})
}

// GetProfile handles GET /api/v1/users/{userID}/profile.
// First access creates a default profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	prof, err := h.profiles.Get(userID)
	if err != nil {
		status, code, message := mapDomainError(err)
		respondError(w, r, status, code, message, err)
		return
	}

	respondSuccess(w, r, prof)
}

type rateRequest struct {
	Title  string `json:"title" validate:"required"`
	Rating int    `json:"rating" validate:"rating"`
}

// RateTitle handles POST /api/v1/users/{userID}/ratings.
// On success the response carries the updated profile and a fresh
// personalized list, so clients can refresh in one call.
func (h *Handler) RateTitle(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req rateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	prof, err := h.profiles.AddRating(userID, req.Title, req.Rating, h.engine.TitleGenres())
	if err != nil {
		status, code, message := mapDomainError(err)
		respondError(w, r, status, code, message, err)
		return
	}

	recs := h.engine.RecommendForUser(prof.LikedTitles, prof.GenrePreferences, h.cfg.Recommend.DefaultCount)
	respondSuccess(w, r, map[string]interface{}{
		"profile":         prof,
		"recommendations": recs,
	})
}

type watchRequest struct {
	Title string `json:"title" validate:"required"`
}

// AddWatchEvent handles POST /api/v1/users/{userID}/watch.
// Idempotent on title: re-watching never duplicates history.
func (h *Handler) AddWatchEvent(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req watchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	prof, err := h.profiles.AddWatchEvent(userID, req.Title, h.engine.TitleGenres())
	if err != nil {
		status, code, message := mapDomainError(err)
		respondError(w, r, status, code, message, err)
		return
	}

	respondSuccess(w, r, prof)
}

type evaluateRequest struct {
	Recommended []string `json:"recommended" validate:"required"`
	Relevant    []string `json:"relevant" validate:"required"`
	K           int      `json:"k" validate:"min=1,max=100"`
}

// Evaluate handles POST /api/v1/evaluate.
// Offline ranking-quality scoring of a recommended list against a
// relevant set.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result := eval.Evaluate(req.Recommended, req.Relevant, req.K)
	respondSuccess(w, r, map[string]interface{}{
		"k":         req.K,
		"precision": result.Precision,
		"recall":    result.Recall,
		"ndcg":      result.NDCG,
		"ap":        result.AP,
	})
}
