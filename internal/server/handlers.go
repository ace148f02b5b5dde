package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/profile-agent/internal/builder"
	"github.com/jonathan/profile-agent/internal/extraction"
	"github.com/jonathan/profile-agent/internal/types"
	"github.com/jonathan/profile-agent/internal/updatelog"
)

// ExtractRequest represents the request body for /extract
type ExtractRequest struct {
	PortfolioURL string `json:"portfolio_url" validate:"required"`
	UseCache     bool   `json:"use_cache"`
	ForceRefresh bool   `json:"force_refresh"`
}

// ExtractResponse represents the response for /extract
type ExtractResponse struct {
	Success   bool                 `json:"success"`
	Data      *types.PortfolioData `json:"data"`
	Message   string               `json:"message"`
	Timestamp string               `json:"timestamp"`
}

// BuildProfileRequest represents the request body for /build_profile
type BuildProfileRequest struct {
	Platform      string               `json:"platform" validate:"required"`
	PortfolioData *types.PortfolioData `json:"portfolio_data" validate:"required"`
	Credentials   *types.Credentials   `json:"credentials" validate:"-"`
}

// BuildLinkedInRequest represents the request body for /build_linkedin_profile
type BuildLinkedInRequest struct {
	PortfolioData *types.PortfolioData `json:"portfolio_data" validate:"required"`
	Credentials   *types.Credentials   `json:"credentials" validate:"-"`
	// Headless defaults to true when omitted.
	Headless *bool `json:"headless"`
}

// BuildResponse represents the response for both build endpoints
type BuildResponse struct {
	Success bool            `json:"success"`
	Result  *builder.Result `json:"result"`
}

// StatusResponse represents the response for /status
type StatusResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model,omitempty"`
	Message string `json:"message,omitempty"`
}

// Model host states reported by /status.
const (
	ModelReady    = "ready"
	ModelNotFound = "model_not_found"
	ModelError    = "error"
)

var validate = validator.New()

// decodeAndValidate decodes the JSON body into req and validates it. A
// validation failure is reported with message as the client-facing text.
func decodeAndValidate(r *http.Request, req any, message string) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return &ErrValidation{Field: "body", Message: "Invalid request body: " + err.Error()}
	}
	if err := validate.Struct(req); err != nil {
		field := "request"
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field = verrs[0].Field()
		}
		return &ErrValidation{Field: field, Message: message}
	}
	return nil
}

// handleExtract extracts portfolio data from the requested URL
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := decodeAndValidate(r, &req, "Portfolio URL is required"); err != nil {
		s.errorResponse(w, HTTPStatus(err), errorMessage(err))
		return
	}

	result, err := s.extractor.Extract(r.Context(), extraction.Request{
		URL:          req.PortfolioURL,
		UseCache:     req.UseCache && !req.ForceRefresh,
		ForceRefresh: req.ForceRefresh,
	})
	if err != nil {
		s.logger.Printf("[HTTP] extraction of %s failed: %v", req.PortfolioURL, err)
		s.errorResponse(w, HTTPStatus(err), errorMessage(err))
		return
	}

	message := "Fresh data extracted"
	if result.FromCache {
		message = "Cached data retrieved"
	}
	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		Success:   true,
		Data:      result.Data,
		Message:   message,
		Timestamp: result.Data.LastUpdated,
	})
}

// handleBuildProfile builds a profile on the requested platform
func (s *Server) handleBuildProfile(w http.ResponseWriter, r *http.Request) {
	var req BuildProfileRequest
	if err := decodeAndValidate(r, &req, "Platform and portfolio data are required"); err != nil {
		s.errorResponse(w, HTTPStatus(err), errorMessage(err))
		return
	}

	result, err := s.builder.Build(r.Context(), types.ParsePlatform(req.Platform), req.PortfolioData, req.Credentials)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), errorMessage(err))
		return
	}
	s.jsonResponse(w, http.StatusOK, BuildResponse{Success: true, Result: result})
}

// handleBuildLinkedIn runs the dedicated LinkedIn flow
func (s *Server) handleBuildLinkedIn(w http.ResponseWriter, r *http.Request) {
	var req BuildLinkedInRequest
	if err := decodeAndValidate(r, &req, "Portfolio data is required"); err != nil {
		s.errorResponse(w, HTTPStatus(err), errorMessage(err))
		return
	}

	headless := true
	if req.Headless != nil {
		headless = *req.Headless
	}

	result, err := s.builder.BuildLinkedIn(r.Context(), req.PortfolioData, req.Credentials, headless)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), errorMessage(err))
		return
	}
	s.jsonResponse(w, http.StatusOK, BuildResponse{Success: true, Result: result})
}

// handlePlatforms lists the known platforms, marking those the builder can write
func (s *Server) handlePlatforms(w http.ResponseWriter, _ *http.Request) {
	platforms := types.SupportedPlatforms()
	for i := range platforms {
		platforms[i].Supported = s.builder.Supports(platforms[i].ID)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"platforms": platforms})
}

// handleStatus probes the model host. Probe failures are reported in the body.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), statusTimeout)
	defer cancel()
	s.jsonResponse(w, http.StatusOK, ProbeModel(ctx, s.model))
}

// ProbeModel reports whether probe's model is available.
func ProbeModel(ctx context.Context, probe ModelProbe) StatusResponse {
	ok, err := probe.HasModel(ctx)
	switch {
	case err != nil:
		return StatusResponse{Status: ModelError, Message: err.Error()}
	case !ok:
		return StatusResponse{Status: ModelNotFound, Message: probe.Model() + " model not found"}
	default:
		return StatusResponse{Status: ModelReady, Model: probe.Model()}
	}
}

// handleLogs returns recent update log entries
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := updatelog.DefaultLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	var platform types.Platform
	if raw := strings.TrimSpace(query.Get("platform")); raw != "" {
		platform = types.ParsePlatform(raw)
	}

	logs, err := s.logs.GetRecentLogs(platform, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"logs": logs})
}
