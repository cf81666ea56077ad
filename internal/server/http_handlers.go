package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"resumescreen/internal/ai"
	appErrors "resumescreen/internal/errors"
)

const defaultHealthCheckTimeout = 10 * time.Second

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if s.AppConfig == nil || s.AppConfig.Observability.HealthCheck.Timeout <= 0 {
		return defaultHealthCheckTimeout
	}
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler reports the catalog and the AI model of every operation.
// Screening works without AI, so an unavailable model degrades the status
// without failing the check.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.getHealthCheckTimeout())
	defer cancel()

	aiStatus := s.App.ModelStatus(ctx)
	response := map[string]any{
		"status":    "healthy",
		"service":   "resumescreen",
		"version":   s.Version,
		"ai_models": aiStatus,
	}

	if store := s.App.Catalog(); store != nil {
		current := store.Current()
		response["catalog"] = map[string]any{
			"file":       store.Path(),
			"skills":     len(current.Skills),
			"role_rules": len(current.SkillRoles),
			"watching":   s.catalogWatcher != nil && s.catalogWatcher.IsRunning(),
		}
	}

	if !modelsAvailable(aiStatus) {
		response["status"] = "degraded"
	}

	writeJSON(w, http.StatusOK, response)
}

func modelsAvailable(status map[string]any) bool {
	for _, v := range status {
		switch info := v.(type) {
		case *ai.ModelInfo:
			if !info.Available {
				return false
			}
		case map[string]any:
			if avail, ok := info["available"].(bool); ok && !avail {
				return false
			}
		}
	}
	return true
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumescreen",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"tls_enabled":            s.TLSConfig.Enabled(),
		},
		"circuit_breakers": s.App.AIStats(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
			"content-type must be application/json", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return maxBytesErr
		}
		return appErrors.NewIOError(appErrors.ErrCodeFileNotReadable, "failed to read request body", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "failed to parse JSON", err)
	}
	return nil
}

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}

	switch appErrors.TypeOf(err) {
	case appErrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case appErrors.ErrorTypeExtraction, appErrors.ErrorTypeNoText, appErrors.ErrorTypeIncompleteInput:
		return http.StatusUnprocessableEntity
	case appErrors.ErrorTypeAI, appErrors.ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorType(err error) string {
	if t := appErrors.TypeOf(err); t != "" {
		return string(t)
	}
	return string(appErrors.ErrorTypeInternal)
}

// writeAppError writes err as a standardized error response
func writeAppError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Type:    errorType(err),
		Missing: appErrors.MissingFields(err),
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		response.Message = appErr.Message
		response.Code = appErr.Code
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		response.Type = string(appErrors.ErrorTypeValidation)
		response.Message = fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
	}

	writeResponse(w, status, response)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeResponse(w, statusCode, ErrorResponse{Error: error, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	writeResponse(w, status, v)
}

func writeResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
