package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"review-trust-engine/internal/config"
	"review-trust-engine/internal/engine"
	"review-trust-engine/internal/models"
)

// Server provides the REST API over the scoring engine
type Server struct {
	engine *engine.Engine
	config *config.Config
	router chi.Router
	mutex  sync.RWMutex
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewServer creates a new API server
func NewServer(eng *engine.Engine, cfg *config.Config) *Server {
	server := &Server{
		engine: eng,
		config: cfg,
		router: chi.NewRouter(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.config.Server.RequestTimeout))

	if s.config.Server.EnableCORS {
		s.router.Use(s.corsMiddleware)
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)

		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analyze/bulk", s.handleAnalyzeBulk)
		r.Post("/risk-factors", s.handleRiskFactors)
		r.Post("/authenticity-factors", s.handleAuthenticityFactors)
		r.Post("/sentiment", s.handleSentiment)
		r.Post("/anomalies", s.handleAnomalies)

		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handleUpdateConfig)
	})
}

// Router returns the configured handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server
func (s *Server) Start() error {
	server := &http.Server{
		Addr:         s.config.Address(),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	log.Printf("Starting API server on %s", s.config.Address())
	return server.ListenAndServe()
}

// Request DTOs. Review text decodes through json.RawMessage so a
// non-string value is rejected as a caller mistake instead of scored.

type analyzeRequest struct {
	Text         json.RawMessage         `json:"text"`
	ReviewerData *reviewerProfileRequest `json:"reviewer_data"`
	LocationData *models.LocationProfile `json:"location_data"`
}

type bulkAnalyzeRequest struct {
	Reviews      []analyzeRequest        `json:"reviews"`
	LocationData *models.LocationProfile `json:"location_data"`
}

type anomalyRequest struct {
	TrustTrends []models.TrustTrendPoint `json:"trust_trends"`
}

// reviewerProfileRequest carries optional profile fields; absent fields
// fall back to the documented defaults
type reviewerProfileRequest struct {
	AccountAgeDays    *int                  `json:"account_age_days"`
	ReviewCount       *int                  `json:"review_count"`
	ProfilePhoto      *bool                 `json:"profile_photo"`
	VerifiedEmail     *bool                 `json:"verified_email"`
	VerifiedPhone     *bool                 `json:"verified_phone"`
	Bio               *string               `json:"bio"`
	LocationDiversity *float64              `json:"location_diversity"`
	RecentReviews     []models.RecentReview `json:"recent_reviews"`
	SimilarReviewers  []string              `json:"similar_reviewers"`
	IPClusterSize     *int                  `json:"ip_cluster_size"`
}

func (r *reviewerProfileRequest) toProfile() *models.ReviewerProfile {
	if r == nil {
		return nil
	}

	profile := models.DefaultReviewerProfile()
	if r.AccountAgeDays != nil {
		profile.AccountAgeDays = *r.AccountAgeDays
	}
	if r.ReviewCount != nil {
		profile.ReviewCount = *r.ReviewCount
	}
	if r.ProfilePhoto != nil {
		profile.ProfilePhoto = *r.ProfilePhoto
	}
	if r.VerifiedEmail != nil {
		profile.VerifiedEmail = *r.VerifiedEmail
	}
	if r.VerifiedPhone != nil {
		profile.VerifiedPhone = *r.VerifiedPhone
	}
	if r.Bio != nil {
		profile.Bio = *r.Bio
	}
	if r.LocationDiversity != nil {
		profile.LocationDiversity = *r.LocationDiversity
	}
	if r.IPClusterSize != nil {
		profile.IPClusterSize = *r.IPClusterSize
	}
	profile.RecentReviews = r.RecentReviews
	profile.SimilarReviewers = r.SimilarReviewers

	return &profile
}

// decodeText rejects anything other than a JSON string
func decodeText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", engine.NewValidationError("review text is required")
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", engine.NewValidationError("review text must be a string")
	}
	return text, nil
}

// Handler methods

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := APIResponse{
		Success:   true,
		Data:      map[string]string{"status": "healthy", "version": s.config.App.Version},
		Timestamp: time.Now(),
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	stats := s.engine.GetStats()
	s.mutex.RUnlock()

	response := APIResponse{
		Success:   true,
		Data:      stats,
		Timestamp: time.Now(),
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	text, err := decodeText(req.Text)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mutex.RLock()
	eng := s.engine
	s.mutex.RUnlock()

	assessment, err := eng.AnalyzeReview(r.Context(), text, req.ReviewerData.toProfile(), req.LocationData)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      assessment,
		Timestamp: time.Now(),
	})
}

func (s *Server) handleAnalyzeBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	reviews := make([]models.Review, 0, len(req.Reviews))
	for i, item := range req.Reviews {
		text, err := decodeText(item.Text)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("review %d: %v", i, err))
			return
		}

		reviews = append(reviews, models.Review{
			Text:     text,
			Reviewer: item.ReviewerData.toProfile(),
			Location: item.LocationData,
		})
	}

	s.mutex.RLock()
	eng := s.engine
	s.mutex.RUnlock()

	result, err := eng.AnalyzeBulkReviews(r.Context(), reviews, req.LocationData)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      result,
		Timestamp: time.Now(),
	})
}

func (s *Server) handleRiskFactors(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	text, err := decodeText(req.Text)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mutex.RLock()
	eng := s.engine
	s.mutex.RUnlock()

	factors, err := eng.GetRiskFactors(text, req.ReviewerData.toProfile())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      factors,
		Timestamp: time.Now(),
	})
}

func (s *Server) handleAuthenticityFactors(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	text, err := decodeText(req.Text)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mutex.RLock()
	eng := s.engine
	s.mutex.RUnlock()

	factors, err := eng.GetAuthenticityFactors(r.Context(), text)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      factors,
		Timestamp: time.Now(),
	})
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	text, err := decodeText(req.Text)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mutex.RLock()
	eng := s.engine
	s.mutex.RUnlock()

	breakdown := eng.GetSentimentBreakdown(r.Context(), text)

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      breakdown,
		Timestamp: time.Now(),
	})
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	var req anomalyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	s.mutex.RLock()
	eng := s.engine
	s.mutex.RUnlock()

	anomalies := eng.DetectAnomalies(req.TrustTrends)

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      map[string]interface{}{"anomalies": anomalies, "count": len(anomalies)},
		Timestamp: time.Now(),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	engineConfig := s.config.GetEngineConfig()
	s.mutex.RUnlock()

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      engineConfig,
		Timestamp: time.Now(),
	})
}

// handleUpdateConfig swaps in a new engine built from the submitted
// configuration. The old engine keeps serving in-flight requests until
// its pool drains.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var newConfig engine.Config
	if err := json.NewDecoder(r.Body).Decode(&newConfig); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.config.UpdateEngineConfig(newConfig); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	oldEngine := s.engine
	s.engine = engine.NewEngine(newConfig)
	go oldEngine.Close()

	log.Printf("engine configuration updated: %s", s.config.String())

	s.writeJSON(w, http.StatusOK, APIResponse{
		Success:   true,
		Data:      newConfig,
		Timestamp: time.Now(),
	})
}

// Middleware and utilities

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var validationErr *engine.ValidationError
	if errors.As(err, &validationErr) {
		s.writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
