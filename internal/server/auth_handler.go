package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/taskpro/taskpro-backend/internal/config"
	"github.com/taskpro/taskpro-backend/internal/db"
	"github.com/taskpro/taskpro-backend/internal/server/middleware"
	"github.com/taskpro/taskpro-backend/internal/types"
)

// WorkerStore is the subset of the store the auth handler needs.
type WorkerStore interface {
	GetWorkerCredentials(ctx context.Context, document string) (*db.WorkerCredentials, error)
	UpdateWorkerAvailability(ctx context.Context, workerID int64, availability string) error
}

// AuthHandler handles worker authentication and dashboard requests.
type AuthHandler struct {
	workers        WorkerStore
	passwordConfig *config.PasswordConfig
	jwtService     *JWTService
	validator      *validator.Validate
	log            *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(workers WorkerStore, passwordConfig *config.PasswordConfig, jwtService *JWTService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		workers:        workers,
		passwordConfig: passwordConfig,
		jwtService:     jwtService,
		validator:      validator.New(),
		log:            log,
	}
}

// Login authenticates a worker by document number and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.WorkerLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	creds, err := h.workers.GetWorkerCredentials(r.Context(), req.Document)
	if err != nil {
		h.log.Error("credential lookup failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Same response for unknown document and wrong password, so the
	// endpoint cannot be used to enumerate documents.
	if creds == nil || !h.passwordConfig.VerifyPassword(req.Password, creds.PasswordHash) {
		err := &ErrInvalidCredentials{}
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	token, err := h.jwtService.GenerateToken(creds.ID)
	if err != nil {
		h.log.Error("token generation failed", zap.Error(err))
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := types.WorkerLoginResponse{
		Worker: &types.WorkerProfile{
			ID:       creds.ID,
			Name:     creds.Name,
			Document: creds.Document,
		},
		Token: token,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Response already sent
		return
	}
}

// UpdateAvailability sets the authenticated worker's availability token.
func (h *AuthHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	workerID, err := middleware.GetWorkerID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req types.UpdateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	if err := h.workers.UpdateWorkerAvailability(r.Context(), workerID, req.Availability); err != nil {
		h.log.Error("availability update failed", zap.Int64("worker_id", workerID), zap.Error(err))
		http.Error(w, "Failed to update availability", http.StatusInternalServerError)
		return
	}

	response := map[string]string{
		"message": "Availability updated successfully",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		return
	}
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
