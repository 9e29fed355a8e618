package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskpro/taskpro-backend/internal/config"
	"github.com/taskpro/taskpro-backend/internal/db"
	"github.com/taskpro/taskpro-backend/internal/server/middleware"
	"github.com/taskpro/taskpro-backend/internal/types"
)

type fakeWorkerStore struct {
	creds     *db.WorkerCredentials
	lookupErr error
	updateErr error

	updatedID   int64
	updatedWith string
}

func (s *fakeWorkerStore) GetWorkerCredentials(ctx context.Context, document string) (*db.WorkerCredentials, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if s.creds != nil && s.creds.Document == document {
		return s.creds, nil
	}
	return nil, nil
}

func (s *fakeWorkerStore) UpdateWorkerAvailability(ctx context.Context, workerID int64, availability string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedID = workerID
	s.updatedWith = availability
	return nil
}

func testPasswordConfig(t *testing.T) *config.PasswordConfig {
	t.Helper()
	// Minimum allowed cost keeps the hashing fast in tests
	return &config.PasswordConfig{BcryptCost: 10}
}

func newTestAuthHandler(t *testing.T, store *fakeWorkerStore) *AuthHandler {
	t.Helper()
	return NewAuthHandler(store, testPasswordConfig(t), testJWTService(), zap.NewNop())
}

func loginBody(t *testing.T, document, password string) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(types.WorkerLoginRequest{Document: document, Password: password})
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestLogin_Success(t *testing.T) {
	pw := testPasswordConfig(t)
	hash, err := pw.HashPassword("secret-password")
	require.NoError(t, err)

	store := &fakeWorkerStore{creds: &db.WorkerCredentials{
		ID:           10,
		Name:         "Carlos Pérez",
		Document:     "1030567890",
		PasswordHash: hash,
	}}
	h := newTestAuthHandler(t, store)

	req := httptest.NewRequest("POST", "/auth/login", loginBody(t, "1030567890", "secret-password"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.WorkerLoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.Worker.ID)
	assert.Equal(t, "Carlos Pérez", resp.Worker.Name)
	require.NotEmpty(t, resp.Token)

	// The issued token must round-trip through the validator
	claims, err := testJWTService().ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(10), claims.GetWorkerID())
}

func TestLogin_WrongPassword(t *testing.T) {
	pw := testPasswordConfig(t)
	hash, err := pw.HashPassword("secret-password")
	require.NoError(t, err)

	store := &fakeWorkerStore{creds: &db.WorkerCredentials{
		ID: 10, Document: "1030567890", PasswordHash: hash,
	}}
	h := newTestAuthHandler(t, store)

	req := httptest.NewRequest("POST", "/auth/login", loginBody(t, "1030567890", "wrong"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownDocument(t *testing.T) {
	h := newTestAuthHandler(t, &fakeWorkerStore{})

	req := httptest.NewRequest("POST", "/auth/login", loginBody(t, "9999999999", "whatever"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	// Indistinguishable from a wrong password
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_Validation(t *testing.T) {
	h := newTestAuthHandler(t, &fakeWorkerStore{})

	tests := []struct {
		name     string
		document string
		password string
	}{
		{name: "empty document", document: "", password: "secret"},
		{name: "short document", document: "123", password: "secret"},
		{name: "empty password", document: "1030567890", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth/login", loginBody(t, tt.document, tt.password))
			rec := httptest.NewRecorder()
			h.Login(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	h := newTestAuthHandler(t, &fakeWorkerStore{lookupErr: fmt.Errorf("connection refused")})

	req := httptest.NewRequest("POST", "/auth/login", loginBody(t, "1030567890", "secret"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func availabilityRequest(t *testing.T, workerID int64, availability string) *http.Request {
	t.Helper()
	data, err := json.Marshal(types.UpdateAvailabilityRequest{Availability: availability})
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/workers/availability", bytes.NewReader(data))
	ctx := context.WithValue(req.Context(), middleware.WorkerIDKey(), workerID)
	return req.WithContext(ctx)
}

func TestUpdateAvailability(t *testing.T) {
	store := &fakeWorkerStore{}
	h := newTestAuthHandler(t, store)

	rec := httptest.NewRecorder()
	h.UpdateAvailability(rec, availabilityRequest(t, 10, "unavailable"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(10), store.updatedID)
	assert.Equal(t, "unavailable", store.updatedWith)
}

func TestUpdateAvailability_UnknownState(t *testing.T) {
	h := newTestAuthHandler(t, &fakeWorkerStore{})

	rec := httptest.NewRecorder()
	h.UpdateAvailability(rec, availabilityRequest(t, 10, "vacationing"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAvailability_NoAuthContext(t *testing.T) {
	h := newTestAuthHandler(t, &fakeWorkerStore{})

	data, err := json.Marshal(types.UpdateAvailabilityRequest{Availability: "available"})
	require.NoError(t, err)
	req := httptest.NewRequest("PUT", "/workers/availability", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.UpdateAvailability(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateAvailability_StoreFailure(t *testing.T) {
	h := newTestAuthHandler(t, &fakeWorkerStore{updateErr: fmt.Errorf("worker 10 not found")})

	rec := httptest.NewRecorder()
	h.UpdateAvailability(rec, availabilityRequest(t, 10, "available"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
