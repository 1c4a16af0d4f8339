package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greencity/waste-pickup/internal/audit"
	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/lifecycle"
	"github.com/greencity/waste-pickup/internal/middleware"
	"github.com/greencity/waste-pickup/internal/models"
)

// MockPickupCollection is a mock implementation of PickupCollection
type MockPickupCollection struct {
	mock.Mock
}

func (m *MockPickupCollection) InsertPickup(ctx context.Context, pickup models.PickupRequest) (*models.PickupRequest, error) {
	args := m.Called(ctx, pickup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PickupRequest), args.Error(1)
}

func (m *MockPickupCollection) FindPickupByID(ctx context.Context, id string) (*models.PickupRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PickupRequest), args.Error(1)
}

func (m *MockPickupCollection) FindPickups(ctx context.Context, filter db.PickupFilter) ([]models.PickupRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PickupRequest), args.Error(1)
}

func (m *MockPickupCollection) ApplyTransition(ctx context.Context, id string, expectedStatus models.Status, pickup models.PickupRequest) error {
	args := m.Called(ctx, id, expectedStatus, pickup)
	return args.Error(0)
}

// MockAuditCollection is a mock implementation of AuditCollection
type MockAuditCollection struct {
	mock.Mock
}

func (m *MockAuditCollection) InsertEntry(ctx context.Context, entry models.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditCollection) FindEntries(ctx context.Context, page int64) ([]models.AuditLogEntry, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLogEntry), args.Error(1)
}

func (m *MockAuditCollection) CountEntries(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserCollection is a mock implementation of UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func adminClaims() *models.Claims {
	return &models.Claims{
		UserID: primitive.NewObjectID().Hex(),
		Name:   "Priya Nair",
		Role:   models.RoleAdmin,
	}
}

func withClaims(req *http.Request, claims *models.Claims) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)
	return req.WithContext(ctx)
}

func pendingPickup() *models.PickupRequest {
	return &models.PickupRequest{
		ID:            primitive.NewObjectID(),
		UserID:        primitive.NewObjectID(),
		UserName:      "Jordan Reyes",
		Email:         "jordan@example.com",
		WasteType:     models.WasteDry,
		Address:       "12 Elm Street",
		ScheduledDate: time.Now().Add(24 * time.Hour),
		Status:        models.StatusPending,
		Timeline: []models.TimelineEntry{
			{Status: models.StatusPending, ChangedBy: "Jordan Reyes", Date: time.Now(), Remark: "Request created"},
		},
	}
}

func newAdminHandler(pickups *MockPickupCollection, auditStore *MockAuditCollection) *AdminPickupHandler {
	users := new(MockUserCollection)
	recorder := audit.NewRecorder(auditStore, users)
	svc := lifecycle.NewService(pickups, recorder)
	return NewAdminPickupHandler(svc, pickups)
}

func TestAdminPickupHandler_UpdateStatus(t *testing.T) {
	t.Run("approves a pending pickup and audits it", func(t *testing.T) {
		mockPickups := new(MockPickupCollection)
		mockAudit := new(MockAuditCollection)
		handler := newAdminHandler(mockPickups, mockAudit)

		pickup := pendingPickup()
		id := pickup.ID.Hex()
		mockPickups.On("FindPickupByID", mock.Anything, id).Return(pickup, nil)
		mockPickups.On("ApplyTransition", mock.Anything, id, models.StatusPending, mock.AnythingOfType("models.PickupRequest")).Return(nil)
		mockAudit.On("InsertEntry", mock.Anything, mock.AnythingOfType("models.AuditLogEntry")).Return(nil)

		body, _ := json.Marshal(map[string]interface{}{
			"status":         "approved",
			"driver_details": map[string]string{"name": "Sam Okafor", "contact": "555-0101"},
		})
		req := withClaims(httptest.NewRequest("PATCH", "/api/admin/pickups/"+id+"/status", bytes.NewBuffer(body)), adminClaims())
		req = mux.SetURLVars(req, map[string]string{"id": id})
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Success bool                  `json:"success"`
			Pickup  models.PickupRequest  `json:"pickup"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, models.StatusApproved, response.Pickup.Status)
		assert.Len(t, response.Pickup.Timeline, 2)

		mockPickups.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("rejects pending to completed with ILLEGAL_TRANSITION", func(t *testing.T) {
		mockPickups := new(MockPickupCollection)
		mockAudit := new(MockAuditCollection)
		handler := newAdminHandler(mockPickups, mockAudit)

		pickup := pendingPickup()
		id := pickup.ID.Hex()
		mockPickups.On("FindPickupByID", mock.Anything, id).Return(pickup, nil)

		body, _ := json.Marshal(map[string]interface{}{"status": "completed", "waste_collected": 12})
		req := withClaims(httptest.NewRequest("PATCH", "/api/admin/pickups/"+id+"/status", bytes.NewBuffer(body)), adminClaims())
		req = mux.SetURLVars(req, map[string]string{"id": id})
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "ILLEGAL_TRANSITION", response["code"])
		mockAudit.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
	})

	t.Run("maps a lost race to 409 CONCURRENT_MODIFICATION", func(t *testing.T) {
		mockPickups := new(MockPickupCollection)
		mockAudit := new(MockAuditCollection)
		handler := newAdminHandler(mockPickups, mockAudit)

		pickup := pendingPickup()
		id := pickup.ID.Hex()
		mockPickups.On("FindPickupByID", mock.Anything, id).Return(pickup, nil)
		mockPickups.On("ApplyTransition", mock.Anything, id, models.StatusPending, mock.AnythingOfType("models.PickupRequest")).
			Return(db.ErrConcurrentModification)

		body, _ := json.Marshal(map[string]interface{}{
			"status":         "approved",
			"driver_details": map[string]string{"name": "Sam Okafor"},
		})
		req := withClaims(httptest.NewRequest("PATCH", "/api/admin/pickups/"+id+"/status", bytes.NewBuffer(body)), adminClaims())
		req = mux.SetURLVars(req, map[string]string{"id": id})
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "CONCURRENT_MODIFICATION", response["code"])
		mockAudit.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
	})

	t.Run("unknown pickup is 404", func(t *testing.T) {
		mockPickups := new(MockPickupCollection)
		mockAudit := new(MockAuditCollection)
		handler := newAdminHandler(mockPickups, mockAudit)

		id := primitive.NewObjectID().Hex()
		mockPickups.On("FindPickupByID", mock.Anything, id).Return(nil, db.ErrPickupNotFound)

		body, _ := json.Marshal(map[string]interface{}{"status": "approved", "driver_details": map[string]string{"name": "Sam"}})
		req := withClaims(httptest.NewRequest("PATCH", "/api/admin/pickups/"+id+"/status", bytes.NewBuffer(body)), adminClaims())
		req = mux.SetURLVars(req, map[string]string{"id": id})
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminPickupHandler_List(t *testing.T) {
	mockPickups := new(MockPickupCollection)
	handler := newAdminHandler(mockPickups, new(MockAuditCollection))

	expected := db.PickupFilter{Status: models.StatusPending, Search: "elm"}
	mockPickups.On("FindPickups", mock.Anything, expected).Return([]models.PickupRequest{*pendingPickup()}, nil)

	req := withClaims(httptest.NewRequest("GET", "/api/admin/pickups?status=Pending&search=elm", nil), adminClaims())
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var pickups []models.PickupRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pickups))
	assert.Len(t, pickups, 1)
	mockPickups.AssertExpectations(t)
}

func TestPickupHandler_CancelAsOwner(t *testing.T) {
	mockPickups := new(MockPickupCollection)
	mockAudit := new(MockAuditCollection)
	mockUsers := new(MockUserCollection)
	recorder := audit.NewRecorder(mockAudit, mockUsers)
	svc := lifecycle.NewService(mockPickups, recorder)
	handler := NewPickupHandler(svc, mockPickups, mockUsers)

	pickup := pendingPickup()
	id := pickup.ID.Hex()
	claims := &models.Claims{UserID: pickup.UserID.Hex(), Name: "Jordan Reyes", Role: models.RoleResident}

	mockPickups.On("FindPickupByID", mock.Anything, id).Return(pickup, nil)
	mockPickups.On("ApplyTransition", mock.Anything, id, models.StatusPending, mock.AnythingOfType("models.PickupRequest")).Return(nil)

	req := withClaims(httptest.NewRequest("PATCH", "/api/pickups/"+id+"/cancel", nil), claims)
	req = mux.SetURLVars(req, map[string]string{"id": id})
	w := httptest.NewRecorder()

	handler.Cancel(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                 `json:"success"`
		Pickup  models.PickupRequest `json:"pickup"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, models.StatusCancelled, response.Pickup.Status)
	assert.Equal(t, "Cancelled by Resident", response.Pickup.AdminRemark)
	// No audit entry for resident-initiated cancellation.
	mockAudit.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
	mockPickups.AssertExpectations(t)
}
