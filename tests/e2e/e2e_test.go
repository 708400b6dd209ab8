package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hotelreserve/internal/database"
	"hotelreserve/internal/middleware"
	"hotelreserve/internal/modules/auth"
	"hotelreserve/internal/modules/catalog"
	"hotelreserve/internal/modules/feed"
	"hotelreserve/internal/modules/reservation"
	jwtsvc "hotelreserve/internal/pkg/jwt"
	"hotelreserve/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
	hub    *feed.Hub
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database shared across the pool
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.AutoMigrate(db))

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	hub := feed.NewHub()
	t.Cleanup(hub.Close)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	catalogHandler := catalog.NewHandler(catalog.NewService(roomRepo))
	reservationHandler := reservation.NewHandler(reservation.NewService(reservationRepo, roomRepo, hub))
	feedHandler := feed.NewHandler(hub)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		catalogHandler.RegisterRoutes(protected)
		reservationHandler.RegisterRoutes(protected)
		feedHandler.RegisterRoutes(protected)
	}

	return &E2ETestSuite{router: r, db: db, hub: hub}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyBytes []byte
	var err error

	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w, nil
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()

	var resp TestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	}
	return &resp
}

// register creates a user through the API and returns a login token.
func (s *E2ETestSuite) register(t *testing.T, username, password string) string {
	t.Helper()

	w, err := s.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
		"username":         username,
		"password":         password,
		"confirm_password": password,
	}, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())

	w, err = s.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
		"username": username,
		"password": password,
	}, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(t, w)
	token, ok := resp.Data["access_token"].(string)
	require.True(t, ok, "login response has no access_token")
	return token
}

func (s *E2ETestSuite) addRoom(t *testing.T, token, number, roomType string) int64 {
	t.Helper()

	w, err := s.makeRequest("POST", "/api/v1/rooms", map[string]interface{}{
		"number": number,
		"type":   roomType,
	}, token)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, w.Code, "room creation failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	idVal, ok := resp.Data["id"].(float64)
	require.True(t, ok, "room creation returned no ID")
	return int64(idVal)
}

func TestFlow_RegistrationAndAuth(t *testing.T) {
	suite := setupTestSuite(t)

	t.Run("POST /auth/register", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"username":         "guest1",
			"password":         "secret1",
			"confirm_password": "secret1",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, w.Code)

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "guest1", resp.Data["username"])
	})

	t.Run("POST /auth/register duplicate username", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"username":         "guest1",
			"password":         "secret2",
			"confirm_password": "secret2",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "USERNAME_TAKEN", resp.Error.Code)
	})

	t.Run("POST /auth/login wrong password", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"username": "guest1",
			"password": "wrong-password",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	})

	t.Run("GET /auth/me", func(t *testing.T) {
		token := suite.register(t, "guest2", "secret1")

		w, err := suite.makeRequest("GET", "/api/v1/auth/me", nil, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "guest2", resp.Data["username"])
	})

	t.Run("GET /reservations without token", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/reservations", nil, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestFlow_ReserveAndAvailability(t *testing.T) {
	suite := setupTestSuite(t)

	token := suite.register(t, "guest1", "secret1")
	roomID := suite.addRoom(t, token, "S-1", "single")
	suite.addRoom(t, token, "S-2", "single")

	t.Run("POST /reservations", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/reservations", map[string]interface{}{
			"room_id":  roomID,
			"checkin":  "2025-12-01",
			"checkout": "2025-12-05",
		}, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data["code"])
		assert.Equal(t, "2025-12-01", resp.Data["checkin"])
		assert.Equal(t, "2025-12-05", resp.Data["checkout"])
	})

	t.Run("GET /rooms/available inside the booked range", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/rooms/available?type=single&checkin=2025-12-02&checkout=2025-12-04", nil, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		rooms, ok := resp.Data["rooms"].([]interface{})
		require.True(t, ok)
		require.Len(t, rooms, 1, "S-1 is booked, only S-2 should remain")
		assert.Equal(t, "S-2", rooms[0].(map[string]interface{})["number"])
	})

	t.Run("GET /rooms/available starting on the checkout day", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/rooms/available?type=single&checkin=2025-12-05&checkout=2025-12-06", nil, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		rooms, ok := resp.Data["rooms"].([]interface{})
		require.True(t, ok)
		assert.Len(t, rooms, 2, "checkout day is exclusive, S-1 is free again")
	})

	t.Run("POST /reservations overlapping range", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/reservations", map[string]interface{}{
			"room_id":  roomID,
			"checkin":  "2025-12-03",
			"checkout": "2025-12-07",
		}, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "DATE_CONFLICT", resp.Error.Code)
	})

	t.Run("POST /reservations adjacent range", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/reservations", map[string]interface{}{
			"room_id":  roomID,
			"checkin":  "2025-12-05",
			"checkout": "2025-12-08",
		}, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("POST /reservations reversed range", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/reservations", map[string]interface{}{
			"room_id":  roomID,
			"checkin":  "2025-12-20",
			"checkout": "2025-12-10",
		}, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_DATE_RANGE", resp.Error.Code)
	})

	t.Run("GET /reservations", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/reservations", nil, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		reservations, ok := resp.Data["reservations"].([]interface{})
		require.True(t, ok)
		assert.Len(t, reservations, 2)
	})
}

func TestFlow_RoomCatalog(t *testing.T) {
	suite := setupTestSuite(t)

	token := suite.register(t, "guest1", "secret1")
	roomID := suite.addRoom(t, token, "S-1", "single")
	suite.addRoom(t, token, "D-1", "double")

	t.Run("POST /rooms duplicate number", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/rooms", map[string]interface{}{
			"number": "S-1",
			"type":   "single",
		}, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusConflict, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ROOM_EXISTS", resp.Error.Code)
	})

	t.Run("POST /rooms unknown type", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/rooms", map[string]interface{}{
			"number": "P-1",
			"type":   "penthouse",
		}, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_ROOM_TYPE", resp.Error.Code)
	})

	t.Run("GET /rooms filtered by type", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/rooms?type=double", nil, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		rooms, ok := resp.Data["rooms"].([]interface{})
		require.True(t, ok)
		require.Len(t, rooms, 1)
		assert.Equal(t, "D-1", rooms[0].(map[string]interface{})["number"])
	})

	t.Run("PATCH /rooms/:id/availability", func(t *testing.T) {
		w, err := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/rooms/%d/availability", roomID), map[string]interface{}{
			"available": false,
		}, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.Equal(t, false, resp.Data["available"])
	})

	t.Run("POST /reservations for out-of-service room", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/reservations", map[string]interface{}{
			"room_id":  roomID,
			"checkin":  "2025-12-01",
			"checkout": "2025-12-05",
		}, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ROOM_UNAVAILABLE", resp.Error.Code)
	})

	t.Run("GET /rooms/available degraded mode", func(t *testing.T) {
		// no dates: falls back to in-service rooms, S-1 is now out of service
		w, err := suite.makeRequest("GET", "/api/v1/rooms/available", nil, token)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		rooms, ok := resp.Data["rooms"].([]interface{})
		require.True(t, ok)
		require.Len(t, rooms, 1)
		assert.Equal(t, "D-1", rooms[0].(map[string]interface{})["number"])
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
