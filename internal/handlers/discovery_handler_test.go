package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spark-service/internal/mocks"
	"spark-service/internal/models"
	"spark-service/internal/presence"
)

func setupDiscoveryRouter(handler *DiscoveryHandler, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if authenticated {
		r.Use(func(c *gin.Context) {
			c.Set("userID", 1)
			c.Next()
		})
	}
	r.GET("/discover", handler.Discover)
	return r
}

func coordPtr(v float64) *float64 { return &v }

func discoverIDs(t *testing.T, rec *httptest.ResponseRecorder) []int {
	t.Helper()
	var resp struct {
		Users []models.PublicUser `json:"users"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	ids := make([]int, 0, len(resp.Users))
	for _, u := range resp.Users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestDiscoverRankedForAuthenticatedUser(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	blockRepo := new(mocks.BlockRepositoryMock)
	tracker := presence.NewTracker()
	tracker.MarkOnline(2)
	handler := NewDiscoveryHandler(userRepo, blockRepo, tracker)
	router := setupDiscoveryRouter(handler, true)

	viewer := models.User{ID: 1, Username: "me", Latitude: coordPtr(13.75), Longitude: coordPtr(100.50)}
	users := []models.User{
		viewer,
		{ID: 2, Username: "near", Latitude: coordPtr(13.76), Longitude: coordPtr(100.51)},
		{ID: 3, Username: "nowhere"},
		{ID: 4, Username: "blocked", Latitude: coordPtr(13.75), Longitude: coordPtr(100.50)},
		{ID: 5, Username: "far", Latitude: coordPtr(18.79), Longitude: coordPtr(98.98)},
	}
	userRepo.On("ListUsers", mock.Anything).Return(users, nil).Once()
	userRepo.On("GetUser", mock.Anything, 1).Return(viewer, nil).Once()
	blockRepo.On("ListBlockedEitherWay", mock.Anything, 1).Return([]int{4}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/discover", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Self pinned first, then by distance, unknown distance last, blocked gone.
	assert.Equal(t, []int{1, 2, 5, 3}, discoverIDs(t, rec))
}

func TestDiscoverMarksOnlineUsers(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	blockRepo := new(mocks.BlockRepositoryMock)
	tracker := presence.NewTracker()
	tracker.MarkOnline(2)
	handler := NewDiscoveryHandler(userRepo, blockRepo, tracker)
	router := setupDiscoveryRouter(handler, true)

	viewer := models.User{ID: 1, Username: "me"}
	userRepo.On("ListUsers", mock.Anything).Return([]models.User{viewer, {ID: 2, Username: "on"}, {ID: 3, Username: "off"}}, nil).Once()
	userRepo.On("GetUser", mock.Anything, 1).Return(viewer, nil).Once()
	blockRepo.On("ListBlockedEitherWay", mock.Anything, 1).Return([]int(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/discover", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Users []models.PublicUser `json:"users"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	online := map[int]bool{}
	for _, u := range resp.Users {
		online[u.ID] = u.Online
	}
	assert.True(t, online[2])
	assert.False(t, online[3])
}

func TestDiscoverGuestGetsUnfilteredList(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewDiscoveryHandler(userRepo, new(mocks.BlockRepositoryMock), presence.NewTracker())
	router := setupDiscoveryRouter(handler, false)

	userRepo.On("ListUsers", mock.Anything).Return([]models.User{{ID: 3}, {ID: 1}, {ID: 2}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/discover", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{3, 1, 2}, discoverIDs(t, rec))
}
