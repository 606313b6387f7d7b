package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spark-service/internal/mocks"
	"spark-service/internal/models"
	"spark-service/internal/repositories"
	"spark-service/internal/ws"
)

func setupBlockRouter(handler *BlockHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/blocks/:user_id", handler.Block)
	r.DELETE("/blocks/:user_id", handler.Unblock)
	r.GET("/blocks", handler.ListBlocked)
	return r
}

func TestBlockSuccess(t *testing.T) {
	blockRepo := new(mocks.BlockRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewBlockHandler(blockRepo, userRepo, ws.NewHub(zap.NewNop()))
	router := setupBlockRouter(handler)

	userRepo.On("GetUser", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()
	blockRepo.On("Block", mock.Anything, 1, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/blocks/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	blockRepo.AssertExpectations(t)
}

func TestBlockTwiceIsIdempotent(t *testing.T) {
	blockRepo := new(mocks.BlockRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewBlockHandler(blockRepo, userRepo, ws.NewHub(zap.NewNop()))
	router := setupBlockRouter(handler)

	userRepo.On("GetUser", mock.Anything, 2).Return(models.User{ID: 2}, nil).Twice()
	blockRepo.On("Block", mock.Anything, 1, 2).Return(nil).Twice()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/blocks/2", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	blockRepo.AssertExpectations(t)
}

func TestBlockSelfRejected(t *testing.T) {
	handler := NewBlockHandler(new(mocks.BlockRepositoryMock), new(mocks.UserRepositoryMock), ws.NewHub(zap.NewNop()))
	router := setupBlockRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/blocks/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlockUnknownUser(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewBlockHandler(new(mocks.BlockRepositoryMock), userRepo, ws.NewHub(zap.NewNop()))
	router := setupBlockRouter(handler)

	userRepo.On("GetUser", mock.Anything, 9).Return(models.User{}, repositories.ErrUserNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/blocks/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlockNotifiesTargetConnection(t *testing.T) {
	blockRepo := new(mocks.BlockRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	hub := ws.NewHub(zap.NewNop())
	handler := NewBlockHandler(blockRepo, userRepo, hub)
	router := setupBlockRouter(handler)

	targetConn := liveConn(t, hub, 2)

	userRepo.On("GetUser", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()
	blockRepo.On("Block", mock.Anything, 1, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/blocks/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.NoError(t, targetConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := targetConn.ReadMessage()
	require.NoError(t, err)
	var event models.LiveEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "blocked", event.Type)
	assert.Equal(t, 1, event.UserID)
}

func TestUnblockSuccess(t *testing.T) {
	blockRepo := new(mocks.BlockRepositoryMock)
	handler := NewBlockHandler(blockRepo, new(mocks.UserRepositoryMock), ws.NewHub(zap.NewNop()))
	router := setupBlockRouter(handler)

	blockRepo.On("Unblock", mock.Anything, 1, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/blocks/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	blockRepo.AssertExpectations(t)
}

func TestListBlocked(t *testing.T) {
	blockRepo := new(mocks.BlockRepositoryMock)
	handler := NewBlockHandler(blockRepo, new(mocks.UserRepositoryMock), ws.NewHub(zap.NewNop()))
	router := setupBlockRouter(handler)

	blockRepo.On("ListBlocked", mock.Anything, 1).Return([]int{2, 5}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Blocked []int `json:"blocked"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []int{2, 5}, resp.Blocked)
}
