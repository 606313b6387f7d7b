package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spark-service/internal/models"
)

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, senderID, recipientID int, text, imageURL *string) (models.Message, error) {
	args := m.Called(ctx, senderID, recipientID, text, imageURL)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListBetween(ctx context.Context, userA, userB int) ([]models.Message, error) {
	args := m.Called(ctx, userA, userB)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, viewerID, peerID int) error {
	args := m.Called(ctx, viewerID, peerID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteMessage(ctx context.Context, messageID, requesterID int) error {
	args := m.Called(ctx, messageID, requesterID)
	return args.Error(0)
}

type BlockRepositoryMock struct {
	mock.Mock
}

func (m *BlockRepositoryMock) Block(ctx context.Context, blockerID, blockedID int) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *BlockRepositoryMock) Unblock(ctx context.Context, blockerID, blockedID int) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *BlockRepositoryMock) IsBlocked(ctx context.Context, userA, userB int) (bool, error) {
	args := m.Called(ctx, userA, userB)
	return args.Bool(0), args.Error(1)
}

func (m *BlockRepositoryMock) ListBlocked(ctx context.Context, blockerID int) ([]int, error) {
	args := m.Called(ctx, blockerID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

func (m *BlockRepositoryMock) ListBlockedEitherWay(ctx context.Context, userID int) ([]int, error) {
	args := m.Called(ctx, userID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUsers(ctx context.Context, userIDs []int) ([]models.User, error) {
	args := m.Called(ctx, userIDs)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) AddFavorite(ctx context.Context, userID, favoriteID int) error {
	args := m.Called(ctx, userID, favoriteID)
	return args.Error(0)
}

func (m *UserRepositoryMock) RemoveFavorite(ctx context.Context, userID, favoriteID int) error {
	args := m.Called(ctx, userID, favoriteID)
	return args.Error(0)
}

func (m *UserRepositoryMock) ListFavorites(ctx context.Context, userID int) ([]int, error) {
	args := m.Called(ctx, userID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}
