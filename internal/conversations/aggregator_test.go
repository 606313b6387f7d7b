package conversations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spark-service/internal/models"
)

func text(s string) *string { return &s }

func msg(id, sender, recipient int, body string, read bool, age time.Duration) models.Message {
	return models.Message{
		ID:          id,
		SenderID:    sender,
		RecipientID: recipient,
		Text:        text(body),
		Read:        read,
		CreatedAt:   time.Now().Add(-age),
	}
}

func TestSummarizeOnePerPeer(t *testing.T) {
	// Newest first: viewer 1 talked to 2 and 3.
	history := []models.Message{
		msg(5, 2, 1, "latest from 2", false, time.Minute),
		msg(4, 1, 3, "to 3", false, 2*time.Minute),
		msg(3, 2, 1, "older from 2", false, 3*time.Minute),
		msg(2, 3, 1, "from 3", true, 4*time.Minute),
		msg(1, 1, 2, "first to 2", false, 5*time.Minute),
	}

	summaries := Summarize(1, history, nil)
	require.Len(t, summaries, 2)

	assert.Equal(t, 2, summaries[0].PeerID)
	assert.Equal(t, 5, summaries[0].LastMessage.ID)
	assert.Equal(t, 2, summaries[0].UnreadCount)

	assert.Equal(t, 3, summaries[1].PeerID)
	assert.Equal(t, 4, summaries[1].LastMessage.ID)
	assert.Equal(t, 0, summaries[1].UnreadCount)
}

func TestSummarizeExcludesBlockedPeer(t *testing.T) {
	history := []models.Message{
		msg(2, 2, 1, "hi", false, time.Minute),
		msg(1, 1, 3, "hey", false, 2*time.Minute),
	}

	summaries := Summarize(1, history, []int{2})
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].PeerID)
}

func TestSummarizeUnreadOnlyCountsIncoming(t *testing.T) {
	history := []models.Message{
		msg(3, 1, 2, "mine, never unread for me", false, time.Minute),
		msg(2, 2, 1, "unread", false, 2*time.Minute),
		msg(1, 2, 1, "already read", true, 3*time.Minute),
	}

	summaries := Summarize(1, history, nil)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].UnreadCount)
	assert.Equal(t, 3, summaries[0].LastMessage.ID)
}

func TestSummarizeEmptyHistory(t *testing.T) {
	assert.Empty(t, Summarize(1, nil, nil))
}
