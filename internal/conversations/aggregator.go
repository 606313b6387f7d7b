package conversations

import "spark-service/internal/models"

// Summarize projects one ConversationSummary per distinct counterpart out of
// the viewer's message history. Input must be ordered newest-first; the first
// message seen for a counterpart becomes that conversation's last message,
// later ones only contribute to the unread count. Counterparts with a block
// edge in either direction are excluded entirely. The result keeps the
// newest-first order, so the most recently active conversation comes first.
func Summarize(viewerID int, history []models.Message, blocked []int) []models.ConversationSummary {
	blockedSet := make(map[int]struct{}, len(blocked))
	for _, id := range blocked {
		blockedSet[id] = struct{}{}
	}

	index := make(map[int]int)
	summaries := make([]models.ConversationSummary, 0)

	for _, msg := range history {
		peerID := msg.PeerID(viewerID)
		if _, isBlocked := blockedSet[peerID]; isBlocked {
			continue
		}

		pos, seen := index[peerID]
		if !seen {
			pos = len(summaries)
			index[peerID] = pos
			summaries = append(summaries, models.ConversationSummary{
				PeerID:      peerID,
				LastMessage: msg,
			})
		}
		if msg.RecipientID == viewerID && !msg.Read {
			summaries[pos].UnreadCount++
		}
	}

	return summaries
}
