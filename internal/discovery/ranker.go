package discovery

import (
	"sort"

	"spark-service/internal/geo"
	"spark-service/internal/models"
)

// Entry is one ranked discovery result.
type Entry struct {
	User           models.User
	DistanceMeters *int
}

// Rank orders the user set for the viewer: the viewer's own entry (when the
// caller chose to include it) is pinned first, everyone with a block edge in
// either direction is excluded, and the rest sort ascending by distance from
// the viewer with unknown distances last.
func Rank(viewer models.User, users []models.User, blocked []int) []Entry {
	blockedSet := make(map[int]struct{}, len(blocked))
	for _, id := range blocked {
		blockedSet[id] = struct{}{}
	}

	var self *Entry
	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		if u.ID == viewer.ID {
			self = &Entry{User: u, DistanceMeters: geo.Distance(viewer.Latitude, viewer.Longitude, u.Latitude, u.Longitude)}
			continue
		}
		if _, isBlocked := blockedSet[u.ID]; isBlocked {
			continue
		}
		entries = append(entries, Entry{
			User:           u,
			DistanceMeters: geo.Distance(viewer.Latitude, viewer.Longitude, u.Latitude, u.Longitude),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].DistanceMeters, entries[j].DistanceMeters
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	if self != nil {
		entries = append([]Entry{*self}, entries...)
	}
	return entries
}

// Unranked wraps the raw user set for guest callers, who have no coordinates
// and no block list to rank or filter by.
func Unranked(users []models.User) []Entry {
	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		entries = append(entries, Entry{User: u})
	}
	return entries
}
