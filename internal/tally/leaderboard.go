package tally

import (
	"context"
	"sort"

	"github.com/JosephusPaye/memelord/internal/domain"
)

// Aggregate folds a team's award records into a leaderboard: every member of
// a place group is credited identically, places beyond the third are ignored
// (old records may carry more), and the final order is firsts desc, then
// seconds desc, then thirds desc. Remaining ties keep the order users were
// first seen in the stream, so re-running over an unchanged stream yields
// identical output.
//
// The cursor is closed before returning, on error paths included.
func Aggregate(ctx context.Context, cursor domain.AwardCursor) ([]domain.LeaderboardEntry, error) {
	defer cursor.Close()

	counts := make(map[string]*domain.AwardCounts)
	var order []string

	for {
		record, err := cursor.Next(ctx)
		if err != nil {
			return nil, err
		}
		if record == nil {
			break
		}

		for place, users := range record.Places {
			if place >= maxPlaces {
				break
			}
			for _, user := range users {
				tally := counts[user]
				if tally == nil {
					tally = &domain.AwardCounts{}
					counts[user] = tally
					order = append(order, user)
				}
				switch place {
				case 0:
					tally.Firsts++
				case 1:
					tally.Seconds++
				case 2:
					tally.Thirds++
				}
			}
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(order))
	for _, user := range order {
		entries = append(entries, domain.LeaderboardEntry{UserID: user, AwardCounts: *counts[user]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Firsts != b.Firsts {
			return a.Firsts > b.Firsts
		}
		if a.Seconds != b.Seconds {
			return a.Seconds > b.Seconds
		}
		return a.Thirds > b.Thirds
	})
	return entries, nil
}
