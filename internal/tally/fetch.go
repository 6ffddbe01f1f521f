package tally

import (
	"context"
	"strconv"
	"strings"

	"github.com/JosephusPaye/memelord/internal/domain"
)

// RangeFetcher walks the paginated conversation history between a range's
// boundaries into one ordered in-memory sequence of messages.
type RangeFetcher struct {
	history domain.History
}

func NewRangeFetcher(history domain.History) *RangeFetcher {
	return &RangeFetcher{history: history}
}

// Fetch returns every message between the boundary's start divider and either
// its end divider or the present. Pages are requested strictly in sequence:
// each request needs the cursor returned by the previous one.
//
// The start divider is fetched inclusively, so it must appear as the oldest
// entry of the first page; if it doesn't, the divider message was deleted or
// the saved id is stale, and the whole fetch fails. The divider itself and
// the bot's own posts are stripped from the result. Any failed page aborts
// the operation and discards what was accumulated.
func (f *RangeFetcher) Fetch(ctx context.Context, boundary domain.Boundary, channelID, botUserID string) ([]domain.Message, error) {
	page, err := f.history.FetchHistory(ctx, channelID, boundary.Start, true, "")
	if err != nil {
		return nil, err
	}

	n := len(page.Messages)
	if n == 0 || page.Messages[n-1].ID != boundary.Start {
		return nil, domain.ErrStartBoundaryNotFound
	}

	messages := append([]domain.Message(nil), page.Messages[:n-1]...)

	for page.HasMore {
		page, err = f.history.FetchHistory(ctx, channelID, boundary.Start, true, page.NextCursor)
		if err != nil {
			return nil, err
		}
		messages = append(messages, page.Messages...)
	}

	// The history API has no two-sided range query for cursor pagination, so
	// an end divider is enforced by filtering the accumulated sequence. The
	// over-fetch of messages newer than the end is accepted.
	if boundary.HasEnd() {
		messages = dropNewerThan(messages, boundary.End)
	}

	kept := messages[:0]
	for _, m := range messages {
		if m.AuthorID != botUserID {
			kept = append(kept, m)
		}
	}
	return kept, nil
}

func dropNewerThan(messages []domain.Message, end string) []domain.Message {
	kept := messages[:0]
	for _, m := range messages {
		if compareMessageIDs(m.ID, end) <= 0 {
			kept = append(kept, m)
		}
	}
	return kept
}

// compareMessageIDs orders two "<seconds>.<microseconds>" ids numerically.
func compareMessageIDs(a, b string) int {
	aSec, aSub := splitMessageID(a)
	bSec, bSub := splitMessageID(b)
	if aSec != bSec {
		if aSec < bSec {
			return -1
		}
		return 1
	}
	if aSub != bSub {
		if aSub < bSub {
			return -1
		}
		return 1
	}
	return 0
}

func splitMessageID(id string) (int64, int64) {
	sec, sub, _ := strings.Cut(id, ".")
	secN, _ := strconv.ParseInt(sec, 10, 64)
	subN, _ := strconv.ParseInt(sub, 10, 64)
	return secN, subN
}
