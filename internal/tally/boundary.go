// Package tally implements the engagement-tally engine: divider resolution,
// paginated range fetching, reaction ranking, award extraction, and the
// leaderboard fold.
package tally

import (
	"context"
	"regexp"
	"strings"

	"github.com/JosephusPaye/memelord/internal/domain"
)

// Message permalinks look like https://team.slack.com/archives/CH2PRFQDU/p1599393257001900.
// The digit run after `p` is the message id without the dot that separates the
// seconds from the last 6 (microsecond) digits, so "p1599393257001900" is
// message "1599393257.001900".
var permalinkIDPattern = regexp.MustCompile(`https?://[^\s/]*\.slack\.com/archives/[^\s/]+/p(\d+)`)

// DividerStore is the slice of team storage the resolver needs.
type DividerStore interface {
	GetDivider(ctx context.Context, teamID string) (string, error)
}

// BoundaryResolver turns free-text command input, or the team's saved
// divider, into a tally range boundary.
type BoundaryResolver struct {
	store DividerStore
}

func NewBoundaryResolver(store DividerStore) *BoundaryResolver {
	return &BoundaryResolver{store: store}
}

// Resolve parses up to two permalink references out of text, in positional
// order: one reference gives an open-ended range, two give a bounded one, and
// any beyond the second are ignored. Empty input falls back to the team's
// saved divider.
func (r *BoundaryResolver) Resolve(ctx context.Context, text, teamID string) (domain.Boundary, error) {
	if strings.TrimSpace(text) == "" {
		id, err := r.store.GetDivider(ctx, teamID)
		if err != nil {
			return domain.Boundary{}, err
		}
		if id == "" {
			return domain.Boundary{}, domain.ErrNoSavedBoundary
		}
		return domain.Boundary{Start: id}, nil
	}

	matches := permalinkIDPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return domain.Boundary{}, domain.ErrExplicitBoundaryNotFound
	}

	boundary := domain.Boundary{Start: MessageIDFromPermalink(matches[0][1])}
	if len(matches) > 1 {
		boundary.End = MessageIDFromPermalink(matches[1][1])
	}
	return boundary, nil
}

// MessageIDFromPermalink converts the digit run from a permalink's final
// segment into the native message id: everything before the last 6 digits is
// the seconds component, the last 6 digits are the microseconds.
func MessageIDFromPermalink(digits string) string {
	split := len(digits) - 6
	if split < 0 {
		split = 0
	}
	return digits[:split] + "." + digits[split:]
}

// PermalinkDigits is the inverse of MessageIDFromPermalink.
func PermalinkDigits(messageID string) string {
	return strings.Replace(messageID, ".", "", 1)
}
