package tally

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/JosephusPaye/memelord/internal/domain"
)

// permalinkBatchSize bounds how many permalink requests are in flight at
// once. Batches run strictly in sequence.
const permalinkBatchSize = 4

// Rank converts messages into tally candidates ordered by descending
// distinct-reactor count. Messages nobody reacted to are dropped. Ties keep
// the relative order of the input sequence; recency among equally-reacted
// posts is deliberately not disambiguated further.
func Rank(messages []domain.Message) []domain.TallyCandidate {
	candidates := make([]domain.TallyCandidate, 0, len(messages))
	for _, m := range messages {
		count := distinctReactors(m)
		if count == 0 {
			continue
		}
		candidates = append(candidates, domain.TallyCandidate{
			MessageID: m.ID,
			AuthorID:  m.AuthorID,
			Reactions: count,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Reactions > candidates[j].Reactions
	})
	return candidates
}

// distinctReactors counts the users who reacted to a message, once per user
// regardless of how many different emoji they used.
func distinctReactors(m domain.Message) int {
	seen := make(map[string]struct{})
	for _, reaction := range m.Reactions {
		for _, user := range reaction.UserIDs {
			seen[user] = struct{}{}
		}
	}
	return len(seen)
}

// AttachPermalinks resolves and attaches permalinks for the given candidates
// in place, permalinkBatchSize at a time. Requests within a batch run
// concurrently, each writing only its own candidate's slot. A single failed
// fetch aborts the whole operation; permalinks already attached by earlier
// batches are left as-is but the error makes the caller discard the report.
func AttachPermalinks(ctx context.Context, resolver domain.PermalinkResolver, channelID string, candidates []domain.TallyCandidate) error {
	for offset := 0; offset < len(candidates); offset += permalinkBatchSize {
		end := offset + permalinkBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := offset; i < end; i++ {
			i := i
			g.Go(func() error {
				permalink, err := resolver.GetPermalink(gctx, channelID, candidates[i].MessageID)
				if err != nil {
					return err
				}
				candidates[i].Permalink = permalink
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
