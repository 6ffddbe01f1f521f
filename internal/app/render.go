package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JosephusPaye/memelord/internal/domain"
)

// DividerMessage is the banner posted into the channel by /divide.
const DividerMessage = "➡➡➡ DIVIDER 🔶 DIVIDER 🔵 DIVIDER 🔶 DIVIDER ⬅⬅⬅"

var placeNames = []string{"first", "second", "third"}

func renderTally(top []domain.TallyCandidate, truncated bool) string {
	if len(top) == 0 {
		return "No posts with reactions since the divider."
	}

	lines := make([]string, 0, len(top)+1)
	if truncated {
		lines = append(lines, "📊 Top 10 posts since the divider:")
	} else {
		lines = append(lines, "📊 Tally of posts since the divider:")
	}

	for i, candidate := range top {
		lines = append(lines, fmt.Sprintf("%d. <%s|Post> by <@%s>: *%d* %s",
			i+1, candidate.Permalink, candidate.AuthorID, candidate.Reactions,
			plural(candidate.Reactions, "reaction", "reactions")))
	}
	return strings.Join(lines, "\n")
}

func renderAward(places [][]string) string {
	if len(places) == 1 && len(places[0]) == 1 {
		return fmt.Sprintf("🎉 The winner is <@%s>", places[0][0])
	}

	parts := make([]string, 0, len(places))
	for i, group := range places {
		mentions := make([]string, 0, len(group))
		for _, user := range group {
			mentions = append(mentions, "<@"+user+">")
		}
		parts = append(parts, strings.Join(mentions, ", ")+" ("+placeNames[i]+")")
	}
	return "🎉 The winners are: " + strings.Join(parts, ", ")
}

func renderAwardDenied(userID string) string {
	return fmt.Sprintf("I'm sorry <@%s>, but I'm afraid I can't let you do that.", userID)
}

func renderLeaderboard(entries []domain.LeaderboardEntry) string {
	if len(entries) == 0 {
		return "No winners awarded yet."
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, "🏆 Leaderboard 🏆")
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. <@%s>: *%d* %s, *%d* %s, *%d* %s",
			i+1, entry.UserID,
			entry.Firsts, plural(entry.Firsts, "first", "firsts"),
			entry.Seconds, plural(entry.Seconds, "second", "seconds"),
			entry.Thirds, plural(entry.Thirds, "third", "thirds")))
	}
	return strings.Join(lines, "\n")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

// RenderError maps an engine error to the user-facing feedback line. Every
// failure is terminal for its command; the user is asked to adjust and retry.
func RenderError(err error) string {
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		return "⚠ Slack API request failed. Error: " + apiErr.Error()
	case errors.Is(err, domain.ErrNoSavedBoundary), errors.Is(err, domain.ErrStartBoundaryNotFound):
		return "⚠ No divider found. If you have a manually created divider message, type `/tally <message link>` to use that message as the divider."
	case errors.Is(err, domain.ErrExplicitBoundaryNotFound):
		return "⚠ Given divider message not found. Check the message link and try again."
	case errors.Is(err, domain.ErrNoAwardee):
		return "⚠ No awardees found. Mention at least one user, or leave the text empty to award from the current tally."
	default:
		return fmt.Sprintf("⚠ An unexpected error occurred. Error: %v", err)
	}
}
