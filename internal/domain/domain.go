package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Model types ---

// Message is a request-scoped snapshot of a channel message fetched from
// Slack. It is never mutated, only filtered and re-ranked.
type Message struct {
	ID        string // message timestamp, "<seconds>.<microseconds>"
	AuthorID  string
	Reactions []Reaction
}

// Reaction is one emoji's worth of reactions on a message.
type Reaction struct {
	Name    string
	UserIDs []string
}

// Boundary delimits a tally range. Start is always set; End is empty for an
// open-ended range that runs to the present.
type Boundary struct {
	Start string
	End   string
}

func (b Boundary) HasEnd() bool {
	return b.End != ""
}

// TallyCandidate is a message annotated with its distinct-reactor count.
// The permalink is attached lazily and only for reported candidates.
type TallyCandidate struct {
	MessageID string
	AuthorID  string
	Reactions int
	Permalink string
}

// AwardRecord is a persisted outcome of a ranking round. Places[0] holds the
// first-place group, Places[1] second, Places[2] third; a group may contain
// co-equal users.
type AwardRecord struct {
	ID        uuid.UUID
	TeamID    string
	AwarderID string
	Date      time.Time
	Places    [][]string
}

// AwardCounts tracks how many times a user placed first, second, and third.
type AwardCounts struct {
	Firsts  int
	Seconds int
	Thirds  int
}

// LeaderboardEntry is one row of a team's leaderboard.
type LeaderboardEntry struct {
	UserID string
	AwardCounts
}

// Team holds the per-workspace installation data saved during OAuth.
type Team struct {
	TeamID      string
	TeamName    string
	Channel     string
	ChannelID   string
	AccessToken string
	BotUserID   string
}

// HistoryPage is one page of conversation history, ordered newest first.
type HistoryPage struct {
	Messages   []Message
	HasMore    bool
	NextCursor string
}

// --- Interfaces ---

// History fetches one page of a channel's message history. When cursor is
// empty the first page is requested; otherwise the continuation cursor from
// the previous page must be passed.
type History interface {
	FetchHistory(ctx context.Context, channelID, oldest string, inclusive bool, cursor string) (*HistoryPage, error)
}

// PermalinkResolver resolves a message's permalink URL.
type PermalinkResolver interface {
	GetPermalink(ctx context.Context, channelID, messageID string) (string, error)
}

// MessagePoster posts a message to a channel and returns its id.
type MessagePoster interface {
	PostMessage(ctx context.Context, channelID, text string) (string, error)
}

// TeamRepository stores per-team installation data and the saved divider.
type TeamRepository interface {
	UpsertTeam(ctx context.Context, team *Team) error
	GetTeam(ctx context.Context, teamID string) (*Team, error)
	SaveDivider(ctx context.Context, teamID, messageID string) error
	GetDivider(ctx context.Context, teamID string) (string, error)
}

// AwardCursor is a forward-only stream of award records. Close must be called
// on every exit path; no reads are permitted afterwards.
type AwardCursor interface {
	// Next returns the next record, or nil once the stream is exhausted.
	Next(ctx context.Context) (*AwardRecord, error)
	Close()
}

// AwardRepository stores award records append-only.
type AwardRepository interface {
	SaveAward(ctx context.Context, record *AwardRecord) error
	StreamAwards(ctx context.Context, teamID string) (AwardCursor, error)
}
