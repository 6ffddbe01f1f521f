package tally

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JosephusPaye/memelord/internal/domain"
)

type sliceCursor struct {
	records []*domain.AwardRecord
	pos     int
	err     error
	errAt   int
	closed  bool
}

func (c *sliceCursor) Next(ctx context.Context) (*domain.AwardRecord, error) {
	if c.err != nil && c.pos == c.errAt {
		return nil, c.err
	}
	if c.pos >= len(c.records) {
		return nil, nil
	}
	record := c.records[c.pos]
	c.pos++
	return record, nil
}

func (c *sliceCursor) Close() {
	c.closed = true
}

func award(places ...[]string) *domain.AwardRecord {
	return &domain.AwardRecord{TeamID: "T1", Places: places}
}

func TestAggregate_CreditsEveryGroupMember(t *testing.T) {
	cursor := &sliceCursor{records: []*domain.AwardRecord{
		award([]string{"u1", "u2"}, []string{"u3"}),
		award([]string{"u1"}),
	}}

	entries, err := Aggregate(context.Background(), cursor)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, domain.LeaderboardEntry{UserID: "u1", AwardCounts: domain.AwardCounts{Firsts: 2}}, entries[0])
	assert.Equal(t, domain.LeaderboardEntry{UserID: "u2", AwardCounts: domain.AwardCounts{Firsts: 1}}, entries[1])
	assert.Equal(t, domain.LeaderboardEntry{UserID: "u3", AwardCounts: domain.AwardCounts{Seconds: 1}}, entries[2])
	assert.True(t, cursor.closed)
}

func TestAggregate_IgnoresPlacesBeyondThird(t *testing.T) {
	cursor := &sliceCursor{records: []*domain.AwardRecord{
		award([]string{"u1"}, []string{"u2"}, []string{"u3"}, []string{"u4"}, []string{"u5"}),
	}}

	entries, err := Aggregate(context.Background(), cursor)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.NotEqual(t, "u4", entry.UserID)
		assert.NotEqual(t, "u5", entry.UserID)
	}
}

func TestAggregate_OrdersByFirstsThenSecondsThenThirds(t *testing.T) {
	cursor := &sliceCursor{records: []*domain.AwardRecord{
		award([]string{"u1"}, []string{"u2"}, []string{"u3"}),
		award([]string{"u1"}, []string{"u3"}, []string{"u2"}),
		award([]string{"u2"}, []string{"u1"}, []string{"u3"}),
		award([]string{"u2"}, []string{"u1"}, []string{"u3"}),
	}}

	entries, err := Aggregate(context.Background(), cursor)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// u1 and u2 tie on firsts (2 each); u1 wins the tie on seconds (2 vs 1).
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, "u2", entries[1].UserID)
	assert.Equal(t, "u3", entries[2].UserID)
}

func TestAggregate_RerunYieldsIdenticalOrder(t *testing.T) {
	records := []*domain.AwardRecord{
		award([]string{"u1"}, []string{"u2"}),
		award([]string{"u3"}, []string{"u4"}),
	}

	first, err := Aggregate(context.Background(), &sliceCursor{records: records})
	require.NoError(t, err)
	second, err := Aggregate(context.Background(), &sliceCursor{records: records})
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// u1/u3 and u2/u4 tie completely; first-seen order breaks the tie.
	assert.Equal(t, "u1", first[0].UserID)
	assert.Equal(t, "u3", first[1].UserID)
}

func TestAggregate_ClosesCursorOnError(t *testing.T) {
	cursor := &sliceCursor{
		records: []*domain.AwardRecord{award([]string{"u1"})},
		err:     errors.New("connection reset"),
		errAt:   1,
	}

	_, err := Aggregate(context.Background(), cursor)
	require.Error(t, err)
	assert.True(t, cursor.closed)
}
