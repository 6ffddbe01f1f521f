package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JosephusPaye/memelord/internal/domain"
)

type AwardRepo struct {
	pool *pgxpool.Pool
}

func NewAwardRepo(pool *pgxpool.Pool) *AwardRepo {
	return &AwardRepo{pool: pool}
}

// SaveAward appends one award record. Records are never updated or deleted.
func (r *AwardRepo) SaveAward(ctx context.Context, record *domain.AwardRecord) error {
	places, err := json.Marshal(record.Places)
	if err != nil {
		return fmt.Errorf("failed to encode award places: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO awards (id, team_id, awarder_id, awarded_at, places)
		VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.TeamID, record.AwarderID, record.Date, places)
	if err != nil {
		return fmt.Errorf("failed to save award: %w", err)
	}
	return nil
}

// StreamAwards opens a forward-only cursor over the team's award records in
// award order. The caller owns the cursor and must close it.
func (r *AwardRepo) StreamAwards(ctx context.Context, teamID string) (domain.AwardCursor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, team_id, awarder_id, awarded_at, places
		FROM awards WHERE team_id = $1
		ORDER BY awarded_at`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query awards: %w", err)
	}
	return &awardCursor{rows: rows}, nil
}

type awardCursor struct {
	rows pgx.Rows
}

func (c *awardCursor) Next(ctx context.Context) (*domain.AwardRecord, error) {
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read awards: %w", err)
		}
		return nil, nil
	}

	record := &domain.AwardRecord{}
	var places []byte
	if err := c.rows.Scan(&record.ID, &record.TeamID, &record.AwarderID, &record.Date, &places); err != nil {
		return nil, fmt.Errorf("failed to scan award: %w", err)
	}

	normalized, err := normalizePlaces(places)
	if err != nil {
		return nil, fmt.Errorf("award %s: %w", record.ID, err)
	}
	record.Places = normalized
	return record, nil
}

func (c *awardCursor) Close() {
	c.rows.Close()
}

// normalizePlaces decodes a stored places document. Records imported from the
// old storage format may hold a bare user id string where newer records hold
// a group array; both normalize to one group per place.
func normalizePlaces(data []byte) ([][]string, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed places document: %w", err)
	}

	places := make([][]string, 0, len(raw))
	for _, entry := range raw {
		switch value := entry.(type) {
		case string:
			places = append(places, []string{value})
		case []any:
			group := make([]string, 0, len(value))
			for _, member := range value {
				user, ok := member.(string)
				if !ok {
					return nil, fmt.Errorf("place member %v is not a user id", member)
				}
				group = append(group, user)
			}
			places = append(places, group)
		default:
			return nil, fmt.Errorf("place %v is neither a user id nor a group", entry)
		}
	}
	return places, nil
}
