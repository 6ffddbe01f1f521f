package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JosephusPaye/memelord/internal/domain"
)

type TeamRepo struct {
	pool *pgxpool.Pool
}

func NewTeamRepo(pool *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{pool: pool}
}

func (r *TeamRepo) UpsertTeam(ctx context.Context, team *domain.Team) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO teams (team_id, team_name, channel, channel_id, access_token, bot_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (team_id) DO UPDATE SET
			team_name = excluded.team_name,
			channel = excluded.channel,
			channel_id = excluded.channel_id,
			access_token = excluded.access_token,
			bot_user_id = excluded.bot_user_id,
			updated_at = now()`,
		team.TeamID, team.TeamName, team.Channel, team.ChannelID, team.AccessToken, team.BotUserID)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

func (r *TeamRepo) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	team := &domain.Team{TeamID: teamID}
	err := r.pool.QueryRow(ctx, `
		SELECT team_name, channel, channel_id, access_token, bot_user_id
		FROM teams WHERE team_id = $1`, teamID).
		Scan(&team.TeamName, &team.Channel, &team.ChannelID, &team.AccessToken, &team.BotUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *TeamRepo) SaveDivider(ctx context.Context, teamID, messageID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dividers (team_id, message_id)
		VALUES ($1, $2)
		ON CONFLICT (team_id) DO UPDATE SET
			message_id = excluded.message_id,
			updated_at = now()`,
		teamID, messageID)
	if err != nil {
		return fmt.Errorf("failed to save divider: %w", err)
	}
	return nil
}

// GetDivider returns the team's saved divider message id, or "" when the team
// has never divided.
func (r *TeamRepo) GetDivider(ctx context.Context, teamID string) (string, error) {
	var messageID string
	err := r.pool.QueryRow(ctx, `SELECT message_id FROM dividers WHERE team_id = $1`, teamID).Scan(&messageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get divider: %w", err)
	}
	return messageID, nil
}
