// Package app is the command layer: it orchestrates the tally engine, the
// Slack gateway, and the stores into the four slash commands.
package app

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/JosephusPaye/memelord/internal/domain"
	"github.com/JosephusPaye/memelord/internal/tally"
)

// tallyReportLimit caps how many candidates a tally report shows (and
// therefore how many permalinks are fetched).
const tallyReportLimit = 10

// SlackGateway is the token-scoped Slack surface a command needs.
type SlackGateway interface {
	domain.History
	domain.PermalinkResolver
	domain.MessagePoster
}

// GatewayFactory builds a gateway for a team's access token.
type GatewayFactory func(token string) SlackGateway

type Service struct {
	teams    domain.TeamRepository
	awards   domain.AwardRepository
	gateway  GatewayFactory
	resolver *tally.BoundaryResolver

	// restrictAwardTo limits who may award, per team; teams absent from the
	// map are unrestricted.
	restrictAwardTo map[string][]string
	clock           clockwork.Clock
}

func NewService(teams domain.TeamRepository, awards domain.AwardRepository, gateway GatewayFactory, restrictAwardTo map[string][]string, clock clockwork.Clock) *Service {
	return &Service{
		teams:           teams,
		awards:          awards,
		gateway:         gateway,
		resolver:        tally.NewBoundaryResolver(teams),
		restrictAwardTo: restrictAwardTo,
		clock:           clock,
	}
}

func (s *Service) team(ctx context.Context, teamID string) (*domain.Team, SlackGateway, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	return team, s.gateway(team.AccessToken), nil
}

// Divide posts a fresh divider message to the channel and saves its id as the
// team's tally marker. The divider post itself is the visible response.
func (s *Service) Divide(ctx context.Context, teamID, channelID string) error {
	_, gateway, err := s.team(ctx, teamID)
	if err != nil {
		return err
	}

	messageID, err := gateway.PostMessage(ctx, channelID, DividerMessage)
	if err != nil {
		return err
	}
	return s.teams.SaveDivider(ctx, teamID, messageID)
}

// Tally ranks the channel's messages since the divider (or between the
// permalinks in text) by distinct reactors and renders the top-10 report.
func (s *Service) Tally(ctx context.Context, teamID, channelID, text string) (string, error) {
	team, gateway, err := s.team(ctx, teamID)
	if err != nil {
		return "", err
	}

	boundary, err := s.resolver.Resolve(ctx, text, teamID)
	if err != nil {
		return "", err
	}

	messages, err := tally.NewRangeFetcher(gateway).Fetch(ctx, boundary, channelID, team.BotUserID)
	if err != nil {
		return "", err
	}

	candidates := tally.Rank(messages)
	top := candidates
	if len(top) > tallyReportLimit {
		top = top[:tallyReportLimit]
	}

	if err := tally.AttachPermalinks(ctx, gateway, channelID, top); err != nil {
		return "", err
	}

	return renderTally(top, len(candidates) > tallyReportLimit), nil
}

// Award records 1–3 places of awardees, taken from the mentions in text or,
// when text is empty, derived from the current tally since the divider.
func (s *Service) Award(ctx context.Context, teamID, channelID, awarderID, text string) (string, error) {
	if allowed, restricted := s.restrictAwardTo[teamID]; restricted && !slices.Contains(allowed, awarderID) {
		return renderAwardDenied(awarderID), nil
	}

	var places [][]string
	var err error
	if strings.TrimSpace(text) != "" {
		places, err = tally.ExtractAwardees(text)
		if err != nil {
			return "", err
		}
	} else {
		places, err = s.deriveFromTally(ctx, teamID, channelID)
		if err != nil {
			return "", err
		}
	}

	record := &domain.AwardRecord{
		ID:        uuid.New(),
		TeamID:    teamID,
		AwarderID: awarderID,
		Date:      s.clock.Now(),
		Places:    places,
	}
	if err := s.awards.SaveAward(ctx, record); err != nil {
		return "", err
	}

	return renderAward(places), nil
}

func (s *Service) deriveFromTally(ctx context.Context, teamID, channelID string) ([][]string, error) {
	team, gateway, err := s.team(ctx, teamID)
	if err != nil {
		return nil, err
	}

	boundary, err := s.resolver.Resolve(ctx, "", teamID)
	if err != nil {
		return nil, err
	}

	messages, err := tally.NewRangeFetcher(gateway).Fetch(ctx, boundary, channelID, team.BotUserID)
	if err != nil {
		return nil, err
	}

	return tally.DeriveAwardees(tally.Rank(messages))
}

// Leaderboard folds the team's award history into the cumulative ranking.
func (s *Service) Leaderboard(ctx context.Context, teamID string) (string, error) {
	cursor, err := s.awards.StreamAwards(ctx, teamID)
	if err != nil {
		return "", err
	}

	entries, err := tally.Aggregate(ctx, cursor)
	if err != nil {
		return "", err
	}

	return renderLeaderboard(entries), nil
}
