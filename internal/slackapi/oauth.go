package slackapi

import (
	"context"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/JosephusPaye/memelord/internal/domain"
)

// InstallScopes are the bot scopes requested during installation.
var InstallScopes = []string{
	"app_mentions:read",
	"channels:history",
	"chat:write",
	"commands",
	"emoji:read",
	"incoming-webhook",
	"reactions:read",
	"reactions:write",
}

// ExchangeOAuthCode trades the OAuth v2 authorization code for the team's
// access token and bot user, as delivered to the install callback.
func ExchangeOAuthCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*domain.Team, error) {
	resp, err := slack.GetOAuthV2ResponseContext(ctx, http.DefaultClient, clientID, clientSecret, code, redirectURI)
	if err != nil {
		return nil, &domain.APIError{Method: "oauth.v2.access", Cause: err}
	}

	return &domain.Team{
		TeamID:      resp.Team.ID,
		TeamName:    resp.Team.Name,
		Channel:     resp.IncomingWebhook.Channel,
		ChannelID:   resp.IncomingWebhook.ChannelID,
		AccessToken: resp.AccessToken,
		BotUserID:   resp.BotUserID,
	}, nil
}
