// Package slackapi adapts the Slack Web API to the interfaces the tally
// engine and command layer consume.
package slackapi

import (
	"context"
	"time"

	"github.com/slack-go/slack"

	"github.com/JosephusPaye/memelord/internal/domain"
	"github.com/JosephusPaye/memelord/internal/metrics"
)

// historyPageLimit is the page size requested from conversations.history.
const historyPageLimit = 200

// Client wraps a token-scoped Slack Web API client. Tokens are per team, so
// one Client serves one workspace.
type Client struct {
	api *slack.Client
}

func New(token string) *Client {
	return &Client{api: slack.New(token)}
}

// FetchHistory requests one page of conversation history. Messages come back
// newest first; the continuation cursor of the response must be fed into the
// next call.
func (c *Client) FetchHistory(ctx context.Context, channelID, oldest string, inclusive bool, cursor string) (*domain.HistoryPage, error) {
	start := time.Now()
	resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Oldest:    oldest,
		Inclusive: inclusive,
		Cursor:    cursor,
		Limit:     historyPageLimit,
	})
	metrics.ObserveSlackRequest("conversations.history", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, apiError("conversations.history", resp, err)
	}

	page := &domain.HistoryPage{
		Messages:   make([]domain.Message, 0, len(resp.Messages)),
		HasMore:    resp.HasMore,
		NextCursor: resp.ResponseMetaData.NextCursor,
	}
	for _, message := range resp.Messages {
		page.Messages = append(page.Messages, toDomainMessage(message))
	}
	return page, nil
}

// GetPermalink resolves a message's permalink URL.
func (c *Client) GetPermalink(ctx context.Context, channelID, messageID string) (string, error) {
	start := time.Now()
	permalink, err := c.api.GetPermalinkContext(ctx, &slack.PermalinkParameters{
		Channel: channelID,
		Ts:      messageID,
	})
	metrics.ObserveSlackRequest("chat.getPermalink", time.Since(start).Seconds(), err)
	if err != nil {
		return "", &domain.APIError{Method: "chat.getPermalink", Cause: err}
	}
	return permalink, nil
}

// PostMessage posts text to a channel and returns the new message's id.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) (string, error) {
	start := time.Now()
	_, messageID, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	metrics.ObserveSlackRequest("chat.postMessage", time.Since(start).Seconds(), err)
	if err != nil {
		return "", &domain.APIError{Method: "chat.postMessage", Cause: err}
	}
	return messageID, nil
}

func toDomainMessage(message slack.Message) domain.Message {
	reactions := make([]domain.Reaction, 0, len(message.Reactions))
	for _, reaction := range message.Reactions {
		reactions = append(reactions, domain.Reaction{
			Name:    reaction.Name,
			UserIDs: reaction.Users,
		})
	}
	return domain.Message{
		ID:        message.Timestamp,
		AuthorID:  message.User,
		Reactions: reactions,
	}
}

func apiError(method string, resp *slack.GetConversationHistoryResponse, err error) *domain.APIError {
	apiErr := &domain.APIError{Method: method, Cause: err}
	if resp != nil && resp.Error != "" {
		apiErr.Reason = resp.Error
	}
	return apiErr
}
