package gateway

import (
	"context"
	"net/http"
	"strings"

	"classpick/internal/model"
)

// CastVote votes for the candidate named username and returns the server's message.
func (c *Client) CastVote(ctx context.Context, token string, username string) (string, error) {
	if err := requireToken(token); err != nil {
		return "", err
	}
	if err := requireFields("username", username); err != nil {
		return "", err
	}

	var out model.MessageResponse
	req := model.CastVoteRequest{Username: strings.TrimSpace(username)}
	if _, err := c.do(ctx, http.MethodPost, "/votes", token, req, &out); err != nil {
		return "", err
	}

	return out.Message, nil
}

// Votes returns the tally in server order, highest count first.
func (c *Client) Votes(ctx context.Context, token string) ([]model.VoteTallyEntry, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}

	var out model.VotesResponse
	if _, err := c.do(ctx, http.MethodGet, "/votes", token, nil, &out); err != nil {
		return nil, err
	}

	return out.Votes, nil
}
