package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"classpick/internal/model"
	"classpick/pkg/apierror"
)

func (c *Client) ListCampaigns(ctx context.Context, token string) ([]model.Campaign, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}

	var out model.CampaignsResponse
	if _, err := c.do(ctx, http.MethodGet, "/campaigns", token, nil, &out); err != nil {
		return nil, err
	}

	return out.Campaigns, nil
}

// CandidateCampaign returns the campaign published by username. A 404 means the candidate has not
// posted yet and yields nil without an error.
func (c *Client) CandidateCampaign(ctx context.Context, token string, username string) (*model.Campaign, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	if err := requireFields("username", username); err != nil {
		return nil, err
	}

	var out model.CampaignResponse
	status, err := c.do(ctx, http.MethodGet, "/campaigns/"+url.PathEscape(strings.TrimSpace(username)), token, nil, &out)
	if status == http.StatusNotFound && apierror.KindOf(err) == apierror.KindAPI {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return out.Campaign, nil
}

func (c *Client) CreateCampaign(ctx context.Context, token string, title string, description string) (*model.Campaign, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	if err := requireFields("title", title, "description", description); err != nil {
		return nil, err
	}

	req := model.CreateCampaignRequest{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Content:     strings.TrimSpace(description),
	}

	var out model.CampaignResponse
	if _, err := c.do(ctx, http.MethodPost, "/campaigns", token, req, &out); err != nil {
		return nil, err
	}

	return out.Campaign, nil
}
