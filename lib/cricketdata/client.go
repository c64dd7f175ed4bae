package cricketdata

import (
	"context"
	"net/http"
	"strconv"

	"github.com/carlmjohnson/requests"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wicketwatch/config"
)

// PageSize is the number of matches the provider returns per currentMatches
// page. Offsets are multiples of this; there is no pagination token.
const PageSize = 25

type Client struct {
	log       *zap.Logger
	cfg       *config.Config
	transport http.RoundTripper
}

func NewClient(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) *Client {
	return &Client{log, cfg, transport}
}

// CurrentMatches fetches one page of the live-match feed. A page may hold fewer
// than PageSize entries.
func (c *Client) CurrentMatches(ctx context.Context, offset int) ([]CurrentMatch, error) {
	var resp currentMatchesResponse
	err := requests.
		URL(c.cfg.CricketData.BaseURL + "/currentMatches").
		Param("apikey", c.cfg.CricketData.APIKey).
		Param("offset", strconv.Itoa(offset)).
		Transport(c.transport).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListMatches fetches the full fixture list in a single call.
func (c *Client) ListMatches(ctx context.Context) ([]ScoreMatch, error) {
	var resp scoreMatchesResponse
	err := requests.
		URL(c.cfg.CricketData.BaseURL + "/cricScore").
		Param("apikey", c.cfg.CricketData.APIKey).
		Transport(c.transport).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
