package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

var (
	// ErrInvalidQuery is a caller mistake in query parameters.
	ErrInvalidQuery = errors.New("analytics: invalid query")
	// ErrForbiddenSort is a token-denominated sort without a token or pool.
	ErrForbiddenSort = errors.New("analytics: sort requires token or pool")
)

const (
	defaultItemsPerPage = 10
	maxItemsPerPage     = 200
	defaultPlayersLimit = 5
	maxPlayersLimit     = 5000
	defaultPlayersSort  = "usd_profit"
)

func (c *Client) Stats(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/stats", nil)
}

type SettledGamesQuery struct {
	Page         int
	ItemsPerPage int // zero means default
	Pool         string
	User         string
}

func (q SettledGamesQuery) values() (url.Values, error) {
	per := q.ItemsPerPage
	if per == 0 {
		per = defaultItemsPerPage
	}
	if per < 1 || per > maxItemsPerPage {
		return nil, fmt.Errorf("%w: itemsPerPage must range between 1-%d", ErrInvalidQuery, maxItemsPerPage)
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("itemsPerPage", strconv.Itoa(per))
	if q.Pool != "" {
		v.Set("pool", q.Pool)
	}
	if q.User != "" {
		v.Set("user", q.User)
	}
	return v, nil
}

func (c *Client) SettledGames(ctx context.Context, q SettledGamesQuery) (json.RawMessage, error) {
	v, err := q.values()
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, "/events/settledGames", v)
}

func (c *Client) Player(ctx context.Context, user, token string) (json.RawMessage, error) {
	v := url.Values{}
	if user != "" {
		v.Set("user", user)
	}
	if token != "" {
		v.Set("token", token)
	}
	return c.Get(ctx, "/player", v)
}

type PlayersQuery struct {
	Token     string
	Pool      string
	SortBy    string
	Limit     int
	Offset    int
	StartTime string
}

func (q PlayersQuery) values() (url.Values, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = defaultPlayersSort
	}
	if q.Token == "" && q.Pool == "" && (sortBy == "token_volume" || sortBy == "token_profit") {
		return nil, fmt.Errorf("%w: Token or pool required to sort by %s", ErrForbiddenSort, sortBy)
	}
	limit := q.Limit
	if limit < 1 || limit > maxPlayersLimit {
		limit = defaultPlayersLimit
	}
	v := url.Values{}
	v.Set("sortBy", sortBy)
	v.Set("limit", strconv.Itoa(limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.Token != "" {
		v.Set("token", q.Token)
	}
	if q.Pool != "" {
		v.Set("pool", q.Pool)
	}
	if q.StartTime != "" {
		v.Set("startTime", q.StartTime)
	}
	return v, nil
}

func (c *Client) Players(ctx context.Context, q PlayersQuery) (json.RawMessage, error) {
	v, err := q.values()
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, "/players", v)
}

// ChartDaoUSD returns the creator's USD volume series between from and until.
func (c *Client) ChartDaoUSD(ctx context.Context, from, until string) (json.RawMessage, error) {
	v := url.Values{}
	if from != "" {
		v.Set("from", from)
	}
	if until != "" {
		v.Set("until", until)
	}
	return c.Get(ctx, "/chart/dao-usd", v)
}
