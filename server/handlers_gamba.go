package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Ashenafi-pixel/gamba-blinks/analytics"
	"github.com/Ashenafi-pixel/gamba-blinks/feed"
)

func (s *Server) requireAnalytics(w http.ResponseWriter) bool {
	if s.analytics == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics not configured")
		return false
	}
	return true
}

// writeAnalytics sends data or maps err to the proxy's status codes.
func (s *Server) writeAnalytics(w http.ResponseWriter, data json.RawMessage, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, data)
	case errors.Is(err, analytics.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, analytics.ErrForbiddenSort):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		s.log.Error("analytics request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireAnalytics(w) {
		return
	}
	data, err := s.analytics.Stats(r.Context())
	s.writeAnalytics(w, data, err)
}

func settledGamesQuery(r *http.Request) (analytics.SettledGamesQuery, error) {
	q := r.URL.Query()
	out := analytics.SettledGamesQuery{Pool: q.Get("pool"), User: q.Get("user")}
	var err error
	if v := q.Get("page"); v != "" {
		if out.Page, err = strconv.Atoi(v); err != nil {
			return out, errors.New("page must be an integer")
		}
	}
	if v := q.Get("itemsPerPage"); v != "" {
		if out.ItemsPerPage, err = strconv.Atoi(v); err != nil || out.ItemsPerPage == 0 {
			return out, errors.New("itemsPerPage must range between 1-200")
		}
	}
	return out, nil
}

func (s *Server) handleSettledGames(w http.ResponseWriter, r *http.Request) {
	if !s.requireAnalytics(w) {
		return
	}
	q, err := settledGamesQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := s.analytics.SettledGames(r.Context(), q)
	s.writeAnalytics(w, data, err)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if !s.requireAnalytics(w) {
		return
	}
	q := r.URL.Query()
	data, err := s.analytics.Player(r.Context(), q.Get("user"), q.Get("token"))
	s.writeAnalytics(w, data, err)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAnalytics(w) {
		return
	}
	q := r.URL.Query()
	// Unparseable numbers fall back to the defaults.
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	data, err := s.analytics.Players(r.Context(), analytics.PlayersQuery{
		Token:     q.Get("token"),
		Pool:      q.Get("pool"),
		SortBy:    q.Get("sortBy"),
		Limit:     limit,
		Offset:    offset,
		StartTime: q.Get("startTime"),
	})
	s.writeAnalytics(w, data, err)
}

func (s *Server) handleChartDaoUSD(w http.ResponseWriter, r *http.Request) {
	if !s.requireAnalytics(w) {
		return
	}
	q := r.URL.Query()
	data, err := s.analytics.ChartDaoUSD(r.Context(), q.Get("from"), q.Get("until"))
	s.writeAnalytics(w, data, err)
}

// handleBlinkFeed returns the settled games placed through Blinks.
func (s *Server) handleBlinkFeed(w http.ResponseWriter, r *http.Request) {
	if !s.requireAnalytics(w) {
		return
	}
	q, err := settledGamesQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := s.analytics.SettledGames(r.Context(), q)
	if err != nil {
		s.writeAnalytics(w, nil, err)
		return
	}
	page, err := feed.Decode(data)
	if err != nil {
		s.log.Error("blink feed decode failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	events := feed.Filter(page.Results, s.cfg.FeedTag)
	writeJSON(w, http.StatusOK, feed.Page{Results: events, Total: len(events)})
}
