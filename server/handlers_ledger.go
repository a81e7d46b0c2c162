package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
)

const (
	defaultLedgerLimit = 20
	maxLedgerLimit     = 100
)

// handleLedger lists recently prepared wagers for ?account=.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusServiceUnavailable, "ledger not configured")
		return
	}
	q := r.URL.Query()
	user, err := gamba.ParseIdentity(q.Get("account"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := defaultLedgerLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= maxLedgerLimit {
		limit = v
	}
	entries, err := s.ledger.Recent(r.Context(), user.String(), limit)
	if err != nil {
		s.log.Error("ledger read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "ledger unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
