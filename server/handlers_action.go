package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Ashenafi-pixel/gamba-blinks/action"
)

const maxBodyBytes = 64 << 10

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.descriptor.Metadata())
	case http.MethodPost:
		s.postAction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", r.Method))
	}
}

func (s *Server) postAction(w http.ResponseWriter, r *http.Request) {
	var body action.ActionPostRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, action.ErrInvalidBody.Error())
		return
	}
	q := r.URL.Query()
	req := action.WagerRequest{
		Account:    body.Account,
		Amount:     q.Get("amount"),
		Side:       firstNonEmpty(q.Get("side"), body.Side),
		ClientSeed: firstNonEmpty(body.Seed, q.Get("seed")),
	}
	resp, err := s.pipeline.Prepare(r.Context(), req)
	if err != nil {
		code := action.StatusCode(err)
		if code >= http.StatusInternalServerError {
			s.log.Error("prepare failed", zap.Bool("upstream", action.Upstream(err)), zap.Error(err))
		} else {
			s.log.Info("rejected wager", zap.Error(err))
		}
		writeError(w, code, action.PublicMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActionsJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.descriptor.Rules())
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
