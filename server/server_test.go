package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ashenafi-pixel/gamba-blinks/action"
	"github.com/Ashenafi-pixel/gamba-blinks/analytics"
	"github.com/Ashenafi-pixel/gamba-blinks/chain"
	"github.com/Ashenafi-pixel/gamba-blinks/chain/chaintest"
	"github.com/Ashenafi-pixel/gamba-blinks/config"
	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
	"github.com/Ashenafi-pixel/gamba-blinks/ledger"
)

var user = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("PORT", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.DataDir = t.TempDir()
	return cfg
}

func newTestServer(t *testing.T, stats http.HandlerFunc) (*chaintest.RPC, http.Handler) {
	t.Helper()
	cfg := testConfig(t)
	fake := chaintest.NewRPC()
	deps := Deps{RPC: fake, Ledger: ledger.NewFileStore(cfg.DataDir)}
	if stats != nil {
		upstream := httptest.NewServer(stats)
		t.Cleanup(upstream.Close)
		deps.Analytics = analytics.NewClient(analytics.Options{
			BaseURL: upstream.URL,
			Creator: gamba.DefaultCreator.String(),
			Retry:   analytics.RetryPolicy{MaxAttempts: 2, InitialInterval: time.Millisecond, Multiplier: 2},
		}, zap.NewNop())
	}
	srv, err := NewWithDeps(cfg, deps, zap.NewNop())
	require.NoError(t, err)
	return fake, srv.Handler()
}

func do(h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOptions_Preflight(t *testing.T) {
	_, h := newTestServer(t, nil)
	rec := do(h, http.MethodOptions, "/api/actions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization, Accept-Encoding", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}

func TestGetAction_Metadata(t *testing.T) {
	_, h := newTestServer(t, nil)
	rec := do(h, http.MethodGet, "/api/actions?amount=0.1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var md action.ActionGetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &md))
	require.NotNil(t, md.Links)
	assert.Contains(t, md.Links.Actions[0].Href, "amount={amount}")
	assert.Equal(t, "amount", md.Links.Actions[0].Parameters[0].Name)
}

func TestAction_MethodNotAllowed(t *testing.T) {
	_, h := newTestServer(t, nil)
	rec := do(h, http.MethodPut, "/api/actions", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Allow"))
}

func TestPostAction_NewPlayer(t *testing.T) {
	_, h := newTestServer(t, nil)
	rec := do(h, http.MethodPost, "/api/actions?amount=0.5", action.ActionPostRequest{Account: user.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp action.ActionPostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Player account not found. Please sign this transaction to create it. Then try again.", resp.Message)
	tx, err := chain.DecodeTransaction(resp.Transaction)
	require.NoError(t, err)
	assert.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, user, tx.Message.AccountKeys[0])
}

func TestPostAction_ReturningPlayerTails(t *testing.T) {
	fake, h := newTestServer(t, nil)
	require.NoError(t, fake.SeedPlayer(gamba.DefaultProgram(), user))

	rec := do(h, http.MethodPost, "/api/actions?amount=1&side=tails", action.ActionPostRequest{Account: user.String(), Seed: "s1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp action.ActionPostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1 SOL on the line. 🚀 Blink to find out if you double up to 2 SOL!", resp.Message)

	tx, err := chain.DecodeTransaction(resp.Transaction)
	require.NoError(t, err)
	args, err := gamba.DecodePlayArgs(tx.Message.Instructions[0].Data)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 20000}, args.Bet)
	assert.Equal(t, "s1", args.ClientSeed)

	rec = do(h, http.MethodGet, "/api/ledger?account="+user.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"play"`)
}

func TestPostAction_ValidationIs400(t *testing.T) {
	fake, h := newTestServer(t, nil)
	cases := []struct {
		target string
		body   interface{}
	}{
		{"/api/actions", action.ActionPostRequest{Account: user.String()}},
		{"/api/actions?amount=0", action.ActionPostRequest{Account: user.String()}},
		{"/api/actions?amount=1", action.ActionPostRequest{}},
		{"/api/actions?amount=1", action.ActionPostRequest{Account: "bogus"}},
		{"/api/actions?amount=1&side=edge", action.ActionPostRequest{Account: user.String()}},
		{"/api/actions?amount=1", "not an object"},
	}
	for _, tc := range cases {
		rec := do(h, http.MethodPost, tc.target, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.target)
		var e APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
		assert.NotEmpty(t, e.Error)
	}
	accounts, blockhashes := fake.Calls()
	assert.Zero(t, accounts)
	assert.Zero(t, blockhashes)
}

func TestPostAction_UpstreamIs500(t *testing.T) {
	fake, h := newTestServer(t, nil)
	fake.FailBlockhash(assert.AnError)
	rec := do(h, http.MethodPost, "/api/actions?amount=1", action.ActionPostRequest{Account: user.String()})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"`+action.OpaqueMessage+`"}`, rec.Body.String())
}

func TestActionsJSON(t *testing.T) {
	_, h := newTestServer(t, nil)
	rec := do(h, http.MethodGet, "/actions.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pathPattern":"/api/actions/**"`)
}

func TestAnalyticsProxy(t *testing.T) {
	var hits int32
	_, h := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Query().Get("creator") != gamba.DefaultCreator.String() {
			http.Error(w, "creator missing", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rec := do(h, http.MethodGet, "/api/gamba/stats", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/gamba/settled-games?itemsPerPage=500", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/api/gamba/players?sortBy=token_profit", nil).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/gamba/players?sortBy=token_profit&token=x", nil).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/gamba/chart-dao-usd?from=1", nil).Code)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestAnalyticsProxy_UpstreamDown(t *testing.T) {
	_, h := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	rec := do(h, http.MethodGet, "/api/gamba/player?user=x", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestBlinkFeed(t *testing.T) {
	_, h := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[
			{"signature":"a","metadata":"0:Blinks:Solana-Blinks","time":1},
			{"signature":"b","metadata":"0:Dice:web","time":2},
			{"signature":"c","metadata":"0:blinks:x","time":3}
		],"total":3}`))
	})
	rec := do(h, http.MethodGet, "/api/gamba/blink-feed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Results []struct{ Signature string } `json:"results"`
		Total   int                          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "c", page.Results[0].Signature)
}

func TestAnalyticsDisabled(t *testing.T) {
	_, h := newTestServer(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/api/gamba/stats", nil).Code)
}

func TestLedger_BadAccount(t *testing.T) {
	_, h := newTestServer(t, nil)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/ledger?account=nope", nil).Code)
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t, nil)
	rec := do(h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestPostAction_HugeAmountRejectedQuickly(t *testing.T) {
	fake, h := newTestServer(t, nil)
	start := time.Now()
	rec := do(h, http.MethodPost, "/api/actions?amount=1e999999999", action.ActionPostRequest{Account: user.String()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Less(t, rec.Body.Len(), 200)
	assert.Less(t, time.Since(start), time.Second)

	var e APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Regexp(t, `^Invalid wager: `, e.Error)
	accounts, _ := fake.Calls()
	assert.Zero(t, accounts)
}

func TestPostAction_MissingAccountMessage(t *testing.T) {
	_, h := newTestServer(t, nil)
	rec := do(h, http.MethodPost, "/api/actions?amount=1", action.ActionPostRequest{})
	assert.JSONEq(t, `{"error":"Missing required body parameter: account"}`, rec.Body.String())
}
