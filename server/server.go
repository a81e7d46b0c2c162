package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Ashenafi-pixel/gamba-blinks/action"
	"github.com/Ashenafi-pixel/gamba-blinks/analytics"
	"github.com/Ashenafi-pixel/gamba-blinks/chain"
	"github.com/Ashenafi-pixel/gamba-blinks/config"
	"github.com/Ashenafi-pixel/gamba-blinks/ledger"
)

// Deps are the collaborators a Server talks to. Nil Analytics or Ledger
// disables the routes that need them.
type Deps struct {
	RPC       chain.RPC
	Ledger    ledger.Store
	Analytics *analytics.Client
}

type Server struct {
	cfg        *config.Config
	descriptor action.Descriptor
	pipeline   *action.Pipeline
	analytics  *analytics.Client
	ledger     ledger.Store
	log        *zap.Logger
}

// New wires the server against the configured RPC endpoint, stats API and
// ledger store.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	program, err := programFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := ledger.Open(ctx, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return NewWithDeps(cfg, Deps{
		RPC:       chain.NewRPC(cfg.RPCURL),
		Ledger:    store,
		Analytics: analytics.NewClient(analyticsOptions(cfg, program.Creator), log),
	}, log)
}

func NewWithDeps(cfg *config.Config, deps Deps, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if deps.RPC == nil {
		return nil, errors.New("server: rpc client required")
	}
	assembler, err := assemblerFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	commitment, err := chain.ParseCommitment(cfg.Commitment)
	if err != nil {
		return nil, err
	}
	inspector := chain.NewInspector(deps.RPC, assembler.Program.ID, commitment)
	builder := chain.NewBuilder(deps.RPC, commitment)
	return &Server{
		cfg:        cfg,
		descriptor: descriptorFromConfig(cfg),
		pipeline:   action.NewPipeline(assembler, inspector, builder, deps.Ledger, log),
		analytics:  deps.Analytics,
		ledger:     deps.Ledger,
		log:        log,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc(s.descriptor.Path, s.handleAction)
	mux.HandleFunc("GET /actions.json", s.handleActionsJSON)
	mux.HandleFunc("GET /api/ledger", s.handleLedger)
	// Dashboard: proxied stats API and the Blink feed.
	mux.HandleFunc("GET /api/gamba/stats", s.handleStats)
	mux.HandleFunc("GET /api/gamba/settled-games", s.handleSettledGames)
	mux.HandleFunc("GET /api/gamba/player", s.handlePlayer)
	mux.HandleFunc("GET /api/gamba/players", s.handlePlayers)
	mux.HandleFunc("GET /api/gamba/chart-dao-usd", s.handleChartDaoUSD)
	mux.HandleFunc("GET /api/gamba/blink-feed", s.handleBlinkFeed)
	return cors(requestLogger(s.log, mux))
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("action server listening", zap.String("addr", srv.Addr), zap.String("rpc", s.cfg.RPCURL))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "gamba-blinks"})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
