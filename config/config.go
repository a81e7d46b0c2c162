package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultPort = 8080

type Config struct {
	// Prefer PORT (Render, Fly.io, Railway, etc.) then ACTION_PORT.
	PlatformPort int `env:"PORT"`
	ActionPort   int `env:"ACTION_PORT"`
	Port         int

	RPCURL     string `env:"SOLANA_RPC_URL" envDefault:"https://api.mainnet-beta.solana.com"`
	Commitment string `env:"SOLANA_COMMITMENT" envDefault:"processed"`

	// Empty addresses fall back to the mainnet deployment.
	ProgramID      string `env:"GAMBA_PROGRAM_ID"`
	Pool           string `env:"GAMBA_POOL"`
	UnderlyingMint string `env:"GAMBA_UNDERLYING_MINT"`
	BonusMint      string `env:"GAMBA_BONUS_MINT"`
	Creator        string `env:"GAMBA_CREATOR"`
	PoolJackpot    string `env:"GAMBA_POOL_JACKPOT"`
	UseBonus       bool   `env:"GAMBA_USE_BONUS" envDefault:"false"`

	CreatorFee string `env:"GAMBA_CREATOR_FEE" envDefault:"0.05"`
	JackpotFee string `env:"GAMBA_JACKPOT_FEE" envDefault:"0.01"`
	GameTag    string `env:"GAMBA_GAME_TAG" envDefault:"Blinks"`
	Origin     string `env:"GAMBA_ORIGIN" envDefault:"Solana-Blinks"`

	ActionPath  string `env:"ACTION_PATH" envDefault:"/api/actions"`
	Icon        string `env:"ACTION_ICON" envDefault:"https://gamba-blinks.vercel.app/logo.png"`
	Title       string `env:"ACTION_TITLE" envDefault:"Play Coin Flip On-Chain Anywhere With Gamba Blinks"`
	Description string `env:"ACTION_DESCRIPTION" envDefault:"Bet SOL on heads or tails and win double or nothing!"`
	Label       string `env:"ACTION_LABEL" envDefault:"Flip Coin"`

	AnalyticsURL      string        `env:"GAMBA_API_URL" envDefault:"https://api.gamba.so"`
	AnalyticsCacheTTL time.Duration `env:"GAMBA_API_CACHE_TTL" envDefault:"600s"`
	AnalyticsRetries  uint          `env:"GAMBA_API_RETRIES" envDefault:"3"`
	AnalyticsBackoff  time.Duration `env:"GAMBA_API_BACKOFF" envDefault:"500ms"`
	FeedTag           string        `env:"BLINK_FEED_TAG" envDefault:"blinks"`

	DataDir  string `env:"ACTION_DATA_DIR" envDefault:"data"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch {
	case cfg.PlatformPort > 0:
		cfg.Port = cfg.PlatformPort
	case cfg.ActionPort > 0:
		cfg.Port = cfg.ActionPort
	default:
		cfg.Port = defaultPort
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
