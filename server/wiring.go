package server

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/Ashenafi-pixel/gamba-blinks/action"
	"github.com/Ashenafi-pixel/gamba-blinks/analytics"
	"github.com/Ashenafi-pixel/gamba-blinks/config"
	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
)

// programFromConfig overrides the mainnet deployment with any configured key.
func programFromConfig(cfg *config.Config) (gamba.Program, error) {
	p := gamba.DefaultProgram()
	overrides := []struct {
		name string
		val  string
		dst  *solana.PublicKey
	}{
		{"GAMBA_PROGRAM_ID", cfg.ProgramID, &p.ID},
		{"GAMBA_POOL", cfg.Pool, &p.Pool},
		{"GAMBA_UNDERLYING_MINT", cfg.UnderlyingMint, &p.UnderlyingMint},
		{"GAMBA_BONUS_MINT", cfg.BonusMint, &p.BonusMint},
		{"GAMBA_CREATOR", cfg.Creator, &p.Creator},
		{"GAMBA_POOL_JACKPOT", cfg.PoolJackpot, &p.PoolJackpotAccount},
	}
	for _, o := range overrides {
		if o.val == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(o.val)
		if err != nil {
			return gamba.Program{}, fmt.Errorf("config: %s: %w", o.name, err)
		}
		*o.dst = key
	}
	return p, nil
}

func assemblerFromConfig(cfg *config.Config) (gamba.Assembler, error) {
	program, err := programFromConfig(cfg)
	if err != nil {
		return gamba.Assembler{}, err
	}
	creatorFee, err := feeBasisPoints("GAMBA_CREATOR_FEE", cfg.CreatorFee)
	if err != nil {
		return gamba.Assembler{}, err
	}
	jackpotFee, err := feeBasisPoints("GAMBA_JACKPOT_FEE", cfg.JackpotFee)
	if err != nil {
		return gamba.Assembler{}, err
	}
	md := gamba.Metadata{Version: gamba.MetadataVersion, GameTag: cfg.GameTag, Origin: cfg.Origin}
	if err := md.Validate(); err != nil {
		return gamba.Assembler{}, fmt.Errorf("config: %w", err)
	}
	return gamba.Assembler{
		Program:    program,
		CreatorFee: creatorFee,
		JackpotFee: jackpotFee,
		Metadata:   md,
		UseBonus:   cfg.UseBonus,
	}, nil
}

// feeBasisPoints parses a fee ratio in [0, 1].
func feeBasisPoints(name, s string) (uint32, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", name, err)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return 0, fmt.Errorf("config: %s must be between 0 and 1, got %s", name, s)
	}
	return gamba.BasisPoints(d), nil
}

func descriptorFromConfig(cfg *config.Config) action.Descriptor {
	return action.Descriptor{
		Path:        cfg.ActionPath,
		Icon:        cfg.Icon,
		Title:       cfg.Title,
		Description: cfg.Description,
		Label:       cfg.Label,
	}
}

func analyticsOptions(cfg *config.Config, creator solana.PublicKey) analytics.Options {
	return analytics.Options{
		BaseURL:  cfg.AnalyticsURL,
		Creator:  creator.String(),
		CacheTTL: cfg.AnalyticsCacheTTL,
		Retry: analytics.RetryPolicy{
			MaxAttempts:     cfg.AnalyticsRetries,
			InitialInterval: cfg.AnalyticsBackoff,
			Multiplier:      2,
		},
	}
}
