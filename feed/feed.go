// Package feed selects the settled games that were placed through Blinks,
// using the game tag carried in each wager's metadata.
package feed

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Ashenafi-pixel/gamba-blinks/gamba"
)

// SettledGame is one GameSettled event as served by the stats API.
type SettledGame struct {
	Signature  string          `json:"signature"`
	User       string          `json:"user"`
	Creator    string          `json:"creator"`
	Token      string          `json:"token"`
	Pool       string          `json:"pool,omitempty"`
	Wager      decimal.Decimal `json:"wager"`
	Payout     decimal.Decimal `json:"payout"`
	Multiplier float64         `json:"multiplier"`
	Metadata   string          `json:"metadata"`
	Time       int64           `json:"time"` // unix millis
}

type Page struct {
	Results []SettledGame `json:"results"`
	Total   int           `json:"total"`
}

func Decode(raw json.RawMessage) (*Page, error) {
	var p Page
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("feed: decode settled games: %w", err)
	}
	return &p, nil
}

// Filter keeps events whose metadata game tag matches tag, case-insensitively.
// Duplicate signatures are dropped (first occurrence wins) and the result is
// ordered newest first. Events without parseable metadata are skipped.
func Filter(events []SettledGame, tag string) []SettledGame {
	seen := make(map[string]struct{}, len(events))
	out := make([]SettledGame, 0, len(events))
	for _, ev := range events {
		if _, dup := seen[ev.Signature]; dup {
			continue
		}
		seen[ev.Signature] = struct{}{}
		md, err := gamba.ParseMetadata(ev.Metadata)
		if err != nil || !md.HasTag(tag) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	return out
}
