package cmd

import (
	"encoding/json"
	"testing"
)

func TestQuoteCommand(t *testing.T) {
	output, err := runKeysim(t, "quote",
		"--base-price", "1000",
		"--curve-factor", "1000000",
		"--max-supply", "1000",
		"--supply", "1",
		"--amount", "3",
		"--budget", "3301",
		"--pretty=false",
	)
	if err != nil {
		t.Fatalf("quote: %v\n%s", err, output)
	}

	var res quoteResult
	if err := json.Unmarshal([]byte(output), &res); err != nil {
		t.Fatalf("decode quote: %v\n%s", err, output)
	}
	if res.Quote == nil || res.Quote.GrossPrice != 3001 || res.Quote.Total != 3301 {
		t.Fatalf("unexpected quote %+v", res.Quote)
	}
	if res.Quote.HolderReward != 270 {
		t.Fatalf("unexpected holder reward %d", res.Quote.HolderReward)
	}
	if res.TokensForBudget == nil || *res.TokensForBudget != 3 {
		t.Fatalf("unexpected tokens for budget %v", res.TokensForBudget)
	}
	if res.SpotPrice != 1000 {
		t.Fatalf("unexpected spot price %d", res.SpotPrice)
	}
}

func TestQuoteCommandSell(t *testing.T) {
	output, err := runKeysim(t, "quote",
		"--max-supply", "1000",
		"--supply", "4",
		"--amount", "3",
		"--direction", "sell",
		"--pretty=false",
	)
	if err != nil {
		t.Fatalf("quote: %v\n%s", err, output)
	}
	var res quoteResult
	if err := json.Unmarshal([]byte(output), &res); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if res.Quote.GrossPrice != 3000 || res.Quote.Total != 2700 {
		t.Fatalf("unexpected sell quote %+v", res.Quote)
	}
}

func TestQuoteCommandRejectsBadInput(t *testing.T) {
	cases := map[string][]string{
		"no amount":      {"quote"},
		"unknown kind":   {"quote", "--kind", "linear", "--amount", "1"},
		"supply too big": {"quote", "--max-supply", "10", "--supply", "11", "--amount", "1"},
		"overflow curve": {"quote", "--curve-factor", "1", "--max-supply", "10000000", "--amount", "1"},
		"bad direction":  {"quote", "--amount", "1", "--direction", "hold"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := runKeysim(t, args...); err == nil {
				t.Fatalf("expected %s to fail", name)
			}
		})
	}
}
