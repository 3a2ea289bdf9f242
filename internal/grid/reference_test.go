package grid

import (
	"testing"

	"gridbot/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testSnapshot(last, bid, ask string) *core.MarketSnapshot {
	return &core.MarketSnapshot{
		LastPrice:  decimal.RequireFromString(last),
		HighestBid: decimal.RequireFromString(bid),
		LowestAsk:  decimal.RequireFromString(ask),
	}
}

func TestSelectReference(t *testing.T) {
	snapshot := testSnapshot("101.5", "100", "102")

	tests := []struct {
		name string
		base core.BaseMode
		want string
	}{
		{"bid", core.BaseBid, "100"},
		{"ask", core.BaseAsk, "102"},
		{"last", core.BaseLast, "101.5"},
		{"average", core.BaseAverage, "101"},
		{"unknown falls back to average", core.BaseMode("VWAP"), "101"},
		{"unset falls back to average", core.BaseMode(""), "101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectReference(tt.base, snapshot)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"want %s got %s", tt.want, got)
		})
	}
}

func TestSelectReference_ThinBookFallsBackToLast(t *testing.T) {
	// Snapshot construction substitutes the last price for empty book sides,
	// so the average degenerates to the last price.
	snapshot := testSnapshot("250", "250", "250")
	got := SelectReference(core.BaseAverage, snapshot)
	assert.True(t, decimal.RequireFromString("250").Equal(got))
}
