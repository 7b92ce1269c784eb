package s0_data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pulse/backend/internal/contracts"
)

func testSet(universe string, symbols ...string) *contracts.HardDataSet {
	records := make(map[string]contracts.HardDataRecord, len(symbols))
	for _, sym := range symbols {
		records[sym] = contracts.HardDataRecord{
			Symbol: sym,
			Sum19:  contracts.Float(1900),
			AsOf:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		}
	}
	return &contracts.HardDataSet{
		Universe: universe,
		BuiltAt:  time.Now(),
		Symbols:  symbols,
		Records:  records,
	}
}

func TestStore_PublishAndGet(t *testing.T) {
	store := NewStore()

	store.Publish(testSet("nifty50", "RELIANCE.NS", "TCS.NS"))

	set, err := store.Get("nifty50")
	require.NoError(t, err)
	assert.Equal(t, "nifty50", set.Universe)
	assert.Equal(t, 2, set.Count())
}

func TestStore_GetNotBuilt(t *testing.T) {
	store := NewStore()

	_, err := store.Get("nifty50")
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrHardDataNotBuilt)
}

func TestStore_PublishReplaces(t *testing.T) {
	store := NewStore()

	store.Publish(testSet("nifty50", "RELIANCE.NS", "TCS.NS", "INFY.NS"))
	store.Publish(testSet("nifty50", "RELIANCE.NS"))

	set, err := store.Get("nifty50")
	require.NoError(t, err)
	assert.Equal(t, 1, set.Count())
	assert.Equal(t, []string{"RELIANCE.NS"}, set.Symbols)
}

func TestStore_Universes(t *testing.T) {
	store := NewStore()
	assert.Empty(t, store.Universes())

	store.Publish(testSet("nifty50", "RELIANCE.NS"))
	store.Publish(testSet("banknifty", "HDFCBANK.NS"))

	assert.Equal(t, []string{"banknifty", "nifty50"}, store.Universes())
}
