package watchlist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_SeedsWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")

	m, err := NewManager(path, []string{"nvda", " aapl ", "MSFT"})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, m.List())
	assert.FileExists(t, path)
}

func TestNewManager_CreatesStateDirectory(t *testing.T) {
	// The default config path lives under a data/ directory that does not
	// exist on a clean checkout.
	path := filepath.Join(t.TempDir(), "data", "watchlist.json")

	m, err := NewManager(path, []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, m.List())
	assert.FileExists(t, path)
}

func TestAddAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	m, err := NewManager(path, []string{"AAPL"})
	require.NoError(t, err)

	assert.True(t, m.Add("tsla"))
	assert.False(t, m.Add("TSLA"), "duplicate add should be rejected")
	assert.False(t, m.Add("  "), "blank ticker should be rejected")
	assert.Equal(t, []string{"AAPL", "TSLA"}, m.List())

	assert.True(t, m.Remove("aapl"))
	assert.False(t, m.Remove("AAPL"), "removing an absent ticker should report false")
	assert.Equal(t, []string{"TSLA"}, m.List())
}

func TestStatePersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")

	m, err := NewManager(path, []string{"AAPL"})
	require.NoError(t, err)
	m.Add("NVDA")

	// A second manager on the same file sees the edits, not the seed.
	reloaded, err := NewManager(path, []string{"SPY"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "NVDA"}, reloaded.List())
}

func TestListReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	m, err := NewManager(path, []string{"AAPL", "NVDA"})
	require.NoError(t, err)

	got := m.List()
	got[0] = "MUTATED"
	assert.Equal(t, []string{"AAPL", "NVDA"}, m.List())
}
