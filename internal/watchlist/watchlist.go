// Package watchlist keeps the set of tickers scanned on each scheduled run,
// persisted to a JSON state file so bot restarts keep user edits.
package watchlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type state struct {
	Tickers   []string  `json:"tickers"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Manager handles watchlist reads and edits with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *state
	filePath string
}

// NewManager creates a Manager, loading state from disk or seeding it with
// the configured tickers when no state file exists yet.
func NewManager(filePath string, seed []string) (*Manager, error) {
	st, err := loadState(filePath)
	if err != nil {
		return nil, err
	}
	m := &Manager{state: st, filePath: filePath}
	if len(st.Tickers) == 0 {
		for _, t := range seed {
			st.Tickers = append(st.Tickers, strings.ToUpper(strings.TrimSpace(t)))
		}
		sort.Strings(st.Tickers)
		if err := m.save(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func loadState(filePath string) (*state, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &state{}, nil
		}
		return nil, err
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (m *Manager) save() error {
	m.state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}
	// First run on a clean checkout: the state directory does not exist yet.
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(m.filePath, data, 0644)
}

// List returns a copy of the current tickers.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.state.Tickers))
	copy(out, m.state.Tickers)
	return out
}

// Add inserts a ticker; returns false if it was already present.
func (m *Manager) Add(ticker string) bool {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.state.Tickers {
		if t == ticker {
			return false
		}
	}
	m.state.Tickers = append(m.state.Tickers, ticker)
	sort.Strings(m.state.Tickers)
	if err := m.save(); err != nil {
		log.Errorf("failed to save watchlist: %v", err)
	}
	return true
}

// Remove drops a ticker; returns false if it was not present.
func (m *Manager) Remove(ticker string) bool {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.state.Tickers {
		if t == ticker {
			m.state.Tickers = append(m.state.Tickers[:i], m.state.Tickers[i+1:]...)
			if err := m.save(); err != nil {
				log.Errorf("failed to save watchlist: %v", err)
			}
			return true
		}
	}
	return false
}
