package mockapi

import (
	"sync"
	"time"

	"pocket-panel/internal/domain"
)

type user struct {
	ID             string
	Username       string
	Email          string
	HashedPassword []byte
	CreatedAt      time.Time
}

func (u *user) profile() domain.UserProfile {
	return domain.UserProfile{ID: u.ID, Username: u.Username, Email: u.Email}
}

// memoryStore backs the mock backend. Unlike the panel core it is hit by
// concurrent HTTP handlers, so it locks.
type memoryStore struct {
	mu         sync.Mutex
	byUsername map[string]*user
	byEmail    map[string]*user
	byID       map[string]*user
	accounts   map[string][]domain.Account
	strategies map[string][]domain.Strategy
	trades     map[string][]domain.TradeRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		byUsername: make(map[string]*user),
		byEmail:    make(map[string]*user),
		byID:       make(map[string]*user),
		accounts:   make(map[string][]domain.Account),
		strategies: make(map[string][]domain.Strategy),
		trades:     make(map[string][]domain.TradeRecord),
	}
}

func (m *memoryStore) createUser(u *user) (usernameTaken, emailTaken bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUsername[u.Username]; ok {
		return true, false
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return false, true
	}
	m.byUsername[u.Username] = u
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return false, false
}

func (m *memoryStore) userByUsername(username string) *user {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byUsername[username]
}

func (m *memoryStore) userByID(id string) *user {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

func (m *memoryStore) accountsFor(userID string) []domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Account, len(m.accounts[userID]))
	copy(out, m.accounts[userID])
	return out
}

func (m *memoryStore) addAccount(userID string, a domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[userID] = append(m.accounts[userID], a)
}

func (m *memoryStore) accountByID(userID, id string) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts[userID] {
		if a.ID == id {
			return &a
		}
	}
	return nil
}

func (m *memoryStore) deleteAccount(userID, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.accounts[userID]
	for i, a := range list {
		if a.ID == id {
			m.accounts[userID] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

func (m *memoryStore) strategiesFor(userID string) []domain.Strategy {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Strategy, len(m.strategies[userID]))
	copy(out, m.strategies[userID])
	return out
}

func (m *memoryStore) addStrategy(userID string, st domain.Strategy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategies[userID] = append(m.strategies[userID], st)
}

func (m *memoryStore) strategyByID(userID, id string) *domain.Strategy {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.strategies[userID] {
		if st.ID == id {
			return &st
		}
	}
	return nil
}

func (m *memoryStore) strategyByName(userID, name string) *domain.Strategy {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.strategies[userID] {
		if st.Name == name {
			return &st
		}
	}
	return nil
}

func (m *memoryStore) updateStrategy(userID string, st domain.Strategy) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.strategies[userID]
	for i := range list {
		if list[i].ID == st.ID {
			st.CreatedAt = list[i].CreatedAt
			list[i] = st
			return true
		}
	}
	return false
}

// addTrade prepends so the history snapshot stays reverse-chronological.
func (m *memoryStore) addTrade(userID string, t domain.TradeRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades[userID] = append([]domain.TradeRecord{t}, m.trades[userID]...)
}

func (m *memoryStore) tradesFor(userID string, limit int) []domain.TradeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.trades[userID]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]domain.TradeRecord, len(list))
	copy(out, list)
	return out
}

// recentWins counts winning trades on an account since the cutoff. Charging
// mode scales the stake by it.
func (m *memoryStore) recentWins(userID, accountID string, since time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	wins := 0
	for _, t := range m.trades[userID] {
		if t.AccountID == accountID && t.Result == domain.ResultWin && t.CreatedAt.After(since) {
			wins++
		}
	}
	return wins
}
