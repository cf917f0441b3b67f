package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used in tests and local development.
// It enforces the same email uniqueness as the postgres store.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*Account  // id -> account
	addrs    map[string][]Address // account id -> addresses
	logs     []RewardLog
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]*Account),
		addrs:    make(map[string][]Address),
	}
}

func (m *Memory) findByEmailLocked(email string) *Account {
	email = NormalizeEmail(email)
	for _, a := range m.accounts {
		if NormalizeEmail(a.Email) == email {
			return a
		}
	}
	return nil
}

func (m *Memory) CreateAccount(ctx context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findByEmailLocked(a.Email) != nil {
		return ErrDuplicateEmail
	}

	a.ID = uuid.NewString()
	a.Email = NormalizeEmail(a.Email)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt

	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *Memory) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.findByEmailLocked(email)
	if a == nil {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *Memory) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *Memory) UpdateAccount(ctx context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.accounts[a.ID]
	if !ok {
		return ErrNotFound
	}

	if other := m.findByEmailLocked(a.Email); other != nil && other.ID != a.ID {
		return ErrDuplicateEmail
	}

	cp := *a
	cp.Email = NormalizeEmail(a.Email)
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	m.accounts[a.ID] = &cp
	return nil
}

func (m *Memory) ListAddresses(ctx context.Context, accountID string) ([]Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked(accountID), nil
}

func (m *Memory) listLocked(accountID string) []Address {
	src := m.addrs[accountID]
	out := make([]Address, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *Memory) clearDefaultLocked(accountID string) {
	list := m.addrs[accountID]
	for i := range list {
		list[i].IsDefault = false
	}
}

func (m *Memory) AddAddress(ctx context.Context, accountID string, a Address) ([]Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[accountID]; !ok {
		return nil, ErrNotFound
	}

	makeDefault := a.IsDefault || len(m.addrs[accountID]) == 0
	if makeDefault {
		m.clearDefaultLocked(accountID)
	}

	a.ID = uuid.NewString()
	a.IsDefault = makeDefault
	a.CreatedAt = time.Now()
	m.addrs[accountID] = append(m.addrs[accountID], a)

	return m.listLocked(accountID), nil
}

func (m *Memory) UpdateAddress(ctx context.Context, accountID, addressID string, p AddressPatch) ([]Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.addrs[accountID]
	idx := -1
	for i := range list {
		if list[i].ID == addressID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	if p.IsDefault {
		m.clearDefaultLocked(accountID)
	}

	a := &list[idx]
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.State != nil {
		a.State = *p.State
	}
	if p.ZipCode != nil {
		a.ZipCode = *p.ZipCode
	}
	if p.Country != nil {
		a.Country = *p.Country
	}
	a.IsDefault = p.IsDefault

	return m.listLocked(accountID), nil
}

func (m *Memory) DeleteAddress(ctx context.Context, accountID, addressID string) ([]Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.addrs[accountID]
	idx := -1
	for i := range list {
		if list[i].ID == addressID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	wasDefault := list[idx].IsDefault
	list = append(list[:idx], list[idx+1:]...)
	m.addrs[accountID] = list

	if wasDefault && len(list) > 0 {
		sorted := m.listLocked(accountID)
		oldest := sorted[0].ID
		for i := range list {
			if list[i].ID == oldest {
				list[i].IsDefault = true
			}
		}
	}

	return m.listLocked(accountID), nil
}

func (m *Memory) AddReward(ctx context.Context, accountID string, points int, activity string, metadata map[string]any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[accountID]
	if !ok {
		return 0, ErrNotFound
	}

	a.RewardPoints += points
	a.UpdatedAt = time.Now()

	m.logs = append(m.logs, RewardLog{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Points:    points,
		Activity:  activity,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	})

	return a.RewardPoints, nil
}
