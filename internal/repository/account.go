package repository

import (
	"slices"
	"sync"

	"github.com/simonkvalheim/bankist/internal/model"
)

// AccountRepository is the in-memory account store. Accounts keep their
// insertion order and are unique by username. Reads return copies; the only
// way to change an account is through the repository's methods.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts []*model.Account
}

// NewAccountRepository creates an empty AccountRepository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

// Create appends an account to the store
func (r *AccountRepository) Create(acc *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(acc.Username) >= 0 {
		return model.ErrDuplicateUsername
	}
	r.accounts = append(r.accounts, acc.Clone())
	return nil
}

// GetByUsername retrieves a copy of the account with an exact username match
func (r *AccountRepository) GetByUsername(username string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(username)
	if i < 0 {
		return nil, model.ErrAccountNotFound
	}
	return r.accounts[i].Clone(), nil
}

// List returns copies of all accounts in insertion order
func (r *AccountRepository) List() []*model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Account, len(r.accounts))
	for i, acc := range r.accounts {
		out[i] = acc.Clone()
	}
	return out
}

// Count returns the number of accounts in the store
func (r *AccountRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// AppendMovements adds movements to the end of an account's history
func (r *AccountRepository) AppendMovements(username string, movs ...model.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(username)
	if i < 0 {
		return model.ErrAccountNotFound
	}
	r.accounts[i].Movements = append(r.accounts[i].Movements, movs...)
	return nil
}

// AppendTransfer appends debit to from and credit to to as one step. Neither
// leg is written unless both accounts exist.
func (r *AccountRepository) AppendTransfer(from, to string, debit, credit model.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, j := r.indexOf(from), r.indexOf(to)
	if i < 0 || j < 0 {
		return model.ErrAccountNotFound
	}
	r.accounts[i].Movements = append(r.accounts[i].Movements, debit)
	r.accounts[j].Movements = append(r.accounts[j].Movements, credit)
	return nil
}

// Delete removes an account permanently
func (r *AccountRepository) Delete(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(username)
	if i < 0 {
		return model.ErrAccountNotFound
	}
	r.accounts = slices.Delete(r.accounts, i, i+1)
	return nil
}

// indexOf must be called with mu held
func (r *AccountRepository) indexOf(username string) int {
	for i, acc := range r.accounts {
		if acc.Username == username {
			return i
		}
	}
	return -1
}
