// Package memory is the in-process ledger: a map of addressed slots with
// lamport balances and rent charging. It backs the tests and the embedded
// default.
package memory

import (
	"context"
	"fmt"
	"sync"

	"reviewledger/internal/adapters/observability"
	"reviewledger/internal/address"
	"reviewledger/internal/domain"
)

type slot struct {
	owner    domain.Address
	lamports uint64
	data     []byte
}

type Ledger struct {
	mu       sync.RWMutex
	slots    map[domain.Address]*slot
	balances map[domain.Address]uint64
}

func New() *Ledger {
	return &Ledger{
		slots:    make(map[domain.Address]*slot),
		balances: make(map[domain.Address]uint64),
	}
}

// Fund credits an identity's balance, the way an airdrop or transfer would.
func (l *Ledger) Fund(addr domain.Address, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[addr] += lamports
}

// Balance reports the free lamports held by an identity.
func (l *Ledger) Balance(addr domain.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[addr]
}

func (l *Ledger) Exists(_ context.Context, addr domain.Address) (bool, error) {
	observability.ObserveLedger("memory", "exists")
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.slots[addr]
	return ok, nil
}

func (l *Ledger) Create(_ context.Context, p domain.CreateParams) error {
	observability.ObserveLedger("memory", "create")
	if err := address.VerifySeeds(p.Authority, p.Address, p.Seeds); err != nil {
		return fmt.Errorf("seed proof for %s rejected: %w", p.Address, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.slots[p.Address]; ok {
		return fmt.Errorf("slot %s: %w", p.Address, domain.ErrAlreadyInitialized)
	}
	rent := domain.RentMinimum(p.Size)
	if l.balances[p.Funder] < rent {
		return fmt.Errorf("funder %s holds %d lamports, rent is %d: %w",
			p.Funder, l.balances[p.Funder], rent, domain.ErrAllocationFailed)
	}
	l.balances[p.Funder] -= rent

	l.slots[p.Address] = &slot{
		owner:    p.Owner,
		lamports: rent,
		data:     make([]byte, p.Size), // zero-filled per the Ledger contract
	}
	return nil
}

func (l *Ledger) Read(_ context.Context, addr domain.Address) (domain.Slot, error) {
	observability.ObserveLedger("memory", "read")
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.slots[addr]
	if !ok {
		return domain.Slot{}, fmt.Errorf("slot %s: %w", addr, domain.ErrNotInitialized)
	}
	data := make([]byte, len(s.data))
	copy(data, s.data)
	return domain.Slot{Owner: s.owner, Lamports: s.lamports, Data: data}, nil
}

func (l *Ledger) Write(_ context.Context, addr domain.Address, data []byte) error {
	observability.ObserveLedger("memory", "write")
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[addr]
	if !ok {
		return fmt.Errorf("slot %s: %w", addr, domain.ErrNotInitialized)
	}
	if len(data) > len(s.data) {
		return fmt.Errorf("write of %d bytes into %d-byte slot %s: %w",
			len(data), len(s.data), addr, domain.ErrSizeExceeded)
	}
	copy(s.data, data)
	for i := len(data); i < len(s.data); i++ {
		s.data[i] = 0
	}
	return nil
}
