// Package mysql is the durable ledger gateway. It stores one row per slot
// and leaves funder economics to the environment: rent is priced and
// recorded on the slot, but identity balances live outside this table.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"reviewledger/internal/adapters/observability"
	"reviewledger/internal/address"
	"reviewledger/internal/domain"
)

const duplicateEntryErrNo = 1062

type Ledger struct{ db *sql.DB }

func New(db *sql.DB) *Ledger { return &Ledger{db: db} }

// EnsureSchema creates the slots table when missing.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, schemaSQL)
	return err
}

func (l *Ledger) Exists(ctx context.Context, addr domain.Address) (bool, error) {
	observability.ObserveLedger("mysql", "exists")
	var one int
	err := l.db.QueryRowContext(ctx, existsSlotSQL, addr.Bytes()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *Ledger) Create(ctx context.Context, p domain.CreateParams) error {
	observability.ObserveLedger("mysql", "create")
	if err := address.VerifySeeds(p.Authority, p.Address, p.Seeds); err != nil {
		return fmt.Errorf("seed proof for %s rejected: %w", p.Address, err)
	}

	rent := domain.RentMinimum(p.Size)
	zero := make([]byte, p.Size)
	_, err := l.db.ExecContext(ctx, insertSlotSQL, p.Address.Bytes(), p.Owner.Bytes(), p.Size, rent, zero)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == duplicateEntryErrNo {
			return fmt.Errorf("slot %s: %w", p.Address, domain.ErrAlreadyInitialized)
		}
		return err
	}
	return nil
}

func (l *Ledger) Read(ctx context.Context, addr domain.Address) (domain.Slot, error) {
	observability.ObserveLedger("mysql", "read")
	var (
		ownerRaw []byte
		lamports uint64
		data     []byte
	)
	err := l.db.QueryRowContext(ctx, getSlotSQL, addr.Bytes()).Scan(&ownerRaw, &lamports, &data)
	if err == sql.ErrNoRows {
		return domain.Slot{}, fmt.Errorf("slot %s: %w", addr, domain.ErrNotInitialized)
	}
	if err != nil {
		return domain.Slot{}, err
	}
	owner, err := domain.AddressFromBytes(ownerRaw)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("slot %s has corrupt owner: %w", addr, err)
	}
	return domain.Slot{Owner: owner, Lamports: lamports, Data: data}, nil
}

func (l *Ledger) Write(ctx context.Context, addr domain.Address, data []byte) error {
	observability.ObserveLedger("mysql", "write")
	var size uint64
	err := l.db.QueryRowContext(ctx, getSlotSizeSQL, addr.Bytes()).Scan(&size)
	if err == sql.ErrNoRows {
		return fmt.Errorf("slot %s: %w", addr, domain.ErrNotInitialized)
	}
	if err != nil {
		return err
	}
	if uint64(len(data)) > size {
		return fmt.Errorf("write of %d bytes into %d-byte slot %s: %w", len(data), size, addr, domain.ErrSizeExceeded)
	}
	padded := make([]byte, size)
	copy(padded, data)
	_, err = l.db.ExecContext(ctx, updateSlotDataSQL, padded, addr.Bytes())
	return err
}

// ListAddresses returns every slot address in creation order, for tooling
// that walks the whole ledger.
func (l *Ledger) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	rows, err := l.db.QueryContext(ctx, listAddressesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		a, err := domain.AddressFromBytes(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
