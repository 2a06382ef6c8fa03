// Package token is the external fungible-token collaborator: it owns mint
// slots and finalizes their metadata. The mint layout is position-fixed
// (optional fields are a 4-byte presence tag plus the value), so it is
// written with encoding/binary rather than the record codec.
package token

import (
	"context"
	"encoding/binary"
	"fmt"

	"reviewledger/internal/domain"
)

// MintSize is the fixed size of a mint slot.
//
//	0..4    mint authority presence (u32 LE, 0 or 1)
//	4..36   mint authority
//	36..44  supply (u64 LE)
//	44      decimals
//	45      initialized flag
//	46..50  freeze authority presence (u32 LE)
//	50..82  freeze authority
const MintSize = 82

type Mint struct {
	MintAuthority   *domain.Address
	Supply          uint64
	Decimals        uint8
	Initialized     bool
	FreezeAuthority *domain.Address
}

// Program implements the "initialize mint metadata" capability over a
// ledger. The mint slot must already exist and be owned by the token
// collaborator identity.
type Program struct {
	ledger domain.Ledger
}

func NewProgram(l domain.Ledger) *Program { return &Program{ledger: l} }

func (p *Program) InitializeMint(ctx context.Context, mint, authority domain.Address, decimals uint8) error {
	slot, err := p.ledger.Read(ctx, mint)
	if err != nil {
		return fmt.Errorf("read mint slot: %w", err)
	}
	if slot.Owner != domain.TokenProgramID {
		return fmt.Errorf("mint slot %s owned by %s: %w", mint, slot.Owner, domain.ErrIllegalOwner)
	}
	if len(slot.Data) < MintSize {
		return fmt.Errorf("mint slot %s is %d bytes, need %d: %w", mint, len(slot.Data), MintSize, domain.ErrSizeExceeded)
	}
	if slot.Data[45] != 0 {
		return fmt.Errorf("mint %s: %w", mint, domain.ErrAlreadyInitialized)
	}

	m := Mint{MintAuthority: &authority, Decimals: decimals, Initialized: true}
	return p.ledger.Write(ctx, mint, EncodeMint(m))
}

// EncodeMint lays a mint out into its fixed MintSize-byte form.
func EncodeMint(m Mint) []byte {
	buf := make([]byte, MintSize)
	if m.MintAuthority != nil {
		binary.LittleEndian.PutUint32(buf[0:4], 1)
		copy(buf[4:36], m.MintAuthority.Bytes())
	}
	binary.LittleEndian.PutUint64(buf[36:44], m.Supply)
	buf[44] = m.Decimals
	if m.Initialized {
		buf[45] = 1
	}
	if m.FreezeAuthority != nil {
		binary.LittleEndian.PutUint32(buf[46:50], 1)
		copy(buf[50:82], m.FreezeAuthority.Bytes())
	}
	return buf
}

// ParseMint decodes a mint slot.
func ParseMint(data []byte) (Mint, error) {
	if len(data) < MintSize {
		return Mint{}, fmt.Errorf("mint data is %d bytes, need %d", len(data), MintSize)
	}
	var m Mint
	if binary.LittleEndian.Uint32(data[0:4]) == 1 {
		a, err := domain.AddressFromBytes(data[4:36])
		if err != nil {
			return Mint{}, err
		}
		m.MintAuthority = &a
	}
	m.Supply = binary.LittleEndian.Uint64(data[36:44])
	m.Decimals = data[44]
	m.Initialized = data[45] == 1
	if binary.LittleEndian.Uint32(data[46:50]) == 1 {
		a, err := domain.AddressFromBytes(data[50:82])
		if err != nil {
			return Mint{}, err
		}
		m.FreezeAuthority = &a
	}
	return m, nil
}
