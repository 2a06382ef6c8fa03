package address_test

import (
	"crypto/rand"
	"testing"

	"reviewledger/internal/address"
	"reviewledger/internal/domain"
)

func randAddr(t *testing.T) domain.Address {
	t.Helper()
	var a domain.Address
	if _, err := rand.Read(a[:]); err != nil {
		t.Fatalf("rand: %v", err)
	}
	return a
}

func TestDerive_Deterministic(t *testing.T) {
	program := randAddr(t)
	owner := randAddr(t)

	a1, b1, err := address.Derive(program, owner.Bytes(), []byte("Dune"))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	a2, b2, err := address.Derive(program, owner.Bytes(), []byte("Dune"))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if a1 != a2 || b1 != b2 {
		t.Fatalf("derivation not deterministic: %s/%d vs %s/%d", a1, b1, a2, b2)
	}
}

func TestDerive_DistinctInputsDistinctAddresses(t *testing.T) {
	program := randAddr(t)
	for i := 0; i < 50; i++ {
		owner, other := randAddr(t), randAddr(t)
		a1, _, err := address.Derive(program, owner.Bytes(), []byte("title"))
		if err != nil {
			t.Fatalf("derive: %v", err)
		}
		a2, _, err := address.Derive(program, other.Bytes(), []byte("title"))
		if err != nil {
			t.Fatalf("derive: %v", err)
		}
		a3, _, err := address.Derive(program, owner.Bytes(), []byte("other title"))
		if err != nil {
			t.Fatalf("derive: %v", err)
		}
		if a1 == a2 {
			t.Fatalf("distinct owners collided on %s", a1)
		}
		if a1 == a3 {
			t.Fatalf("distinct titles collided on %s", a1)
		}
	}
}

func TestDeriveWithBump_Rederives(t *testing.T) {
	program := randAddr(t)
	owner := randAddr(t)

	a, bump, err := address.Derive(program, owner.Bytes(), []byte("Dune"))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	again, err := address.DeriveWithBump(program, bump, owner.Bytes(), []byte("Dune"))
	if err != nil {
		t.Fatalf("rederive: %v", err)
	}
	if again != a {
		t.Fatalf("rederived %s, want %s", again, a)
	}
}

func TestVerifySeeds(t *testing.T) {
	program := randAddr(t)
	owner := randAddr(t)

	a, bump, err := address.Derive(program, owner.Bytes(), []byte("Dune"))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	seeds := [][]byte{owner.Bytes(), []byte("Dune"), {bump}}
	if err := address.VerifySeeds(program, a, seeds); err != nil {
		t.Fatalf("valid proof rejected: %v", err)
	}

	bad := [][]byte{owner.Bytes(), []byte("Not Dune"), {bump}}
	if err := address.VerifySeeds(program, a, bad); err == nil {
		t.Fatal("wrong seeds accepted")
	}
	if err := address.VerifySeeds(program, a, [][]byte{owner.Bytes()}); err == nil {
		t.Fatal("proof without bump accepted")
	}
}
