package registry

import (
	"errors"
	"testing"
)

func TestCreateAndGet(t *testing.T) {
	reg := New()

	v := reg.Create("owner-1")
	if v.Address() == "" {
		t.Fatal("created vault should have an address")
	}
	if v.Owner() != "owner-1" {
		t.Fatalf("owner: got %s", v.Owner())
	}

	got, err := reg.Get(v.Address())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != v {
		t.Fatal("get should return the same instance")
	}
}

func TestIndependentInstances(t *testing.T) {
	reg := New()

	a := reg.Create("owner-a")
	b := reg.Create("owner-b")

	if a.Address() == b.Address() {
		t.Fatal("instances must have distinct addresses")
	}
	if reg.Len() != 2 {
		t.Fatalf("len: got %d, want 2", reg.Len())
	}
}

func TestGetUnknown(t *testing.T) {
	reg := New()

	if _, err := reg.Get("missing"); !errors.Is(err, ErrVaultNotFound) {
		t.Fatalf("expected ErrVaultNotFound, got %v", err)
	}
}
