package store

import (
	"errors"
	"testing"
)

func TestCreateAndFetchAccount(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	created, err := st.CreateAccount(ctx, "alice", "key-alice", "wallet-alice-000000")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if created.BalanceUnits != 0 || created.Status != AccountActive {
		t.Fatalf("unexpected new account: %+v", created)
	}

	got, err := st.GetAccountByAPIKey(ctx, "key-alice")
	if err != nil {
		t.Fatalf("get by api key: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("got %q, want %q", got.ID, created.ID)
	}
	if got.APIKeyHash != HashAPIKey("key-alice") {
		t.Fatal("api key stored unhashed")
	}

	if _, err := st.GetAccountByAPIKey(ctx, "wrong-key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := st.GetAccount(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListAccountsPagination(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		mustCreateAccount(t, st, ctx, "acct"+string(rune('a'+i)), 0)
	}
	page, err := st.ListAccounts(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("len = %d, want 2", len(page))
	}
	rest, err := st.ListAccounts(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("len = %d, want 1", len(rest))
	}
}
