package store

import (
	"errors"
	"testing"
)

func TestResolveDepositCreditsExactlyOnce(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	accountID := mustCreateAccount(t, st, ctx, "alice", 0)
	req, err := st.CreateRequest(ctx, accountID, RequestDeposit, 500, 500, "wallet-alice-000000")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if req.Status != RequestPending {
		t.Fatalf("status = %s, want pending", req.Status)
	}

	resolved, err := st.ResolveRequest(ctx, req.ID, RequestSuccess)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != RequestSuccess || resolved.ResolvedAt == nil {
		t.Fatalf("unexpected resolved request: %+v", resolved)
	}
	if bal := mustBalance(t, st, ctx, accountID); bal != 500 {
		t.Fatalf("balance = %d, want 500", bal)
	}

	if _, err := st.ResolveRequest(ctx, req.ID, RequestSuccess); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("second resolve err = %v, want ErrStateConflict", err)
	}
	if bal := mustBalance(t, st, ctx, accountID); bal != 500 {
		t.Fatalf("double credit: balance = %d", bal)
	}

	entries, err := st.ListLedgerEntries(ctx, LedgerFilter{AccountID: accountID}, 10, 0)
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(entries))
	}
	if e := entries[0]; !e.From.IsSystem() || e.To.AccountID != accountID || e.Kind != EntryDeposit {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestResolveFailedMovesNoFunds(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	accountID := mustCreateAccount(t, st, ctx, "bob", 0)
	req, err := st.CreateRequest(ctx, accountID, RequestDeposit, 500, 500, "wallet-bob-00000000")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	resolved, err := st.ResolveRequest(ctx, req.ID, RequestFailed)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != RequestFailed {
		t.Fatalf("status = %s", resolved.Status)
	}
	if bal := mustBalance(t, st, ctx, accountID); bal != 0 {
		t.Fatalf("failed deposit credited: %d", bal)
	}
}

func TestResolveWithdrawalDebits(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	accountID := mustCreateAccount(t, st, ctx, "carol", 1000)
	req, err := st.CreateRequest(ctx, accountID, RequestWithdraw, 600, 600, "wallet-carol-000000")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := st.ResolveRequest(ctx, req.ID, RequestSuccess); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if bal := mustBalance(t, st, ctx, accountID); bal != 400 {
		t.Fatalf("balance = %d, want 400", bal)
	}
}

func TestResolveWithdrawalInsufficientLeavesPending(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	accountID := mustCreateAccount(t, st, ctx, "dave", 100)
	req, err := st.CreateRequest(ctx, accountID, RequestWithdraw, 600, 600, "wallet-dave-0000000")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	_, err = st.ResolveRequest(ctx, req.ID, RequestSuccess)
	if _, ok := IsInsufficientBalance(err); !ok {
		t.Fatalf("err = %v, want InsufficientBalanceError", err)
	}
	got, err := st.GetRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.Status != RequestPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}
	if bal := mustBalance(t, st, ctx, accountID); bal != 100 {
		t.Fatalf("balance changed: %d", bal)
	}
}

func TestResolveRejectsBadInputs(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	if _, err := st.ResolveRequest(ctx, "missing", RequestSuccess); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing request err = %v", err)
	}
	accountID := mustCreateAccount(t, st, ctx, "erin", 0)
	req, err := st.CreateRequest(ctx, accountID, RequestDeposit, 10, 10, "wallet-erin-0000000")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := st.ResolveRequest(ctx, req.ID, RequestPending); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("pending resolution err = %v, want ErrStateConflict", err)
	}
}

func TestListRequestsFilters(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	alice := mustCreateAccount(t, st, ctx, "alice", 0)
	bob := mustCreateAccount(t, st, ctx, "bob", 0)
	for _, id := range []string{alice, bob} {
		if _, err := st.CreateRequest(ctx, id, RequestDeposit, 100, 100, "wallet-0123456789"); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	mine, err := st.ListRequests(ctx, RequestFilter{AccountID: alice}, 10, 0)
	if err != nil || len(mine) != 1 {
		t.Fatalf("filtered list = %d, err %v", len(mine), err)
	}
	pending, err := st.ListRequests(ctx, RequestFilter{Status: RequestPending}, 10, 0)
	if err != nil || len(pending) != 2 {
		t.Fatalf("pending list = %d, err %v", len(pending), err)
	}
}
