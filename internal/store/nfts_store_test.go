package store

import (
	"errors"
	"testing"
)

func TestBuyImmediate(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	seller := mustCreateAccount(t, st, ctx, "seller", 0)
	buyer := mustCreateAccount(t, st, ctx, "buyer", 10000)
	nftID := mustCreateNFT(t, st, ctx, "gem", seller, 5000)

	res, err := st.BuyImmediate(ctx, nftID, buyer)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if res.NewBalanceUnits != 5000 {
		t.Fatalf("buyer balance = %d, want 5000", res.NewBalanceUnits)
	}
	if res.NFT.OwnerID != buyer || res.NFT.Status != NFTSold || res.NFT.PaymentStatus != PaymentCompleted {
		t.Fatalf("unexpected nft state: %+v", res.NFT)
	}
	if bal := mustBalance(t, st, ctx, seller); bal != 5000 {
		t.Fatalf("seller balance = %d, want 5000", bal)
	}

	txns, err := st.ListTransactionsByAccount(ctx, buyer, 10, 0)
	if err != nil {
		t.Fatalf("list txns: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("transactions = %d, want buy+sell pair", len(txns))
	}
	for _, txn := range txns {
		if txn.Status != TxnCompleted || txn.PriceUnits != 5000 {
			t.Fatalf("unexpected txn: %+v", txn)
		}
	}
}

func TestBuyImmediateFailuresLeaveStateUntouched(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	seller := mustCreateAccount(t, st, ctx, "seller", 0)
	buyer := mustCreateAccount(t, st, ctx, "buyer", 100)
	nftID := mustCreateNFT(t, st, ctx, "gem", seller, 5000)

	_, err := st.BuyImmediate(ctx, nftID, buyer)
	if _, ok := IsInsufficientBalance(err); !ok {
		t.Fatalf("err = %v, want InsufficientBalanceError", err)
	}
	nft, err := st.GetNFT(ctx, nftID)
	if err != nil {
		t.Fatalf("get nft: %v", err)
	}
	if nft.OwnerID != seller || nft.Status != NFTAvailable {
		t.Fatalf("partial transfer: %+v", nft)
	}
	if bal := mustBalance(t, st, ctx, buyer); bal != 100 {
		t.Fatalf("buyer balance changed: %d", bal)
	}
	entries, err := st.ListLedgerEntries(ctx, LedgerFilter{AccountID: buyer}, 10, 0)
	if err != nil || len(entries) != 0 {
		t.Fatalf("ledger leaked: %v %v", entries, err)
	}

	if _, err := st.BuyImmediate(ctx, nftID, seller); !errors.Is(err, ErrSelfPurchase) {
		t.Fatalf("self purchase err = %v", err)
	}
	if _, err := st.BuyImmediate(ctx, "missing", buyer); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing nft err = %v", err)
	}
}

func TestBuyImmediateRefusesNonAvailable(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	seller := mustCreateAccount(t, st, ctx, "seller", 0)
	buyer := mustCreateAccount(t, st, ctx, "buyer", 10000)
	other := mustCreateAccount(t, st, ctx, "other", 10000)
	nftID := mustCreateNFT(t, st, ctx, "gem", seller, 1000)

	if _, err := st.BuyImmediate(ctx, nftID, buyer); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := st.BuyImmediate(ctx, nftID, other); !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("err = %v, want ErrNotAvailable", err)
	}

	cancelled := mustCreateNFT(t, st, ctx, "dud", seller, 1000)
	if _, err := st.UpdateNFTStatus(ctx, cancelled, NFTCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := st.BuyImmediate(ctx, cancelled, other); !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("cancelled buy err = %v", err)
	}
}

func TestDeferredThenPayMatchesImmediate(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	seller := mustCreateAccount(t, st, ctx, "seller", 0)
	buyer := mustCreateAccount(t, st, ctx, "buyer", 1000)
	nftID := mustCreateNFT(t, st, ctx, "relic", seller, 3000)

	res, err := st.BuyDeferred(ctx, nftID, buyer)
	if err != nil {
		t.Fatalf("buy deferred: %v", err)
	}
	if res.NFT.OwnerID != buyer || res.NFT.PaymentStatus != PaymentPending {
		t.Fatalf("unexpected deferred state: %+v", res.NFT)
	}
	if bal := mustBalance(t, st, ctx, buyer); bal != 1000 {
		t.Fatalf("deferred buy moved funds: %d", bal)
	}

	_, err = st.PayPending(ctx, nftID, buyer)
	if _, ok := IsInsufficientBalance(err); !ok {
		t.Fatalf("err = %v, want InsufficientBalanceError", err)
	}

	if _, err := st.Pool.Exec(ctx, `UPDATE accounts SET balance_units = 3000 WHERE id = $1`, buyer); err != nil {
		t.Fatalf("top up: %v", err)
	}
	paid, err := st.PayPending(ctx, nftID, buyer)
	if err != nil {
		t.Fatalf("pay pending: %v", err)
	}
	if paid.NewBalanceUnits != 0 {
		t.Fatalf("buyer balance = %d, want 0", paid.NewBalanceUnits)
	}
	if paid.NFT.PaymentStatus != PaymentCompleted {
		t.Fatalf("payment status = %s", paid.NFT.PaymentStatus)
	}
	if bal := mustBalance(t, st, ctx, seller); bal != 3000 {
		t.Fatalf("seller balance = %d, want 3000", bal)
	}

	// Same end state as an immediate purchase at equal price.
	if _, err := st.PayPending(ctx, nftID, buyer); !errors.Is(err, ErrNotFound) {
		t.Fatalf("re-pay err = %v, want ErrNotFound", err)
	}
}

func TestCheckoutAllOrNothing(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	seller := mustCreateAccount(t, st, ctx, "seller", 0)
	buyer := mustCreateAccount(t, st, ctx, "buyer", 0)
	a := mustCreateNFT(t, st, ctx, "a", seller, 2000)
	b := mustCreateNFT(t, st, ctx, "b", seller, 3000)

	for _, id := range []string{a, b} {
		if _, err := st.BuyDeferred(ctx, id, buyer); err != nil {
			t.Fatalf("defer %s: %v", id, err)
		}
	}

	if _, err := st.Pool.Exec(ctx, `UPDATE accounts SET balance_units = 4000 WHERE id = $1`, buyer); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := st.Checkout(ctx, buyer)
	ib, ok := IsInsufficientBalance(err)
	if !ok {
		t.Fatalf("err = %v, want InsufficientBalanceError", err)
	}
	if ib.RequiredUnits != 5000 || ib.AvailableUnits != 4000 {
		t.Fatalf("unexpected detail: %+v", ib)
	}
	pending, total, err := st.ListPendingByBuyer(ctx, buyer)
	if err != nil || len(pending) != 2 || total != 5000 {
		t.Fatalf("pending items disturbed: %d total %d err %v", len(pending), total, err)
	}
	if bal := mustBalance(t, st, ctx, buyer); bal != 4000 {
		t.Fatalf("balance changed on failed checkout: %d", bal)
	}

	if _, err := st.Pool.Exec(ctx, `UPDATE accounts SET balance_units = 6000 WHERE id = $1`, buyer); err != nil {
		t.Fatalf("seed: %v", err)
	}
	res, err := st.Checkout(ctx, buyer)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if res.ProcessedCount != 2 || res.TotalUnits != 5000 || res.NewBalanceUnits != 1000 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if bal := mustBalance(t, st, ctx, seller); bal != 5000 {
		t.Fatalf("seller balance = %d, want 5000", bal)
	}
	for _, id := range []string{a, b} {
		nft, err := st.GetNFT(ctx, id)
		if err != nil {
			t.Fatalf("get nft: %v", err)
		}
		if nft.PaymentStatus != PaymentCompleted {
			t.Fatalf("nft %s payment status = %s", id, nft.PaymentStatus)
		}
	}
}

func TestCheckoutWithNothingPendingIsNotAnError(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	buyer := mustCreateAccount(t, st, ctx, "buyer", 700)
	res, err := st.Checkout(ctx, buyer)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if res.ProcessedCount != 0 || res.TotalUnits != 0 || res.NewBalanceUnits != 700 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestUpdatePriceOnlyWhileAvailable(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	seller := mustCreateAccount(t, st, ctx, "seller", 0)
	buyer := mustCreateAccount(t, st, ctx, "buyer", 10000)
	nftID := mustCreateNFT(t, st, ctx, "gem", seller, 1000)

	updated, err := st.UpdateNFTPrice(ctx, nftID, 2500)
	if err != nil {
		t.Fatalf("update price: %v", err)
	}
	if updated.PriceUnits != 2500 {
		t.Fatalf("price = %d, want 2500", updated.PriceUnits)
	}

	if _, err := st.BuyImmediate(ctx, nftID, buyer); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := st.UpdateNFTPrice(ctx, nftID, 9000); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("err = %v, want ErrStateConflict", err)
	}
	if _, err := st.UpdateNFTStatus(ctx, nftID, NFTCancelled); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("cancel sold err = %v, want ErrStateConflict", err)
	}
}

func TestDeleteNFTRefusedOnceTransacted(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	seller := mustCreateAccount(t, st, ctx, "seller", 0)
	buyer := mustCreateAccount(t, st, ctx, "buyer", 10000)

	clean := mustCreateNFT(t, st, ctx, "clean", seller, 1000)
	if err := st.DeleteNFT(ctx, clean); err != nil {
		t.Fatalf("delete untouched nft: %v", err)
	}
	if _, err := st.GetNFT(ctx, clean); !errors.Is(err, ErrNotFound) {
		t.Fatalf("nft survived delete: %v", err)
	}

	traded := mustCreateNFT(t, st, ctx, "traded", seller, 1000)
	if _, err := st.BuyDeferred(ctx, traded, buyer); err != nil {
		t.Fatalf("defer: %v", err)
	}
	if err := st.DeleteNFT(ctx, traded); !errors.Is(err, ErrHasTransactions) {
		t.Fatalf("err = %v, want ErrHasTransactions", err)
	}
}
