package store

import "time"

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
)

type Account struct {
	ID            string
	Name          string
	APIKeyHash    string
	WalletAddress string
	BalanceUnits  int64
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Party identifies one side of a ledger movement: either a real account
// or the system boundary where external deposits and withdrawals cross.
type Party struct {
	AccountID string
}

// System is the external value boundary.
var System = Party{}

func AccountParty(id string) Party { return Party{AccountID: id} }

func (p Party) IsSystem() bool { return p.AccountID == "" }

// column returns the nullable SQL representation.
func (p Party) column() *string {
	if p.IsSystem() {
		return nil
	}
	id := p.AccountID
	return &id
}

func partyFromColumn(id *string) Party {
	if id == nil {
		return System
	}
	return Party{AccountID: *id}
}

type EntryKind string

const (
	EntrySessionFee  EntryKind = "session_fee"
	EntryNFTPurchase EntryKind = "nft_purchase"
	EntryDeposit     EntryKind = "deposit"
	EntryWithdrawal  EntryKind = "withdrawal"
)

type LedgerEntry struct {
	ID          string
	From        Party
	To          Party
	AmountUnits int64
	Kind        EntryKind
	Description string
	RefType     string
	RefID       string
	Status      string
	CreatedAt   time.Time
}

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

type Session struct {
	ID        string
	Date      time.Time
	StartTime time.Time
	FeeUnits  int64
	Status    SessionStatus
	CreatedAt time.Time
}

type SessionRegistration struct {
	ID           string
	SessionID    string
	AccountID    string
	FeeUnits     int64
	RegisteredAt time.Time
}

type NFTStatus string

const (
	NFTAvailable NFTStatus = "available"
	NFTSold      NFTStatus = "sold"
	NFTCancelled NFTStatus = "cancelled"
)

func (s NFTStatus) Valid() bool {
	switch s {
	case NFTAvailable, NFTSold, NFTCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

type NFT struct {
	ID            string
	Name          string
	OwnerID       string
	PriceUnits    int64
	Status        NFTStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type TxnKind string

const (
	TxnBuy  TxnKind = "buy"
	TxnSell TxnKind = "sell"
)

type TxnStatus string

const (
	TxnPending   TxnStatus = "pending"
	TxnCompleted TxnStatus = "completed"
)

type NFTTransaction struct {
	ID         string
	NFTID      string
	BuyerID    string
	SellerID   string
	PriceUnits int64
	Kind       TxnKind
	Status     TxnStatus
	CreatedAt  time.Time
}

type RequestKind string

const (
	RequestDeposit  RequestKind = "deposit"
	RequestWithdraw RequestKind = "withdraw"
)

func (k RequestKind) Valid() bool {
	return k == RequestDeposit || k == RequestWithdraw
}

type RequestStatus string

const (
	RequestPending RequestStatus = "pending"
	RequestSuccess RequestStatus = "success"
	RequestFailed  RequestStatus = "failed"
)

// ValidResolution reports whether the status is a legal terminal state
// for a pending request.
func (s RequestStatus) ValidResolution() bool {
	return s == RequestSuccess || s == RequestFailed
}

type Request struct {
	ID            string
	AccountID     string
	Kind          RequestKind
	SMPUnits      int64
	USDTUnits     int64
	WalletAddress string
	Status        RequestStatus
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}
