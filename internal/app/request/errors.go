package request

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidWallet  = errors.New("invalid_wallet_address")
)
