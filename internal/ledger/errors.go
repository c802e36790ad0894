package ledger

import "errors"

var (
	// ErrInvalidInput covers bad names, non-positive amounts, duplicates and
	// unknown players.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientFunds indicates a bet larger than the player's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
