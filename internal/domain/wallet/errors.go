package wallet

import "artnexus/internal/pkg/apperr"

var (
	ErrInvalidAmount     = apperr.New(apperr.InvalidAmount, "amount must be positive")
	ErrInsufficientFunds = apperr.New(apperr.InsufficientFunds, "insufficient balance")
)
