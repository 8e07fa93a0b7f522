package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrEmptyPlayerName = errors.New("player name is empty")
	ErrPlayerNameTaken = errors.New("player name is already taken")

	// Payment errors
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidPaymentType   = errors.New("invalid payment type")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// Confirmation errors
	ErrPaymentAlreadyConfirmed = errors.New("payment is already confirmed")
	ErrSplitMismatch           = errors.New("method split does not sum to payment amount")
	ErrSplitNotAllowed         = errors.New("method split only applies to cash-outs")

	// Pot errors
	ErrCashOutExceedsPot = errors.New("cash-out exceeds available pot")
)
