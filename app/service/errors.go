package service

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrValidation           = errors.New("boleto validation failed")
	ErrTransactionRefReused = errors.New("transaction ref already used")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrLedgerDisabled       = errors.New("submission ledger is not configured")
)
