package ledger

import "errors"

var (
	ErrInvalidTerms      = errors.New("invalid offer terms")
	ErrOfferNotFound     = errors.New("offer not found")
	ErrRequestNotFound   = errors.New("request not found")
	ErrDuplicateRequest  = errors.New("borrower already requested this offer")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrPaymentIndex      = errors.New("payment index out of range")
)
