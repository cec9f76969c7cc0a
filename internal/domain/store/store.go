package store

import (
	"context"
	"errors"
)

// Document keys. Each holds one full JSON array, rewritten on every mutation
// of the corresponding collection. The two documents are independent: a
// users write and a ledger write are separate, non-atomic operations.
const (
	KeyUsers      = "users"
	KeyLoanOffers = "loanOffers"
)

var ErrKeyNotFound = errors.New("document not found")

// Store is the persistence adapter: a durable key-value store of whole JSON
// documents.
type Store interface {
	// Load returns the document stored under key, or ErrKeyNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save overwrites the document stored under key.
	Save(ctx context.Context, key string, doc []byte) error
}
