// Package marketplace owns the in-memory offer ledger and is the only
// mutation entry point for it. Every write applies a pure ledger operation,
// persists the full document, and only then commits the new ledger, so the
// visible state never reflects a failed operation.
package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"loanverse/internal/domain/ledger"
	"loanverse/internal/domain/store"
	"loanverse/pkg/id"
)

var ErrNotOfferOwner = errors.New("offer belongs to a different lender")

type Usecase struct {
	mu     sync.RWMutex
	ledger ledger.Ledger
	store  store.Store
}

// NewUsecase rehydrates the ledger from the persisted document. A missing
// document means a fresh install and yields an empty ledger.
func NewUsecase(ctx context.Context, st store.Store) (*Usecase, error) {
	u := &Usecase{store: st}
	doc, err := st.Load(ctx, store.KeyLoanOffers)
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
		u.ledger = ledger.Ledger{}
	case err != nil:
		return nil, fmt.Errorf("load ledger: %w", err)
	default:
		if err := json.Unmarshal(doc, &u.ledger); err != nil {
			return nil, fmt.Errorf("decode ledger: %w", err)
		}
	}
	return u, nil
}

type CreateOfferInput struct {
	Lender         string
	Amount         decimal.Decimal
	InterestRate   decimal.Decimal
	DurationMonths int
}

func (u *Usecase) CreateOffer(ctx context.Context, in CreateOfferInput) (ledger.LoanOffer, error) {
	return u.mutate(ctx, func(l ledger.Ledger) (ledger.Ledger, ledger.LoanOffer, error) {
		return l.CreateOffer(id.NextOfferID(), in.Lender, in.Amount, in.InterestRate, in.DurationMonths)
	})
}

func (u *Usecase) RequestLoan(ctx context.Context, offerID int64, borrower string) (ledger.LoanOffer, error) {
	return u.mutate(ctx, func(l ledger.Ledger) (ledger.Ledger, ledger.LoanOffer, error) {
		return l.RequestLoan(offerID, borrower)
	})
}

// ApproveRequest transitions the borrower's request to approved. Only the
// offer's own lender may act on it.
func (u *Usecase) ApproveRequest(ctx context.Context, offerID int64, borrower, actingLender string) (ledger.LoanOffer, error) {
	return u.mutate(ctx, func(l ledger.Ledger) (ledger.Ledger, ledger.LoanOffer, error) {
		if err := u.checkOwner(l, offerID, actingLender); err != nil {
			return l, ledger.LoanOffer{}, err
		}
		return l.ApproveRequest(offerID, borrower)
	})
}

func (u *Usecase) RejectRequest(ctx context.Context, offerID int64, borrower, actingLender string) (ledger.LoanOffer, error) {
	return u.mutate(ctx, func(l ledger.Ledger) (ledger.Ledger, ledger.LoanOffer, error) {
		if err := u.checkOwner(l, offerID, actingLender); err != nil {
			return l, ledger.LoanOffer{}, err
		}
		return l.RejectRequest(offerID, borrower)
	})
}

// RecordPayment marks the installment at monthIndex (0-based) paid on the
// borrower's own approved request.
func (u *Usecase) RecordPayment(ctx context.Context, offerID int64, borrower string, monthIndex int) (ledger.LoanOffer, error) {
	return u.mutate(ctx, func(l ledger.Ledger) (ledger.Ledger, ledger.LoanOffer, error) {
		return l.RecordPayment(offerID, borrower, monthIndex)
	})
}

// ClearLedger wipes every offer, request, and schedule. Admin-only.
func (u *Usecase) ClearLedger(ctx context.Context) error {
	_, err := u.mutate(ctx, func(ledger.Ledger) (ledger.Ledger, ledger.LoanOffer, error) {
		return ledger.Ledger{}, ledger.LoanOffer{}, nil
	})
	return err
}

func (u *Usecase) checkOwner(l ledger.Ledger, offerID int64, lender string) error {
	offer, ok := l.Offer(offerID)
	if !ok {
		return ledger.ErrOfferNotFound
	}
	if offer.Lender != lender {
		return ErrNotOfferOwner
	}
	return nil
}

// mutate serializes all writes: apply the pure operation, persist the
// resulting document, then commit it in memory. Persistence failure leaves
// the ledger untouched.
func (u *Usecase) mutate(ctx context.Context, fn func(ledger.Ledger) (ledger.Ledger, ledger.LoanOffer, error)) (ledger.LoanOffer, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	next, offer, err := fn(u.ledger)
	if err != nil {
		return ledger.LoanOffer{}, err
	}
	if next == nil {
		next = ledger.Ledger{}
	}
	doc, err := json.Marshal(next)
	if err != nil {
		return ledger.LoanOffer{}, fmt.Errorf("encode ledger: %w", err)
	}
	if err := u.store.Save(ctx, store.KeyLoanOffers, doc); err != nil {
		return ledger.LoanOffer{}, fmt.Errorf("persist ledger: %w", err)
	}
	u.ledger = next
	return offer, nil
}

// Snapshot returns the current ledger. Offers are never mutated in place, so
// sharing the backing arrays with readers is safe.
func (u *Usecase) Snapshot() ledger.Ledger {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make(ledger.Ledger, len(u.ledger))
	copy(out, u.ledger)
	return out
}

// Offer returns a single offer by id.
func (u *Usecase) Offer(offerID int64) (ledger.LoanOffer, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	offer, ok := u.ledger.Offer(offerID)
	if !ok {
		return ledger.LoanOffer{}, ledger.ErrOfferNotFound
	}
	return offer, nil
}

// OffersBy lists the offers created by one lender.
func (u *Usecase) OffersBy(lender string) ledger.Ledger {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var out ledger.Ledger
	for _, o := range u.ledger {
		if o.Lender == lender {
			out = append(out, o)
		}
	}
	return out
}

// AvailableFor lists offers the borrower can still request: not their own,
// and not already requested in any status.
func (u *Usecase) AvailableFor(borrower string) ledger.Ledger {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var out ledger.Ledger
	for _, o := range u.ledger {
		if o.Lender == borrower {
			continue
		}
		if _, requested := o.Request(borrower); requested {
			continue
		}
		out = append(out, o)
	}
	return out
}

// BorrowerLoan pairs a borrower's request with the offer it targets.
type BorrowerLoan struct {
	OfferID        int64                `json:"offerId"`
	Lender         string               `json:"lender"`
	Amount         decimal.Decimal      `json:"amount"`
	InterestRate   decimal.Decimal      `json:"interestRate"`
	DurationMonths int                  `json:"durationMonths"`
	Status         ledger.RequestStatus `json:"status"`
	Payments       []ledger.Payment     `json:"payments"`
}

// LoansOf lists every request the borrower has made, joined with its offer.
func (u *Usecase) LoansOf(borrower string) []BorrowerLoan {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var out []BorrowerLoan
	for _, o := range u.ledger {
		req, ok := o.Request(borrower)
		if !ok {
			continue
		}
		out = append(out, BorrowerLoan{
			OfferID:        o.ID,
			Lender:         o.Lender,
			Amount:         o.Amount,
			InterestRate:   o.InterestRate,
			DurationMonths: o.DurationMonths,
			Status:         req.Status,
			Payments:       req.Payments,
		})
	}
	return out
}
