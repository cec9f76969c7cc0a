// Package ledger holds the loan lifecycle state machine. Every operation is
// a pure function over the ledger: it returns a new ledger and leaves the
// receiver untouched, so a failed operation never dirties shared state.
//
// Request lifecycle:
//
//	requested → approved → completed
//	requested → rejected
//
// rejected and completed are terminal; no operation reverses a transition.
package ledger

import (
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// MonthlyPayment computes the flat monthly installment for the given terms:
// amount × (1 + rate/100) / months, rounded to 2 decimal places.
func MonthlyPayment(amount, rate decimal.Decimal, months int) decimal.Decimal {
	total := amount.Mul(one.Add(rate.Div(hundred)))
	return total.Div(decimal.NewFromInt(int64(months))).Round(2)
}

// CreateOffer appends a new available offer with no requests. The caller
// supplies the id (a unique creation timestamp).
func (l Ledger) CreateOffer(id int64, lender string, amount, rate decimal.Decimal, months int) (Ledger, LoanOffer, error) {
	if lender == "" || !amount.IsPositive() || rate.IsNegative() || months <= 0 {
		return l, LoanOffer{}, ErrInvalidTerms
	}
	offer := LoanOffer{
		ID:             id,
		Lender:         lender,
		Amount:         amount,
		InterestRate:   rate,
		DurationMonths: months,
		Status:         OfferAvailable,
	}
	next := make(Ledger, len(l), len(l)+1)
	copy(next, l)
	return append(next, offer), offer, nil
}

// RequestLoan appends a requested LoanRequest with a fully pre-computed
// payment schedule. A borrower gets at most one request per offer: any
// existing request, including a rejected one, blocks a new request.
func (l Ledger) RequestLoan(offerID int64, borrower string) (Ledger, LoanOffer, error) {
	offer, ok := l.Offer(offerID)
	if !ok {
		return l, LoanOffer{}, ErrOfferNotFound
	}
	if _, exists := offer.Request(borrower); exists {
		return l, LoanOffer{}, ErrDuplicateRequest
	}

	monthly := MonthlyPayment(offer.Amount, offer.InterestRate, offer.DurationMonths)
	schedule := make([]Payment, offer.DurationMonths)
	for i := range schedule {
		schedule[i] = Payment{Month: i + 1, Amount: monthly}
	}

	updated := offer.clone()
	updated.Requests = append(updated.Requests, LoanRequest{
		BorrowerName: borrower,
		Status:       StatusRequested,
		Payments:     schedule,
	})
	return l.replace(updated), updated, nil
}

// ApproveRequest transitions the borrower's request from requested to
// approved.
func (l Ledger) ApproveRequest(offerID int64, borrower string) (Ledger, LoanOffer, error) {
	return l.transition(offerID, borrower, StatusApproved)
}

// RejectRequest transitions the borrower's request from requested to
// rejected, a terminal state.
func (l Ledger) RejectRequest(offerID int64, borrower string) (Ledger, LoanOffer, error) {
	return l.transition(offerID, borrower, StatusRejected)
}

func (l Ledger) transition(offerID int64, borrower string, to RequestStatus) (Ledger, LoanOffer, error) {
	offer, ok := l.Offer(offerID)
	if !ok {
		return l, LoanOffer{}, ErrOfferNotFound
	}
	idx := requestIndex(offer, borrower)
	if idx < 0 {
		return l, LoanOffer{}, ErrRequestNotFound
	}
	if offer.Requests[idx].Status != StatusRequested {
		return l, LoanOffer{}, ErrInvalidTransition
	}

	updated := offer.clone()
	updated.Requests[idx].Status = to
	return l.replace(updated), updated, nil
}

// RecordPayment marks the installment at monthIndex (0-based) paid on the
// borrower's approved request. Once every installment is paid the request
// transitions to completed and admits no further payments.
func (l Ledger) RecordPayment(offerID int64, borrower string, monthIndex int) (Ledger, LoanOffer, error) {
	offer, ok := l.Offer(offerID)
	if !ok {
		return l, LoanOffer{}, ErrOfferNotFound
	}
	idx := requestIndex(offer, borrower)
	if idx < 0 {
		return l, LoanOffer{}, ErrRequestNotFound
	}
	if offer.Requests[idx].Status != StatusApproved {
		return l, LoanOffer{}, ErrInvalidTransition
	}
	if monthIndex < 0 || monthIndex >= len(offer.Requests[idx].Payments) {
		return l, LoanOffer{}, ErrPaymentIndex
	}

	updated := offer.clone()
	updated.Requests[idx].Payments[monthIndex].Paid = true
	if updated.Requests[idx].AllPaid() {
		updated.Requests[idx].Status = StatusCompleted
	}
	return l.replace(updated), updated, nil
}

func requestIndex(o LoanOffer, borrower string) int {
	for i, r := range o.Requests {
		if r.BorrowerName == borrower {
			return i
		}
	}
	return -1
}

// clone deep-copies the offer's mutable parts (requests and schedules).
func (o LoanOffer) clone() LoanOffer {
	out := o
	out.Requests = make([]LoanRequest, len(o.Requests))
	for i, r := range o.Requests {
		cp := r
		cp.Payments = make([]Payment, len(r.Payments))
		copy(cp.Payments, r.Payments)
		out.Requests[i] = cp
	}
	return out
}

// replace returns a new ledger with the offer matching updated.ID swapped out.
func (l Ledger) replace(updated LoanOffer) Ledger {
	next := make(Ledger, len(l))
	copy(next, l)
	for i, o := range next {
		if o.ID == updated.ID {
			next[i] = updated
			break
		}
	}
	return next
}
