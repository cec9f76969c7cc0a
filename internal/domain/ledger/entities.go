package ledger

import (
	"github.com/shopspring/decimal"
)

type OfferStatus string

const (
	// Offers stay available for the lifetime of the ledger; there is no
	// delete or close operation.
	OfferAvailable OfferStatus = "available"
)

type RequestStatus string

const (
	StatusRequested RequestStatus = "requested"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCompleted RequestStatus = "completed"
)

// Terminal reports whether no further transition may leave this status.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// Payment is one monthly installment of a request's schedule. Month is
// 1-based and sequential; Paid flips to true exactly once.
type Payment struct {
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Paid   bool            `json:"paid"`
}

// LoanRequest is a borrower's claim against an offer. At most one request
// exists per (offer, borrower) pair, whatever its status.
type LoanRequest struct {
	BorrowerName string        `json:"borrowerName"`
	Status       RequestStatus `json:"status"`
	Payments     []Payment     `json:"payments"`
}

// AllPaid reports whether every installment of the schedule has been paid.
func (r LoanRequest) AllPaid() bool {
	for _, p := range r.Payments {
		if !p.Paid {
			return false
		}
	}
	return true
}

// LoanOffer is a lender's proposal. ID is the creation timestamp in unix
// milliseconds, unique across the ledger. Everything but Requests is
// immutable after creation.
type LoanOffer struct {
	ID             int64           `json:"id"`
	Lender         string          `json:"lender"`
	Amount         decimal.Decimal `json:"amount"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	DurationMonths int             `json:"durationMonths"`
	Status         OfferStatus     `json:"status"`
	Requests       []LoanRequest   `json:"requests"`
}

// Request returns the borrower's request on this offer, if any.
func (o LoanOffer) Request(borrower string) (LoanRequest, bool) {
	for _, r := range o.Requests {
		if r.BorrowerName == borrower {
			return r, true
		}
	}
	return LoanRequest{}, false
}

// Ledger is the full set of loan offers, ordered by creation.
type Ledger []LoanOffer

// Offer returns the offer with the given id, if present.
func (l Ledger) Offer(id int64) (LoanOffer, bool) {
	for _, o := range l {
		if o.ID == id {
			return o, true
		}
	}
	return LoanOffer{}, false
}
