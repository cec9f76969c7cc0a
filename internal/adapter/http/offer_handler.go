package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	mw "loanverse/internal/adapter/middleware"
	"loanverse/internal/domain/ledger"
	"loanverse/internal/usecase/marketplace"
)

type OfferHandler struct{ uc *marketplace.Usecase }

func NewOfferHandler(uc *marketplace.Usecase) *OfferHandler { return &OfferHandler{uc: uc} }

type createOfferReq struct {
	Amount         float64 `json:"amount" validate:"required,gt=0,dec2"`
	InterestRate   float64 `json:"interestRate" validate:"gte=0,dec2"`
	DurationMonths int     `json:"durationMonths" validate:"required,gt=0"`
}

// CreateOffer creates a loan offer owned by the authenticated lender.
func (h *OfferHandler) CreateOffer(c echo.Context) error {
	var req createOfferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	offer, err := h.uc.CreateOffer(c.Request().Context(), marketplace.CreateOfferInput{
		Lender:         mw.UserName(c),
		Amount:         decimal.NewFromFloat(req.Amount),
		InterestRate:   decimal.NewFromFloat(req.InterestRate),
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, offer)
}

// ListOffers returns every offer; ?mine=1 narrows to the caller's own.
func (h *OfferHandler) ListOffers(c echo.Context) error {
	if c.QueryParam("mine") == "1" {
		return c.JSON(http.StatusOK, orEmpty(h.uc.OffersBy(mw.UserName(c))))
	}
	return c.JSON(http.StatusOK, orEmpty(h.uc.Snapshot()))
}

// ListAvailable returns offers the authenticated borrower can still request.
func (h *OfferHandler) ListAvailable(c echo.Context) error {
	return c.JSON(http.StatusOK, orEmpty(h.uc.AvailableFor(mw.UserName(c))))
}

func (h *OfferHandler) GetOffer(c echo.Context) error {
	offerID, err := parseOfferID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offer id"})
	}
	offer, err := h.uc.Offer(offerID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, offer)
}

// RequestLoan files the authenticated borrower's request against an offer.
func (h *OfferHandler) RequestLoan(c echo.Context) error {
	offerID, err := parseOfferID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offer id"})
	}
	offer, err := h.uc.RequestLoan(c.Request().Context(), offerID, mw.UserName(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, offer)
}

func (h *OfferHandler) ApproveRequest(c echo.Context) error {
	return h.decide(c, h.uc.ApproveRequest)
}

func (h *OfferHandler) RejectRequest(c echo.Context) error {
	return h.decide(c, h.uc.RejectRequest)
}

func (h *OfferHandler) decide(c echo.Context, op func(ctx context.Context, offerID int64, borrower, lender string) (ledger.LoanOffer, error)) error {
	offerID, err := parseOfferID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offer id"})
	}
	borrower := c.Param("borrower")
	offer, err := op(c.Request().Context(), offerID, borrower, mw.UserName(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, offer)
}

// RecordPayment pays one installment of the caller's approved loan. The
// month path param is the 1-based schedule month.
func (h *OfferHandler) RecordPayment(c echo.Context) error {
	offerID, err := parseOfferID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offer id"})
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid month"})
	}
	offer, err := h.uc.RecordPayment(c.Request().Context(), offerID, mw.UserName(c), month-1)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, offer)
}

// MyLoans lists the authenticated borrower's requests with their schedules.
func (h *OfferHandler) MyLoans(c echo.Context) error {
	loans := h.uc.LoansOf(mw.UserName(c))
	if loans == nil {
		loans = []marketplace.BorrowerLoan{}
	}
	return c.JSON(http.StatusOK, loans)
}

func parseOfferID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("offer_id"), 10, 64)
}

func orEmpty(l ledger.Ledger) ledger.Ledger {
	if l == nil {
		return ledger.Ledger{}
	}
	return l
}
