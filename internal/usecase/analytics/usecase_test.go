package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"loanverse/internal/domain/ledger"
)

type staticSource struct{ l ledger.Ledger }

func (s staticSource) Snapshot() ledger.Ledger { return s.l }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fixture ledger:
//
//	offer 3 (L1, 1000 @ 5%, 6m): B1 approved, B2 rejected
//	offer 2 (L2, 500 @ 12%, 3m): B1 requested
//	offer 1 (L1, 2000 @ 8%, 12m): no requests
func fixture() ledger.Ledger {
	l := ledger.Ledger{}
	var err error
	l, _, err = l.CreateOffer(1, "L1", dec("2000"), dec("8"), 12)
	if err != nil {
		panic(err)
	}
	l, _, _ = l.CreateOffer(2, "L2", dec("500"), dec("12"), 3)
	l, _, _ = l.CreateOffer(3, "L1", dec("1000"), dec("5"), 6)
	l, _, _ = l.RequestLoan(2, "B1")
	l, _, _ = l.RequestLoan(3, "B1")
	l, _, _ = l.RequestLoan(3, "B2")
	l, _, _ = l.ApproveRequest(3, "B1")
	l, _, _ = l.RejectRequest(3, "B2")
	return l
}

func newUsecase() *Usecase { return NewUsecase(staticSource{l: fixture()}) }

func TestFlatten(t *testing.T) {
	rows := newUsecase().Flatten()

	// offer 1 → available row; offer 2 → requested; offer 3 → approved only
	// (rejected requests never surface).
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3: %+v", len(rows), rows)
	}
	byStatus := make(map[string]AgreementRow)
	for _, r := range rows {
		byStatus[r.Status] = r
	}
	if r := byStatus["available"]; r.ID != 1 || r.Borrower != "-" {
		t.Fatalf("available row = %+v", r)
	}
	if r := byStatus["requested"]; r.ID != 2 || r.Borrower != "B1" {
		t.Fatalf("requested row = %+v", r)
	}
	if r := byStatus["approved"]; r.ID != 3 || r.Borrower != "B1" {
		t.Fatalf("approved row = %+v", r)
	}
}

func TestSummarize(t *testing.T) {
	s := newUsecase().Summarize()

	if s.TotalOffers != 3 {
		t.Fatalf("TotalOffers = %d", s.TotalOffers)
	}
	if s.ActiveAgreements != 2 { // requested + approved
		t.Fatalf("ActiveAgreements = %d", s.ActiveAgreements)
	}
	if s.AvailableOffers != 1 {
		t.Fatalf("AvailableOffers = %d", s.AvailableOffers)
	}
	if !s.TotalAmount.Equal(dec("3500")) {
		t.Fatalf("TotalAmount = %s", s.TotalAmount)
	}
	if s.AvgInterestRate != "8.33" { // (8+12+5)/3
		t.Fatalf("AvgInterestRate = %s", s.AvgInterestRate)
	}
}

func TestSummarize_EmptyLedger(t *testing.T) {
	s := NewUsecase(staticSource{}).Summarize()
	if s.TotalOffers != 0 || s.AvgInterestRate != "0.00" {
		t.Fatalf("summary = %+v", s)
	}
}

func TestStatusDistribution(t *testing.T) {
	got := newUsecase().StatusDistribution()
	want := map[string]int{"available": 1, "requested": 1, "approved": 1}
	if len(got) != len(want) {
		t.Fatalf("distribution = %+v", got)
	}
	for _, sc := range got {
		if want[sc.Name] != sc.Value {
			t.Fatalf("%s = %d, want %d", sc.Name, sc.Value, want[sc.Name])
		}
	}
}

func TestTopLenders(t *testing.T) {
	got := newUsecase().TopLenders()
	if len(got) != 2 {
		t.Fatalf("lenders = %+v", got)
	}
	if got[0].Name != "L1" || !got[0].Total.Equal(dec("3000")) {
		t.Fatalf("top lender = %+v", got[0])
	}
	if got[1].Name != "L2" || !got[1].Total.Equal(dec("500")) {
		t.Fatalf("second lender = %+v", got[1])
	}
}

func TestTopLenders_CapsAtEight(t *testing.T) {
	l := ledger.Ledger{}
	for i := 0; i < 12; i++ {
		l, _, _ = l.CreateOffer(int64(i+1), "L"+string(rune('A'+i)), dec("100"), dec("5"), 6)
	}
	if got := NewUsecase(staticSource{l: l}).TopLenders(); len(got) != 8 {
		t.Fatalf("lenders = %d, want 8", len(got))
	}
}

func TestAgreements_Filters(t *testing.T) {
	uc := newUsecase()

	if rows := uc.Agreements(Query{Search: "b1"}); len(rows) != 2 {
		t.Fatalf("search b1 = %+v", rows)
	}
	if rows := uc.Agreements(Query{Search: "L2"}); len(rows) != 1 || rows[0].ID != 2 {
		t.Fatalf("search L2 = %+v", rows)
	}
	if rows := uc.Agreements(Query{Status: "approved"}); len(rows) != 1 || rows[0].Borrower != "B1" {
		t.Fatalf("status approved = %+v", rows)
	}
	if rows := uc.Agreements(Query{Status: "All"}); len(rows) != 3 {
		t.Fatalf("status All = %+v", rows)
	}
}

func TestAgreements_Sorts(t *testing.T) {
	uc := newUsecase()

	rows := uc.Agreements(Query{})
	if rows[0].ID != 3 { // newest first
		t.Fatalf("newest sort: %+v", rows)
	}
	rows = uc.Agreements(Query{Sort: "highest"})
	if !rows[0].Amount.Equal(dec("2000")) {
		t.Fatalf("highest sort: %+v", rows)
	}
	rows = uc.Agreements(Query{Sort: "lowest"})
	if !rows[0].Amount.Equal(dec("500")) {
		t.Fatalf("lowest sort: %+v", rows)
	}
	rows = uc.Agreements(Query{Sort: "interest"})
	if !rows[0].InterestRate.Equal(dec("12")) {
		t.Fatalf("interest sort: %+v", rows)
	}
}

func TestExportCSV(t *testing.T) {
	rows := []AgreementRow{
		{
			ID:           1756000000000,
			Lender:       `Acme "Prime" Lending`,
			Borrower:     "B1",
			Amount:       dec("1200"),
			InterestRate: dec("10"),
			Duration:     12,
			Status:       "approved",
		},
	}
	got := string(ExportCSV(rows))

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d: %q", len(lines), got)
	}
	if lines[0] != "LoanOfferID,Lender,Borrower,Amount,InterestRate,Duration,Status" {
		t.Fatalf("header = %q", lines[0])
	}
	want := `1756000000000,"Acme ""Prime"" Lending","B1",1200,10,12,"approved"`
	if lines[1] != want {
		t.Fatalf("row = %q, want %q", lines[1], want)
	}
}

func TestExportCSV_EmptyRows(t *testing.T) {
	got := string(ExportCSV(nil))
	if got != "LoanOfferID,Lender,Borrower,Amount,InterestRate,Duration,Status\n" {
		t.Fatalf("csv = %q", got)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 5, 9, 0, time.UTC)
	if got := ExportFilename(now); got != "loans_export_2026-08-31-14-05-09.csv" {
		t.Fatalf("filename = %q", got)
	}
}
