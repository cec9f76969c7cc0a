// Package analytics computes the read-only aggregations behind the analyst
// dashboard: agreement flattening, summary stats, charts data, and the CSV
// export.
package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"loanverse/internal/domain/ledger"
)

// LedgerSource supplies the current offer ledger.
type LedgerSource interface {
	Snapshot() ledger.Ledger
}

type Usecase struct{ src LedgerSource }

func NewUsecase(src LedgerSource) *Usecase { return &Usecase{src: src} }

/// AgreementRow is one flattened line of the dashboard table: an offer joined
// with one of its non-rejected requests, or a bare available offer.
type AgreementRow struct {
	ID           int64           `json:"id"`
	Lender       string          `json:"lender"`
	Borrower     string          `json:"borrower"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	Duration     int             `json:"duration"`
	Status       string          `json:"status"`
}

// Flatten expands each offer into one row per non-rejected request. An offer
// with no such request shows up once as available, borrower "-".
func (u *Usecase) Flatten() []AgreementRow {
	var out []AgreementRow
	for _, o := range u.src.Snapshot() {
		active := 0
		for _, r := range o.Requests {
			if r.Status == ledger.StatusRejected {
				continue
			}
			active++
			out = append(out, AgreementRow{
				ID:           o.ID,
				Lender:       o.Lender,
				Borrower:     r.BorrowerName,
				Amount:       o.Amount,
				InterestRate: o.InterestRate,
				Duration:     o.DurationMonths,
				Status:       string(r.Status),
			})
		}
		if active == 0 {
			out = append(out, AgreementRow{
				ID:           o.ID,
				Lender:       o.Lender,
				Borrower:     "-",
				Amount:       o.Amount,
				InterestRate: o.InterestRate,
				Duration:     o.DurationMonths,
				Status:       string(ledger.OfferAvailable),
			})
		}
	}
	return out
}

type Summary struct {
	TotalOffers      int             `json:"totalOffers"`
	ActiveAgreements int             `json:"activeAgreements"`
	AvailableOffers  int             `json:"availableOffers"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	AvgInterestRate  string          `json:"avgInterestRate"`
}

// Summarize computes the stat cards. The average interest rate is rendered
// to two decimal places, "0.00" for an empty ledger.
func (u *Usecase) Summarize() Summary {
	offers := u.src.Snapshot()
	s := Summary{TotalOffers: len(offers), TotalAmount: decimal.Zero}

	rateSum := decimal.Zero
	for _, o := range offers {
		s.TotalAmount = s.TotalAmount.Add(o.Amount)
		rateSum = rateSum.Add(o.InterestRate)
	}
	if len(offers) > 0 {
		s.AvgInterestRate = rateSum.Div(decimal.NewFromInt(int64(len(offers)))).StringFixed(2)
	} else {
		s.AvgInterestRate = "0.00"
	}

	for _, row := range u.Flatten() {
		switch row.Status {
		case string(ledger.StatusRequested), string(ledger.StatusApproved):
			s.ActiveAgreements++
		case string(ledger.OfferAvailable):
			s.AvailableOffers++
		}
	}
	return s
}

type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// StatusDistribution counts flattened rows per status, ordered by count
// descending then name for a stable chart.
func (u *Usecase) StatusDistribution() []StatusCount {
	counts := make(map[string]int)
	for _, row := range u.Flatten() {
		counts[row.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for name, value := range counts {
		out = append(out, StatusCount{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type LenderTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

const topLendersLimit = 8

// TopLenders ranks lenders by total offered amount, capped at eight bars.
func (u *Usecase) TopLenders() []LenderTotal {
	totals := make(map[string]decimal.Decimal)
	for _, o := range u.src.Snapshot() {
		totals[o.Lender] = totals[o.Lender].Add(o.Amount)
	}
	out := make([]LenderTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, LenderTotal{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topLendersLimit {
		out = out[:topLendersLimit]
	}
	return out
}

// Query narrows and orders the flattened agreement rows.
type Query struct {
	Search string // substring over lender, borrower, and offer id
	Status string // exact status, or empty/"All" for everything
	Sort   string // newest (default), highest, lowest, interest
}

func (u *Usecase) Agreements(q Query) []AgreementRow {
	rows := u.Flatten()

	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		filtered := rows[:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.Lender), s) ||
				strings.Contains(strings.ToLower(r.Borrower), s) ||
				strings.Contains(strconv.FormatInt(r.ID, 10), s) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if q.Status != "" && !strings.EqualFold(q.Status, "All") {
		filtered := rows[:0]
		for _, r := range rows {
			if strings.EqualFold(r.Status, q.Status) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	switch q.Sort {
	case "highest":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Amount.Cmp(rows[j].Amount) > 0 })
	case "lowest":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Amount.Cmp(rows[j].Amount) < 0 })
	case "interest":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].InterestRate.Cmp(rows[j].InterestRate) > 0 })
	default: // newest
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	}
	return rows
}

// ExportCSV renders agreement rows as UTF-8 CSV. String fields are always
// double-quote wrapped with internal quotes doubled; numeric fields stay
// bare.
func ExportCSV(rows []AgreementRow) []byte {
	var b strings.Builder
	b.WriteString("LoanOfferID,Lender,Borrower,Amount,InterestRate,Duration,Status\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s,%d,%s\n",
			r.ID,
			quote(r.Lender),
			quote(r.Borrower),
			r.Amount.String(),
			r.InterestRate.String(),
			r.Duration,
			quote(r.Status),
		)
	}
	return []byte(b.String())
}

// ExportFilename builds loans_export_<timestamp>.csv where the timestamp is
// ISO 8601 seconds with ':' and 'T' replaced by '-'.
func ExportFilename(now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15:04:05")
	stamp = strings.NewReplacer("T", "-", ":", "-").Replace(stamp)
	return "loans_export_" + stamp + ".csv"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
