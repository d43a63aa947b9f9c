package receipt

import "github.com/shopspring/decimal"

// Totals is the aggregate of received/approved/rejected counts and amounts
// across a receipt's line items. It is recomputed on every line mutation
// and persisted with the header so reads never need to re-aggregate.
type Totals struct {
	ItemsReceived  int             `gorm:"not null;default:0" json:"items_received"`
	ItemsApproved  int             `gorm:"not null;default:0" json:"items_approved"`
	ItemsRejected  int             `gorm:"not null;default:0" json:"items_rejected"`
	AmountReceived decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_received"`
	AmountApproved decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_approved"`
}

// CalculateTotals aggregates the line items. Pure function, no side effects:
//   - ItemsReceived counts all lines
//   - ItemsApproved / ItemsRejected count lines by quality disposition
//     (rejected and damaged both count as rejected)
//   - AmountReceived sums all line totals
//   - AmountApproved sums line totals of approved lines
func CalculateTotals(lines []LineItem) Totals {
	t := Totals{
		AmountReceived: decimal.Zero,
		AmountApproved: decimal.Zero,
	}
	for i := range lines {
		line := &lines[i]
		t.ItemsReceived++
		t.AmountReceived = t.AmountReceived.Add(line.LineTotal)
		switch {
		case line.QualityStatus == QualityApproved:
			t.ItemsApproved++
			t.AmountApproved = t.AmountApproved.Add(line.LineTotal)
		case line.QualityStatus.CountsAsRejected():
			t.ItemsRejected++
		}
	}
	return t
}
