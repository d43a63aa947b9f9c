package receipt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/shared"
)

func newTestLineParams() NewLineItemParams {
	return NewLineItemParams{
		POItemID:   uuid.New(),
		ItemKind:   ItemKindFabric,
		ItemCode:   "FAB-001",
		ItemName:   "Cotton Twill",
		Unit:       "m",
		OrderedQty: decimal.NewFromInt(100),
		UnitPrice:  decimal.NewFromFloat(12.50),
		TaxRate:    decimal.NewFromFloat(0.10),
		Attributes: map[string]string{AttributeColor: "navy"},
	}
}

func TestNewLineItem(t *testing.T) {
	line, err := NewLineItem(uuid.New(), newTestLineParams())
	require.NoError(t, err)

	assert.Equal(t, QualityPending, line.QualityStatus)
	assert.True(t, line.ReceivedQuantity.IsZero())
	assert.True(t, line.ApprovedQuantity.IsZero())
	assert.True(t, line.RejectedQuantity.IsZero())
	assert.Equal(t, "navy", line.Color())
}

func TestNewLineItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewLineItemParams)
	}{
		{"missing po item", func(p *NewLineItemParams) { p.POItemID = uuid.Nil }},
		{"invalid kind", func(p *NewLineItemParams) { p.ItemKind = "GADGET" }},
		{"missing name", func(p *NewLineItemParams) { p.ItemName = "" }},
		{"missing unit", func(p *NewLineItemParams) { p.Unit = "" }},
		{"negative price", func(p *NewLineItemParams) { p.UnitPrice = decimal.NewFromInt(-1) }},
		{"negative tax", func(p *NewLineItemParams) { p.TaxRate = decimal.NewFromFloat(-0.1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestLineParams()
			tt.mutate(&p)
			_, err := NewLineItem(uuid.New(), p)
			require.Error(t, err)
			assert.Equal(t, shared.KindValidation, shared.ErrorKindOf(err))
		})
	}
}

func TestLineItem_SetReceivedQuantity(t *testing.T) {
	line, err := NewLineItem(uuid.New(), newTestLineParams())
	require.NoError(t, err)

	err = line.SetReceivedQuantity(decimal.NewFromInt(80))
	require.NoError(t, err)

	assert.True(t, line.ReceivedQuantity.Equal(decimal.NewFromInt(80)))
	// 80 * 12.50 * 1.10 = 1100
	assert.True(t, line.LineTotal.Equal(decimal.NewFromInt(1100)), "got %s", line.LineTotal)

	err = line.SetReceivedQuantity(decimal.NewFromInt(-1))
	require.Error(t, err)
}

func TestLineItem_ClassifyApproved(t *testing.T) {
	line, err := NewLineItem(uuid.New(), newTestLineParams())
	require.NoError(t, err)
	require.NoError(t, line.SetReceivedQuantity(decimal.NewFromInt(80)))

	// Explicit quantities are ignored for a full approval
	err = line.Classify(QualityApproved, decimal.NewFromInt(5), decimal.NewFromInt(5))
	require.NoError(t, err)

	assert.True(t, line.ApprovedQuantity.Equal(decimal.NewFromInt(80)))
	assert.True(t, line.RejectedQuantity.IsZero())
	assert.True(t, line.IsSplitConsistent())
	assert.True(t, line.HasApprovedStock())
}

func TestLineItem_ClassifyRejected(t *testing.T) {
	for _, status := range []QualityStatus{QualityRejected, QualityDamaged} {
		t.Run(status.String(), func(t *testing.T) {
			line, err := NewLineItem(uuid.New(), newTestLineParams())
			require.NoError(t, err)
			require.NoError(t, line.SetReceivedQuantity(decimal.NewFromInt(40)))

			require.NoError(t, line.Classify(status, decimal.Zero, decimal.Zero))

			assert.True(t, line.ApprovedQuantity.IsZero())
			assert.True(t, line.RejectedQuantity.Equal(decimal.NewFromInt(40)))
			assert.True(t, line.IsSplitConsistent())
			assert.False(t, line.HasApprovedStock())
		})
	}
}

func TestLineItem_ClassifyPendingSplit(t *testing.T) {
	line, err := NewLineItem(uuid.New(), newTestLineParams())
	require.NoError(t, err)
	require.NoError(t, line.SetReceivedQuantity(decimal.NewFromInt(50)))

	err = line.Classify(QualityPending, decimal.NewFromInt(30), decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.True(t, line.ApprovedQuantity.Equal(decimal.NewFromInt(30)))
	assert.True(t, line.RejectedQuantity.Equal(decimal.NewFromInt(15)))
	assert.True(t, line.IsSplitConsistent())

	err = line.Classify(QualityPending, decimal.NewFromInt(40), decimal.NewFromInt(20))
	require.Error(t, err)
	assert.ErrorContains(t, err, "cannot exceed received quantity")
}

func TestLineItem_ReclassifyBeforeFinalization(t *testing.T) {
	line, err := NewLineItem(uuid.New(), newTestLineParams())
	require.NoError(t, err)
	require.NoError(t, line.SetReceivedQuantity(decimal.NewFromInt(60)))

	require.NoError(t, line.Classify(QualityApproved, decimal.Zero, decimal.Zero))
	require.NoError(t, line.Classify(QualityRejected, decimal.Zero, decimal.Zero))

	assert.True(t, line.ApprovedQuantity.IsZero())
	assert.True(t, line.RejectedQuantity.Equal(decimal.NewFromInt(60)))
}

func TestLineItem_SplitReappliedOnQuantityChange(t *testing.T) {
	line, err := NewLineItem(uuid.New(), newTestLineParams())
	require.NoError(t, err)
	require.NoError(t, line.SetReceivedQuantity(decimal.NewFromInt(80)))
	require.NoError(t, line.Classify(QualityApproved, decimal.Zero, decimal.Zero))

	// Approved split follows the corrected received quantity
	require.NoError(t, line.SetReceivedQuantity(decimal.NewFromInt(75)))
	assert.True(t, line.ApprovedQuantity.Equal(decimal.NewFromInt(75)))
	assert.True(t, line.IsSplitConsistent())
}

func TestLineItem_PendingSplitExceededAfterQuantityChange(t *testing.T) {
	line, err := NewLineItem(uuid.New(), newTestLineParams())
	require.NoError(t, err)
	require.NoError(t, line.SetReceivedQuantity(decimal.NewFromInt(50)))
	require.NoError(t, line.Classify(QualityPending, decimal.NewFromInt(30), decimal.NewFromInt(15)))

	err = line.SetReceivedQuantity(decimal.NewFromInt(40))
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.ErrorKindOf(err))

	// The rejected update leaves the line untouched
	assert.True(t, line.ReceivedQuantity.Equal(decimal.NewFromInt(50)))
	assert.True(t, line.ApprovedQuantity.Equal(decimal.NewFromInt(30)))
	assert.True(t, line.RejectedQuantity.Equal(decimal.NewFromInt(15)))
	assert.True(t, line.IsSplitConsistent())
}

func TestLineItem_Enrich(t *testing.T) {
	line, err := NewLineItem(uuid.New(), newTestLineParams())
	require.NoError(t, err)
	require.NoError(t, line.SetReceivedQuantity(decimal.NewFromInt(10)))
	require.NoError(t, line.Classify(QualityApproved, decimal.Zero, decimal.Zero))

	before := line.ApprovedQuantity
	line.Enrich("Cotton Twill 220gsm", "https://cdn.example.com/fab-001.jpg")

	assert.Equal(t, "Cotton Twill 220gsm", line.ItemName)
	assert.Equal(t, "https://cdn.example.com/fab-001.jpg", line.ImageURL)
	assert.True(t, line.ApprovedQuantity.Equal(before))
}
