package receipt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/shared"
)

func newTestActor() Actor {
	return Actor{ID: uuid.New(), Name: "Inspector Chen"}
}

func newTestReceipt(t *testing.T) *Receipt {
	t.Helper()
	r, err := NewReceipt(uuid.New(), uuid.New(), time.Now(), "Dock 3")
	require.NoError(t, err)
	return r
}

// newReceiptWithLine returns a draft receipt carrying one line with the
// given received quantity.
func newReceiptWithLine(t *testing.T, qty int64) (*Receipt, uuid.UUID) {
	t.Helper()
	r := newTestReceipt(t)
	line, err := r.AddLine(newTestLineParams())
	require.NoError(t, err)
	require.NoError(t, r.UpdateLineReceipt(line.ID, decimal.NewFromInt(qty), "", nil, ""))
	return r, line.ID
}

// advance walks the receipt through the given statuses, classifying every
// line approved before the first approving transition.
func advance(t *testing.T, r *Receipt, path ...Status) {
	t.Helper()
	actor := newTestActor()
	for _, target := range path {
		if target.TriggersConsolidation() {
			for i := range r.Lines {
				if r.Lines[i].QualityStatus == QualityPending {
					require.NoError(t, r.ClassifyLine(r.Lines[i].ID, QualityApproved, decimal.Zero, decimal.Zero))
				}
			}
		}
		require.NoError(t, r.Transition(target, TransitionParams{Actor: actor}))
	}
}

func TestNewReceipt(t *testing.T) {
	r := newTestReceipt(t)

	assert.Equal(t, StatusDraft, r.Status)
	assert.Empty(t, r.ReceiptNumber)
	assert.Equal(t, 1, r.GetVersion())

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeReceiptCreated, events[0].EventType())
}

func TestNewReceipt_Validation(t *testing.T) {
	_, err := NewReceipt(uuid.Nil, uuid.New(), time.Now(), "")
	require.Error(t, err)

	_, err = NewReceipt(uuid.New(), uuid.Nil, time.Now(), "")
	require.Error(t, err)
}

func TestReceipt_AddLine(t *testing.T) {
	r := newTestReceipt(t)

	p := newTestLineParams()
	line, err := r.AddLine(p)
	require.NoError(t, err)
	assert.Equal(t, 1, r.LineCount())
	assert.Equal(t, r.ID, line.ReceiptID)

	// Same purchase order line twice
	_, err = r.AddLine(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.NewDomainError(shared.KindValidation, "DUPLICATE_PO_ITEM", ""))
}

func TestReceipt_AddLine_ReturnsAggregateLine(t *testing.T) {
	r := newTestReceipt(t)

	line, err := r.AddLine(newTestLineParams())
	require.NoError(t, err)

	// Mutations through the returned pointer must land on the aggregate,
	// not on a detached copy
	line.Enrich("Cotton Twill 220gsm", "https://cdn.example.com/fab-001.jpg")

	assert.Equal(t, "Cotton Twill 220gsm", r.Lines[0].ItemName)
	assert.Equal(t, "https://cdn.example.com/fab-001.jpg", r.Lines[0].ImageURL)
}

func TestReceipt_AddLine_NonDraft(t *testing.T) {
	r, _ := newReceiptWithLine(t, 10)
	advance(t, r, StatusReceived)

	_, err := r.AddLine(newTestLineParams())
	require.Error(t, err)
}

func TestStatus_TransitionTable(t *testing.T) {
	all := []Status{StatusDraft, StatusReceived, StatusUnderInspection,
		StatusApproved, StatusRejected, StatusPartiallyApproved}

	allowed := map[Status][]Status{
		StatusDraft:             {StatusReceived},
		StatusReceived:          {StatusUnderInspection, StatusApproved, StatusRejected},
		StatusUnderInspection:   {StatusApproved, StatusRejected, StatusPartiallyApproved},
		StatusPartiallyApproved: {StatusApproved, StatusRejected},
		StatusApproved:          {},
		StatusRejected:          {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestReceipt_Transition_Invalid(t *testing.T) {
	r, _ := newReceiptWithLine(t, 10)

	err := r.Transition(StatusUnderInspection, TransitionParams{Actor: newTestActor()})
	require.Error(t, err)
	assert.Equal(t, shared.KindInvalidTransition, shared.ErrorKindOf(err))
	assert.Equal(t, StatusDraft, r.Status)
}

func TestReceipt_Transition_Terminal(t *testing.T) {
	r, _ := newReceiptWithLine(t, 10)
	advance(t, r, StatusReceived, StatusUnderInspection, StatusApproved)

	for _, target := range []Status{StatusDraft, StatusReceived, StatusUnderInspection, StatusRejected} {
		err := r.Transition(target, TransitionParams{Actor: newTestActor()})
		require.Error(t, err, "approved -> %s", target)
		assert.Equal(t, shared.KindInvalidTransition, shared.ErrorKindOf(err))
	}
}

func TestReceipt_Transition_ApprovalPrecondition(t *testing.T) {
	r, lineID := newReceiptWithLine(t, 10)
	advance(t, r, StatusReceived, StatusUnderInspection)

	// No line approved yet
	err := r.Transition(StatusApproved, TransitionParams{Actor: newTestActor()})
	require.Error(t, err)
	assert.Equal(t, shared.KindPreconditionNotMet, shared.ErrorKindOf(err))
	assert.Equal(t, StatusUnderInspection, r.Status)

	require.NoError(t, r.ClassifyLine(lineID, QualityApproved, decimal.Zero, decimal.Zero))
	require.NoError(t, r.Transition(StatusApproved, TransitionParams{Actor: newTestActor()}))
}

func TestReceipt_Transition_RejectionPrecondition(t *testing.T) {
	r, lineID := newReceiptWithLine(t, 10)
	advance(t, r, StatusReceived, StatusUnderInspection)
	require.NoError(t, r.ClassifyLine(lineID, QualityApproved, decimal.Zero, decimal.Zero))

	err := r.Transition(StatusRejected, TransitionParams{Actor: newTestActor()})
	require.Error(t, err)
	assert.Equal(t, shared.KindPreconditionNotMet, shared.ErrorKindOf(err))

	require.NoError(t, r.ClassifyLine(lineID, QualityDamaged, decimal.Zero, decimal.Zero))
	require.NoError(t, r.Transition(StatusRejected, TransitionParams{
		Actor:           newTestActor(),
		RejectionReason: "water damage across all rolls",
	}))
	assert.Equal(t, "water damage across all rolls", r.RejectionReason)
}

func TestReceipt_Transition_Stamps(t *testing.T) {
	r, lineID := newReceiptWithLine(t, 10)
	receiver := newTestActor()
	inspector := newTestActor()
	approver := newTestActor()

	require.NoError(t, r.Transition(StatusReceived, TransitionParams{Actor: receiver}))
	require.NotNil(t, r.ReceivedBy)
	assert.Equal(t, receiver.ID, *r.ReceivedBy)
	assert.NotNil(t, r.ReceivedDate)

	require.NoError(t, r.Transition(StatusUnderInspection, TransitionParams{Actor: inspector}))
	require.NotNil(t, r.InspectorID)
	assert.Equal(t, inspector.ID, *r.InspectorID)
	assert.NotNil(t, r.InspectionDate)

	require.NoError(t, r.ClassifyLine(lineID, QualityApproved, decimal.Zero, decimal.Zero))
	require.NoError(t, r.Transition(StatusApproved, TransitionParams{Actor: approver}))
	require.NotNil(t, r.ApproverID)
	assert.Equal(t, approver.ID, *r.ApproverID)
	assert.NotNil(t, r.ApprovedAt)
	assert.True(t, r.IsTerminal())
}

func TestReceipt_Transition_RequiresActor(t *testing.T) {
	r, _ := newReceiptWithLine(t, 10)
	err := r.Transition(StatusReceived, TransitionParams{})
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.ErrorKindOf(err))
}

func TestReceipt_Transition_PartiallyApproved(t *testing.T) {
	r := newTestReceipt(t)
	good, err := r.AddLine(newTestLineParams())
	require.NoError(t, err)
	bad, err := r.AddLine(newTestLineParams())
	require.NoError(t, err)

	require.NoError(t, r.UpdateLineReceipt(good.ID, decimal.NewFromInt(10), "", nil, ""))
	require.NoError(t, r.UpdateLineReceipt(bad.ID, decimal.NewFromInt(5), "", nil, ""))
	advance(t, r, StatusReceived)
	require.NoError(t, r.Transition(StatusUnderInspection, TransitionParams{Actor: newTestActor()}))

	require.NoError(t, r.ClassifyLine(good.ID, QualityApproved, decimal.Zero, decimal.Zero))
	require.NoError(t, r.ClassifyLine(bad.ID, QualityRejected, decimal.Zero, decimal.Zero))

	require.NoError(t, r.Transition(StatusPartiallyApproved, TransitionParams{Actor: newTestActor()}))
	assert.False(t, r.IsTerminal())

	approved := r.ApprovedLines()
	require.Len(t, approved, 1)
	assert.Equal(t, good.ID, approved[0].ID)

	// Still closable after the partial pass
	require.NoError(t, r.Transition(StatusApproved, TransitionParams{Actor: newTestActor()}))
	assert.True(t, r.IsTerminal())
}

func TestReceipt_LineEditsAfterFinalization(t *testing.T) {
	r, lineID := newReceiptWithLine(t, 10)
	advance(t, r, StatusReceived, StatusUnderInspection, StatusApproved)

	err := r.UpdateLineReceipt(lineID, decimal.NewFromInt(12), "", nil, "")
	require.Error(t, err)

	err = r.ClassifyLine(lineID, QualityRejected, decimal.Zero, decimal.Zero)
	require.Error(t, err)
}

func TestReceipt_StatusChangedEvent(t *testing.T) {
	r, _ := newReceiptWithLine(t, 10)
	r.ClearDomainEvents()

	actor := newTestActor()
	require.NoError(t, r.Transition(StatusReceived, TransitionParams{Actor: actor}))

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(*ReceiptStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, StatusDraft, evt.FromStatus)
	assert.Equal(t, StatusReceived, evt.ToStatus)
	assert.Equal(t, actor.ID, evt.ActorID)
}

func TestReceipt_VersionIncrementsOnMutation(t *testing.T) {
	r := newTestReceipt(t)
	v := r.GetVersion()

	_, err := r.AddLine(newTestLineParams())
	require.NoError(t, err)
	assert.Equal(t, v+1, r.GetVersion())

	require.NoError(t, r.Transition(StatusReceived, TransitionParams{Actor: newTestActor()}))
	assert.Equal(t, v+2, r.GetVersion())
}
