package screen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rob-gra/tn5250wf/codepage"
)

func testCodepage(t *testing.T) *codepage.Codepage {
	t.Helper()
	reg, err := codepage.NewRegistry()
	require.NoError(t, err)
	return reg.MustLookup(37)
}

func TestNewSizesCharAndExtPlanes(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	rows, cols := s.Size()
	require.Equal(t, 24, rows)
	require.Equal(t, 80, cols)
	require.Len(t, s.charPlane, 24*80)
	require.Len(t, s.extPlane, 24*80)
}

func TestWriteCharExpandsDirtyRegion(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	require.True(t, s.ConsumeDirty().Empty())

	pos, err := s.PositionOf(2, 5)
	require.NoError(t, err)
	require.NoError(t, s.WriteChar(pos, 0xC1, ExtAttr{}))

	dirty := s.ConsumeDirty()
	require.False(t, dirty.Empty())
	require.Equal(t, 1, dirty.MinRow)
	require.Equal(t, 4, dirty.MinCol)

	// consuming again yields empty until the next mutation.
	require.True(t, s.ConsumeDirty().Empty())
}

func TestWriteCharRejectsOutOfRange(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	require.ErrorIs(t, s.WriteChar(-1, 0, ExtAttr{}), ErrInvalidPosition)
	require.ErrorIs(t, s.WriteChar(24*80, 0, ExtAttr{}), ErrInvalidPosition)
}

// TestFieldTableOrderMatchesPosition verifies field-table ordering
// matches buffer position order regardless of the order SF orders were
// applied in.
func TestFieldTableOrderMatchesPosition(t *testing.T) {
	s := New(24, 80, testCodepage(t))

	posLate, _ := s.PositionOf(5, 1)
	posEarly, _ := s.PositionOf(1, 1)

	require.NoError(t, s.SetFieldStart(posLate, FieldNumeric))
	require.NoError(t, s.SetFieldStart(posEarly, FieldProtected))
	s.RebuildFields()

	fields := s.Fields()
	require.Len(t, fields, 2)
	require.Less(t, fields[0].Start, fields[1].Start)
	require.True(t, fields[0].Attribute.Protected())
	require.True(t, fields[1].Attribute.Numeric())
}

func TestFieldContentSpansToNextFieldStart(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	start, _ := s.PositionOf(1, 1)
	require.NoError(t, s.SetFieldStart(start, 0))
	s.RebuildFields()

	fields := s.Fields()
	require.Len(t, fields, 1)
	require.Equal(t, start+1, fields[0].Start)
	require.Equal(t, s.cellCount()-fields[0].Start, fields[0].Length)
}

func TestMarkFieldModifiedIgnoresProtectedFields(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	start, _ := s.PositionOf(1, 1)
	require.NoError(t, s.SetFieldStart(start, FieldProtected))
	s.RebuildFields()

	require.NoError(t, s.MarkFieldModified(0))
	fields := s.Fields()
	require.False(t, fields[0].Modified)
}

func TestMarkFieldModifiedSetsUnprotectedField(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	start, _ := s.PositionOf(1, 1)
	require.NoError(t, s.SetFieldStart(start, 0))
	s.RebuildFields()

	require.NoError(t, s.MarkFieldModified(0))
	fields := s.Fields()
	require.True(t, fields[0].Modified)
}

func TestCursorRangeValidation(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	require.NoError(t, s.SetCursor(0))
	require.ErrorIs(t, s.SetCursor(24*80), ErrInvalidPosition)

	pos, _ := s.PositionOf(3, 10)
	require.NoError(t, s.SetCursor(pos))
	row, col := s.CursorPosition()
	require.Equal(t, 2, row)
	require.Equal(t, 9, col)
}

func TestWaitForOIAReturnsImmediatelyWhenAlreadyTrue(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	s.SetOIA(OIA{})
	result := s.WaitForOIA(context.Background(), Unlocked, time.Second)
	require.Equal(t, WaitOK, result)
}

func TestWaitForOIAUnblocksOnMutation(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	s.SetOIA(OIA{KeyboardLocked: true})

	done := make(chan WaitResult, 1)
	go func() {
		done <- s.WaitForOIA(context.Background(), Unlocked, 2*time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	s.SetOIA(OIA{KeyboardLocked: false})

	select {
	case result := <-done:
		require.Equal(t, WaitOK, result)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForOIA did not unblock on SetOIA")
	}
}

func TestWaitForOIATimesOut(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	s.SetOIA(OIA{KeyboardLocked: true})

	result := s.WaitForOIA(context.Background(), Unlocked, 30*time.Millisecond)
	require.Equal(t, WaitTimeout, result)
}

func TestWaitForOIACancelledByContext(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	s.SetOIA(OIA{KeyboardLocked: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan WaitResult, 1)
	go func() {
		done <- s.WaitForOIA(ctx, Unlocked, 2*time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case result := <-done:
		require.Equal(t, WaitCancelled, result)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForOIA did not unblock on context cancellation")
	}
}

func TestCloseCancelsPendingWaits(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	s.SetOIA(OIA{KeyboardLocked: true})

	done := make(chan WaitResult, 1)
	go func() {
		done <- s.WaitForOIA(context.Background(), Unlocked, 2*time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case result := <-done:
		require.Equal(t, WaitCancelled, result)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForOIA did not unblock on Close")
	}
}

func TestScreenTextRoundTripsThroughCodepage(t *testing.T) {
	cp := testCodepage(t)
	s := New(1, 3, cp)
	require.NoError(t, s.WriteChar(0, cp.ToEBCDIC('A'), ExtAttr{}))
	require.NoError(t, s.WriteChar(1, cp.ToEBCDIC('B'), ExtAttr{}))
	require.NoError(t, s.WriteChar(2, cp.ToEBCDIC('C'), ExtAttr{}))
	require.Equal(t, "ABC", s.ScreenText())
}

func TestClearRejectsOutOfRangeRect(t *testing.T) {
	s := New(24, 80, testCodepage(t))
	err := s.Clear(Rect{MinRow: 0, MinCol: 0, MaxRow: 25, MaxCol: 1})
	require.ErrorIs(t, err, ErrInvalidPosition)
}
