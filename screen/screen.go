// Package screen implements the screen model (spec component C4): the
// character/attribute planes, field table, OIA, cursor, and dirty-region
// tracking for one terminal display. It is a data structure and a signal
// source, never a widget — there is no rendering here, only state and
// condition-variable notification, so the whole package is testable
// without a display (design note: headless-first discipline).
package screen

import (
	"context"
	"sync"
	"time"

	"github.com/rob-gra/tn5250wf/codepage"
)

// ExtAttr is the extended-attribute plane entry: color, blink, reverse
// video, and underline flags for one character cell.
type ExtAttr struct {
	Color     byte // host color code, 0 = default
	Blink     bool
	Reverse   bool
	Underline bool
}

// Screen holds one terminal display's full state. Zero value is not
// useful; construct with New. All methods are safe for concurrent use:
// every mutation and every atomic read takes the screen's single mutex.
type Screen struct {
	rows, cols int
	cp         *codepage.Codepage

	mu         sync.Mutex
	cond       *sync.Cond
	charPlane  []byte
	extPlane   []ExtAttr
	fieldPlane []FieldAttribute // non-zero at a field's Start-of-Field cell only
	fields     []Field
	cursor     int
	dirty      Rect
	oia        OIA
	closed     bool
}

// New constructs a Screen of the given geometry (24x80 or 27x132, per
// spec.md §3), with every character cell 0x00 (not the EBCDIC blank
// 0x40), an empty field table and OIA in the
// not-inhibited/unlocked state. cp is used by ScreenText to translate
// the character plane.
func New(rows, cols int, cp *codepage.Codepage) *Screen {
	s := &Screen{
		rows:       rows,
		cols:       cols,
		cp:         cp,
		charPlane:  make([]byte, rows*cols),
		extPlane:   make([]ExtAttr, rows*cols),
		fieldPlane: make([]FieldAttribute, rows*cols),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Size returns the screen geometry.
func (s *Screen) Size() (rows, cols int) { return s.rows, s.cols }

func (s *Screen) cellCount() int { return s.rows * s.cols }

func (s *Screen) validPos(pos int) bool { return pos >= 0 && pos < s.cellCount() }

// --- Mutating operations, exposed to the protocol engine (C3) ---

// WriteChar writes one cell's character and extended-attribute planes,
// expanding the dirty region. Applying the same write twice yields the
// same state as applying it once: writes are position-addressed, not
// incremental.
func (s *Screen) WriteChar(pos int, ebcdicOctet byte, attrs ExtAttr) error {
	if !s.validPos(pos) {
		return ErrInvalidPosition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charPlane[pos] = ebcdicOctet
	s.extPlane[pos] = attrs
	row, col := s.rowCol(pos)
	s.dirty = s.dirty.expand(row, col)
	s.cond.Broadcast()
	return nil
}

// SetFieldStart marks pos as a Start-of-Field cell with the given
// attribute byte. The caller (the WTD parser) must call RebuildFields
// once the Write to Display command completes so the field table
// reflects every SF order applied.
func (s *Screen) SetFieldStart(pos int, attr FieldAttribute) error {
	if !s.validPos(pos) {
		return ErrInvalidPosition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldPlane[pos] = attr | fieldStartMarker
	row, col := s.rowCol(pos)
	s.dirty = s.dirty.expand(row, col)
	s.cond.Broadcast()
	return nil
}

// fieldStartMarker is an internal bit, high enough to stay clear of the
// public FieldAttribute bits (Protected..DBCS occupy 1<<0..1<<5),
// distinguishing "this cell starts a field with attribute 0" from "this
// cell is not a field start".
const fieldStartMarker FieldAttribute = 1 << 7

// RebuildFields recomputes the field table by scanning the field plane
// in position order. Call once a Write to Display command completes.
// Field order matches position order (invariant); a field spans from one
// Start-of-Field cell to the next (or to the end of the buffer for the
// last field), with the SF cell itself excluded from field content.
func (s *Screen) RebuildFields() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildFieldsLocked()
	s.cond.Broadcast()
}

func (s *Screen) rebuildFieldsLocked() {
	var starts []int
	var attrs []FieldAttribute
	for pos := 0; pos < s.cellCount(); pos++ {
		if s.fieldPlane[pos]&fieldStartMarker != 0 {
			starts = append(starts, pos)
			attrs = append(attrs, s.fieldPlane[pos]&^fieldStartMarker)
		}
	}
	fields := make([]Field, 0, len(starts))
	for i, start := range starts {
		end := s.cellCount()
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		contentStart := start + 1
		length := end - contentStart
		if length < 0 {
			length = 0
		}
		var modified bool
		for _, old := range s.fields {
			if old.Start == contentStart {
				modified = old.Modified && !attrs[i].Protected()
				break
			}
		}
		fields = append(fields, Field{
			Name:      syntheticFieldName(i),
			Start:     contentStart,
			Length:    length,
			Attribute: attrs[i],
			Modified:  modified,
		})
	}
	s.fields = fields
}

func syntheticFieldName(index int) string {
	return "field_" + itoa(index)
}

// SetCursor updates the cursor position. Does not expand the dirty
// region (cursor motion alone is not a screen content change).
func (s *Screen) SetCursor(pos int) error {
	if !s.validPos(pos) {
		return ErrInvalidPosition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = pos
	return nil
}

// SetOIA atomically replaces the OIA and wakes every waiter blocked in
// WaitForOIA.
func (s *Screen) SetOIA(oia OIA) {
	s.mu.Lock()
	s.oia = oia
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Clear blanks the character and extended-attribute planes within rect,
// expanding the dirty region.
func (s *Screen) Clear(rect Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for row := rect.MinRow; row < rect.MaxRow; row++ {
		for col := rect.MinCol; col < rect.MaxCol; col++ {
			if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
				return ErrInvalidPosition
			}
			pos := row*s.cols + col
			s.charPlane[pos] = 0x40 // EBCDIC blank
			s.extPlane[pos] = ExtAttr{}
		}
	}
	s.dirty = unionRect(s.dirty, rect)
	s.cond.Broadcast()
	return nil
}

func unionRect(a, b Rect) Rect {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	return Rect{
		MinRow: min(a.MinRow, b.MinRow),
		MinCol: min(a.MinCol, b.MinCol),
		MaxRow: max(a.MaxRow, b.MaxRow),
		MaxCol: max(a.MaxCol, b.MaxCol),
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Snapshot is an opaque copy of the character and extended-attribute
// planes, field table, and cursor, taken by Save and replayed by
// Restore. The OIA and dirty region are deliberately excluded: a
// restore reflects stored screen content, not stored keyboard state.
type Snapshot struct {
	charPlane []byte
	extPlane  []ExtAttr
	fields    []Field
	cursor    int
}

// Save captures a Snapshot of the current planes, field table, and
// cursor.
func (s *Screen) Save() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		charPlane: make([]byte, len(s.charPlane)),
		extPlane:  make([]ExtAttr, len(s.extPlane)),
		fields:    make([]Field, len(s.fields)),
		cursor:    s.cursor,
	}
	copy(snap.charPlane, s.charPlane)
	copy(snap.extPlane, s.extPlane)
	copy(snap.fields, s.fields)
	return snap
}

// Restore replaces the planes, field table, and cursor with a prior
// Snapshot, expanding the dirty region to cover the whole screen (a
// restore can change any cell, so the redraw must be conservative) and
// waking waiters.
func (s *Screen) Restore(snap Snapshot) error {
	if len(snap.charPlane) != s.cellCount() || len(snap.extPlane) != s.cellCount() {
		return ErrInvalidPosition
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.charPlane, snap.charPlane)
	copy(s.extPlane, snap.extPlane)
	s.fields = make([]Field, len(snap.fields))
	copy(s.fields, snap.fields)
	s.cursor = snap.cursor
	s.dirty = Rect{MinRow: 0, MinCol: 0, MaxRow: s.rows, MaxCol: s.cols}
	s.cond.Broadcast()
	return nil
}

// MarkFieldModified sets the MDT bit for the field at the given table
// index. A protected field's modified flag never becomes true — this is
// enforced here, not left to callers.
func (s *Screen) MarkFieldModified(fieldIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fieldIndex < 0 || fieldIndex >= len(s.fields) {
		return ErrInvalidPosition
	}
	if s.fields[fieldIndex].Attribute.Protected() {
		return nil
	}
	s.fields[fieldIndex].Modified = true
	return nil
}

// --- Reading operations, exposed to the workflow engine (C5) ---

// ScreenText translates the character plane through the codepage into
// Unicode text, row-major, with a newline between rows, sampled
// atomically under the screen mutex.
func (s *Screen) ScreenText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screenTextLocked()
}

func (s *Screen) screenTextLocked() string {
	buf := make([]rune, 0, s.cellCount()+s.rows)
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			buf = append(buf, s.cp.ToUnicode(s.charPlane[row*s.cols+col]))
		}
		if row < s.rows-1 {
			buf = append(buf, '\n')
		}
	}
	return string(buf)
}

// FieldByName returns the field with the given name, if present. The
// index is also returned so callers (workflow Fill) can pass it to
// MarkFieldModified without a second lookup racing a concurrent rebuild.
func (s *Screen) FieldByName(name string) (Field, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return Field{}, -1, false
}

// Fields returns a copy of the current field table, in position order.
func (s *Screen) Fields() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldContent returns the current character-plane content of a field,
// translated through the codepage, for outbound assembly.
func (s *Screen) FieldContent(f Field) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]rune, 0, f.Length)
	for pos := f.Start; pos < f.End() && pos < s.cellCount(); pos++ {
		buf = append(buf, s.cp.ToUnicode(s.charPlane[pos]))
	}
	return string(buf)
}

// OIASnapshot is an atomic read of the current OIA.
func (s *Screen) OIASnapshot() OIA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.oia
}

// CursorPosition returns the cursor as (row, column), both 0-based.
func (s *Screen) CursorPosition() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowCol(s.cursor)
}

func (s *Screen) rowCol(pos int) (row, col int) {
	return pos / s.cols, pos % s.cols
}

// PositionOf converts (row, col), both 1-based per the 5250 SBA
// convention, to a 0-based buffer position. Returns ErrInvalidPosition if
// out of 1..rows / 1..cols.
func (s *Screen) PositionOf(row, col int) (int, error) {
	if row < 1 || row > s.rows || col < 1 || col > s.cols {
		return 0, ErrInvalidPosition
	}
	return (row-1)*s.cols + (col - 1), nil
}

// WaitForOIA blocks until predicate(OIASnapshot()) is true or timeout
// elapses, whichever comes first. The deadline is computed once, from
// the call's start time, so it is immune to repeated re-evaluation
// against a drifting "now". A negative timeout is treated as zero.
func (s *Screen) WaitForOIA(ctx context.Context, predicate func(OIA) bool, timeout time.Duration) WaitResult {
	if timeout < 0 {
		timeout = 0
	}
	deadline := time.Now().Add(timeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if s.closed {
			return WaitCancelled
		}
		if predicate(s.oia) {
			return WaitOK
		}
		if !time.Now().Before(deadline) {
			return WaitTimeout
		}
		if waitWithDeadline(ctx, s, deadline) == WaitCancelled {
			if ctxDone(ctx) {
				return WaitCancelled
			}
		}
	}
}

// WaitForScreenChange blocks until the dirty region becomes non-empty
// (relative to empty-at-call-time) or timeout elapses.
func (s *Screen) WaitForScreenChange(ctx context.Context, timeout time.Duration) WaitResult {
	if timeout < 0 {
		timeout = 0
	}
	deadline := time.Now().Add(timeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = Rect{}

	for {
		if s.closed {
			return WaitCancelled
		}
		if !s.dirty.Empty() {
			return WaitOK
		}
		if !time.Now().Before(deadline) {
			return WaitTimeout
		}
		waitWithDeadline(ctx, s, deadline)
	}
}

// ConsumeDirty returns the current dirty region and resets it to empty,
// as an atomic read.
func (s *Screen) ConsumeDirty() Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.dirty
	s.dirty = Rect{}
	return r
}

// Close marks the screen cancelled: every blocked and future WaitForOIA
// / WaitForScreenChange call returns WaitCancelled. Idempotent.
func (s *Screen) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()
}

func ctxDone(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// waitWithDeadline sleeps on the condition variable until broadcast,
// context cancellation, or deadline, whichever first — condition
// variables have no native deadline, so a timer goroutine broadcasts on
// expiry. The screen mutex must be held on entry and is held on return.
func waitWithDeadline(ctx context.Context, s *Screen, deadline time.Time) WaitResult {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return WaitTimeout
	}
	done := make(chan struct{})
	timer := time.AfterFunc(remaining, func() {
		s.mu.Lock()
		close(done)
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer timer.Stop()

	if ctx != nil {
		stop := context.AfterFunc(ctx, func() {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		})
		defer stop()
	}

	s.cond.Wait()
	select {
	case <-done:
		return WaitTimeout
	default:
		return WaitOK
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
