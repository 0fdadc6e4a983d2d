package mod

import (
	"testing"

	"github.com/quasilyte/mod/modfile"
)

// newNoteStream creates a stream that plays the given notes on channel 0.
func newNoteStream(t *testing.T, notes ...modfile.Note) *Stream {
	t.Helper()
	m := newTestModule(4)
	for row, n := range notes {
		m.Patterns[0].SetNote(row, 0, n)
	}
	return newTestStream(t, m)
}

func TestSlideVolume(t *testing.T) {
	tests := []struct {
		volume uint8
		slide  uint8
		want   uint8
	}{
		{63, 0x20, 64},
		{64, 0xF0, 64},
		{10, 0x30, 13},
		{10, 0x35, 13}, // Up has a priority
		{1, 0x05, 0},
		{10, 0x05, 5},
		{0, 0x0F, 0},
		{20, 0x00, 20},
	}
	for _, test := range tests {
		if have := slideVolume(test.volume, test.slide); have != test.want {
			t.Errorf("slideVolume(%d, %#02x): have %d, want %d", test.volume, test.slide, have, test.want)
		}
	}
}

func TestSetVolume(t *testing.T) {
	s := newNoteStream(t, modfile.Note{Instrument: 1, Period: 428, Effect: 0xC, Param: 0x20})
	render(s, 1)
	if s.channels[0].volume != 32 {
		t.Fatalf("have volume %d, want 32", s.channels[0].volume)
	}

	s = newNoteStream(t, modfile.Note{Instrument: 1, Period: 428, Effect: 0xC, Param: 0x50})
	render(s, 1)
	if s.channels[0].volume != 64 {
		t.Fatalf("have volume %d, want 64", s.channels[0].volume)
	}
}

func TestVolumeSlide(t *testing.T) {
	s := newNoteStream(t, modfile.Note{Instrument: 1, Period: 428, Effect: 0xA, Param: 0x04})
	ch := &s.channels[0]
	render(s, rowFrames(0, 0))
	if ch.volume != 64 {
		t.Fatalf("the slide should not run on the row tick")
	}
	render(s, rowFrames(0, 5)-rowFrames(0, 0))
	if ch.volume != 64-5*4 {
		t.Fatalf("have volume %d, want %d", ch.volume, 64-5*4)
	}

	// Fine slides run once.
	s = newNoteStream(t,
		modfile.Note{Instrument: 1, Period: 428, Effect: 0xE, Param: 0xB3},
		modfile.Note{Effect: 0xE, Param: 0xA1},
	)
	ch = &s.channels[0]
	render(s, rowFrames(0, 5))
	if ch.volume != 61 {
		t.Fatalf("have volume %d, want 61", ch.volume)
	}
	render(s, rowFrames(1, 5)-rowFrames(0, 5))
	if ch.volume != 62 {
		t.Fatalf("have volume %d, want 62", ch.volume)
	}
}

func TestPatternBreak(t *testing.T) {
	m := newTestModule(4)
	m.Patterns[0].SetNote(5, 1, modfile.Note{Effect: 0xD, Param: 0x10})
	s := newTestStream(t, m)
	render(s, rowFrames(5, 0))
	if s.orderPos != 1 || s.patternPos != 10*4 {
		t.Fatalf("have order=%d pos=%d, want order=1 pos=40", s.orderPos, s.patternPos)
	}

	// Rows above 63 are clamped.
	m = newTestModule(4)
	m.Patterns[0].SetNote(0, 0, modfile.Note{Effect: 0xD, Param: 0x99})
	s = newTestStream(t, m)
	render(s, 1)
	if s.patternPos != 63*4 {
		t.Fatalf("have pos=%d, want %d", s.patternPos, 63*4)
	}
}

func TestPositionJump(t *testing.T) {
	m := newTestModule(4)
	m.Patterns[0].SetNote(2, 3, modfile.Note{Effect: 0xB, Param: 0x01})
	s := newTestStream(t, m)
	render(s, rowFrames(2, 0))
	if s.orderPos != 1 || s.patternPos != 0 {
		t.Fatalf("have order=%d pos=%d, want order=1 pos=0", s.orderPos, s.patternPos)
	}

	// Jump + break: the break row is used, the order is not advanced twice.
	m = newTestModule(4)
	m.Patterns[0].SetNote(2, 0, modfile.Note{Effect: 0xB, Param: 0x01})
	m.Patterns[0].SetNote(2, 1, modfile.Note{Effect: 0xD, Param: 0x05})
	s = newTestStream(t, m)
	render(s, rowFrames(2, 0))
	if s.orderPos != 1 || s.patternPos != 5*4 {
		t.Fatalf("have order=%d pos=%d, want order=1 pos=20", s.orderPos, s.patternPos)
	}

	// Out of range jumps restart the song.
	m = newTestModule(4)
	m.Patterns[0].SetNote(0, 0, modfile.Note{Effect: 0xB, Param: 0x40})
	s = newTestStream(t, m)
	render(s, 1)
	if s.orderPos != 0 || s.patternPos != 0 {
		t.Fatalf("have order=%d pos=%d", s.orderPos, s.patternPos)
	}
}

func TestSetSpeed(t *testing.T) {
	s := newNoteStream(t,
		modfile.Note{Effect: 0xF, Param: 0x03},
		modfile.Note{Effect: 0xF, Param: 0x50},
		modfile.Note{Effect: 0xF, Param: 0x00},
	)
	render(s, 1)
	if s.speed != 3 || s.rowTicksAim != 3*882 {
		t.Fatalf("have speed=%d aim=%d", s.speed, s.rowTicksAim)
	}
	render(s, 3*882+2)
	if s.bpm != 0x50 || s.tickTicksAim != 1378 || s.rowTicksAim != 3*1378 {
		t.Fatalf("have bpm=%d tick aim=%d row aim=%d", s.bpm, s.tickTicksAim, s.rowTicksAim)
	}
	render(s, 3*1378+2)
	if s.patternPos != 3*4 || s.speed != 3 || s.bpm != 0x50 {
		t.Fatalf("F00 should be ignored: speed=%d bpm=%d", s.speed, s.bpm)
	}
}

func TestArpeggio(t *testing.T) {
	s := newNoteStream(t, modfile.Note{Instrument: 1, Period: 428, Effect: 0x0, Param: 0x47})
	ch := &s.channels[0]
	render(s, 1)
	if ch.arpeggioPeriods != [3]uint16{428, 339, 285} {
		t.Fatalf("have arpeggio periods %v", ch.arpeggioPeriods)
	}

	want := []int16{0, 428 - 339, 428 - 285, 0, 428 - 339}
	for i, offset := range want {
		render(s, testTickFrames-boolToInt(i == 0))
		if ch.arpeggioOffset != offset {
			t.Fatalf("tick %d: have offset %d, want %d", i+1, ch.arpeggioOffset, offset)
		}
		if wantStep := 82304 / uint32(428-int(offset)); ch.step != wantStep {
			t.Fatalf("tick %d: have step %d, want %d", i+1, ch.step, wantStep)
		}
	}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func TestPortamento(t *testing.T) {
	tests := []struct {
		period uint16
		effect uint8
		param  uint8
		ticks  int
		want   uint16
	}{
		{428, 0x1, 0x10, 2, 396},
		{120, 0x1, 0x10, 1, 113},
		{428, 0x2, 0x10, 2, 460},
		{428, 0x2, 0xFF, 5, 428 + 5*0xFF},
	}
	for _, test := range tests {
		s := newNoteStream(t, modfile.Note{Instrument: 1, Period: test.period, Effect: test.effect, Param: test.param})
		render(s, rowFrames(0, test.ticks))
		if s.channels[0].period != test.want {
			t.Errorf("%x%02x on %d: have period %d after %d ticks, want %d",
				test.effect, test.param, test.period, s.channels[0].period, test.ticks, test.want)
		}
	}

	s := newNoteStream(t,
		modfile.Note{Instrument: 1, Period: 120, Effect: 0xE, Param: 0x1F},
		modfile.Note{Effect: 0xE, Param: 0x2F},
	)
	render(s, 1)
	if s.channels[0].period != 113 {
		t.Fatalf("fine portamento up: have %d, want 113", s.channels[0].period)
	}
	render(s, testRowFrames)
	if s.channels[0].period != 128 {
		t.Fatalf("fine portamento down: have %d, want 128", s.channels[0].period)
	}
}

func TestTonePortamento(t *testing.T) {
	s := newNoteStream(t,
		modfile.Note{Instrument: 1, Period: 428},
		modfile.Note{Period: 400, Effect: 0x3, Param: 0x08},
		modfile.Note{Effect: 0x3},
	)
	ch := &s.channels[0]
	render(s, rowFrames(1, 0))
	if ch.period != 428 || ch.portamentoTarget != 400 || ch.pos == 0 {
		t.Fatalf("have period=%d target=%d pos=%d", ch.period, ch.portamentoTarget, ch.pos)
	}
	for i, want := range []uint16{420, 412, 404, 400, 400} {
		render(s, testTickFrames-boolToInt(i == 0))
		if ch.period != want {
			t.Fatalf("tick %d: have period %d, want %d", i+1, ch.period, want)
		}
	}
	if ch.portamentoTarget != 0 {
		t.Fatalf("the target should be cleared")
	}
	if ch.portamentoSpeed != 8 {
		t.Fatalf("have speed %d", ch.portamentoSpeed)
	}
}

func TestVibrato(t *testing.T) {
	s := newNoteStream(t,
		modfile.Note{Instrument: 1, Period: 428, Effect: 0x4, Param: 0x48},
		modfile.Note{Effect: 0x4, Param: 0x03},
		modfile.Note{Instrument: 1, Period: 428},
	)
	ch := &s.channels[0]
	render(s, rowFrames(0, 1))
	if ch.vibratoOffset != 0 || ch.vibratoPhase != 4 {
		t.Fatalf("tick 1: have offset=%d phase=%d", ch.vibratoOffset, ch.vibratoPhase)
	}
	render(s, testTickFrames)
	if want := int16((8 * 97) >> 7); ch.vibratoOffset != want || ch.vibratoPhase != 8 {
		t.Fatalf("tick 2: have offset=%d phase=%d, want offset=%d", ch.vibratoOffset, ch.vibratoPhase, want)
	}

	// The speed is kept, the depth is replaced.
	render(s, rowFrames(1, 0)-rowFrames(0, 2))
	if ch.vibratoParam != 0x43 {
		t.Fatalf("have vibrato param %#x, want 0x43", ch.vibratoParam)
	}
	// 10 ticks with the speed of 4.
	render(s, rowFrames(1, 5)-rowFrames(1, 0))
	if ch.vibratoPhase != 40 {
		t.Fatalf("have phase %d, want 40", ch.vibratoPhase)
	}

	// A new note without the vibrato resets it.
	render(s, testRowFrames)
	if ch.vibratoOffset != 0 || ch.vibratoPhase != 0 {
		t.Fatalf("vibrato is not reset: offset=%d phase=%d", ch.vibratoOffset, ch.vibratoPhase)
	}
}

func TestNegativeVibratoHalf(t *testing.T) {
	ch := &streamChannel{vibratoParam: 0x0F, vibratoPhase: 36}
	vibrato(ch)
	if want := -int16((15 * 97) >> 7); ch.vibratoOffset != want {
		t.Fatalf("have offset %d, want %d", ch.vibratoOffset, want)
	}
	ch = &streamChannel{vibratoParam: 0xF0, vibratoPhase: 60}
	vibrato(ch)
	if ch.vibratoPhase != 11 {
		t.Fatalf("phase is not wrapped: %d", ch.vibratoPhase)
	}
}

func TestNoteCut(t *testing.T) {
	s := newNoteStream(t, modfile.Note{Instrument: 1, Period: 428, Effect: 0xE, Param: 0xC2})
	ch := &s.channels[0]
	render(s, rowFrames(0, 1))
	if ch.volume != 64 {
		t.Fatalf("tick 1: have volume %d", ch.volume)
	}
	render(s, testTickFrames)
	if ch.volume != 0 {
		t.Fatalf("tick 2: have volume %d, want 0", ch.volume)
	}

	s = newNoteStream(t, modfile.Note{Instrument: 1, Period: 428, Effect: 0xE, Param: 0xC0})
	render(s, 1)
	if s.channels[0].volume != 0 {
		t.Fatalf("EC0 should cut the note immediately")
	}
}

func TestNoteDelay(t *testing.T) {
	s := newNoteStream(t, modfile.Note{Instrument: 1, Period: 428, Effect: 0xE, Param: 0xD2})
	ch := &s.channels[0]
	out := render(s, rowFrames(0, 1))
	if ch.cur.data != nil || ch.noteDelay != 2 || hasSound(out) {
		t.Fatalf("the note should be delayed")
	}
	render(s, testTickFrames)
	if ch.cur.data == nil || ch.noteDelay != 0 {
		t.Fatalf("the delayed note is not started")
	}
	if ch.last.data == nil {
		t.Fatalf("the delayed note should be retriggerable")
	}
}

func TestRetrigger(t *testing.T) {
	s := newNoteStream(t, modfile.Note{Instrument: 1, Period: 428, Effect: 0xE, Param: 0x92})
	ch := &s.channels[0]
	render(s, rowFrames(0, 1))
	if ch.pos == ch.step {
		t.Fatalf("retriggered too early")
	}
	render(s, testTickFrames)
	if ch.pos != ch.step {
		t.Fatalf("have pos %d, want %d", ch.pos, ch.step)
	}
}

func TestSampleOffset(t *testing.T) {
	m := newTestModule(4)
	m.Instruments[1] = modfile.Instrument{
		Length:     0x1000,
		Volume:     64,
		LoopLength: 0x1000,
		Data:       make([]byte, 0x2000),
	}
	m.Patterns[0].SetNote(0, 0, modfile.Note{Instrument: 2, Period: 428, Effect: 0x9, Param: 0x01})
	m.Patterns[0].SetNote(1, 0, modfile.Note{Instrument: 2, Period: 428, Effect: 0x9})
	s := newTestStream(t, m)
	ch := &s.channels[0]
	render(s, 1)
	if want := uint32(0x100<<posByteShift) + ch.step; ch.pos != want {
		t.Fatalf("have pos %d, want %d", ch.pos, want)
	}
	render(s, testRowFrames)
	if want := uint32(0x100<<posByteShift) + ch.step; ch.pos != want {
		t.Fatalf("the last offset is not reused: have pos %d, want %d", ch.pos, want)
	}
}

func TestPatternLoop(t *testing.T) {
	s := newNoteStream(t,
		modfile.Note{Effect: 0xE, Param: 0x60},
		modfile.Note{Effect: 0xE, Param: 0x62},
	)
	// Rows: 0 1 0 1 0 1 2.
	wantPos := []int{1, 0, 1, 0, 1, 2, 3}
	for i, want := range wantPos {
		numFrames := testRowFrames
		if i == 0 {
			numFrames = 1
		}
		render(s, numFrames)
		if s.patternPos != want*4 {
			t.Fatalf("row decode %d: have pos %d, want %d", i+1, s.patternPos, want*4)
		}
	}
}

func TestPatternDelay(t *testing.T) {
	s := newNoteStream(t, modfile.Note{Effect: 0xE, Param: 0xE2})
	render(s, rowFrames(0, 0))
	if s.patternPos != 4 || s.patternDelay != 2 {
		t.Fatalf("have pos=%d delay=%d", s.patternPos, s.patternDelay)
	}
	render(s, 2*testRowFrames)
	if s.patternPos != 4 || s.patternDelay != 0 {
		t.Fatalf("have pos=%d delay=%d", s.patternPos, s.patternDelay)
	}
	render(s, testRowFrames)
	if s.patternPos != 8 {
		t.Fatalf("have pos=%d after the delay", s.patternPos)
	}
}

func TestInvertLoop(t *testing.T) {
	for _, writable := range []bool{false, true} {
		m := newTestModule(4)
		m.SamplesWritable = writable
		m.Patterns[0].SetNote(0, 0, modfile.Note{Instrument: 1, Period: 428, Effect: 0xE, Param: 0xFE})
		s := newTestStream(t, m)
		ch := &s.channels[0]

		render(s, rowFrames(0, 1))
		if ch.funkSpeed != 0x0E || ch.funkOffset != 128 {
			t.Fatalf("have speed=%d offset=%d", ch.funkSpeed, ch.funkOffset)
		}
		render(s, testTickFrames)
		if ch.funkOffset != 0 {
			t.Fatalf("have offset=%d, expected a reset", ch.funkOffset)
		}

		data := m.Instruments[0].Data
		numChanged := 0
		for i := range data {
			if data[i] != squareWave[i] {
				numChanged++
				if data[i] != ^squareWave[i] {
					t.Fatalf("data[%d]: have %#x, want %#x", i, data[i], ^squareWave[i])
				}
			}
		}
		if writable && numChanged != 1 {
			t.Fatalf("writable: have %d changed bytes, want 1", numChanged)
		}
		if !writable && numChanged != 0 {
			t.Fatalf("read-only: have %d changed bytes, want 0", numChanged)
		}
	}
}
