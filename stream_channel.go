package mod

import (
	"github.com/quasilyte/mod/internal/moddb"
)

type streamChannel struct {
	// cur is the sample region being played right now.
	cur sampleRegion

	// next is played when cur reaches its end (or its loop end).
	// It's armed by a note without a period or by a tone portamento.
	next        sampleRegion
	pendingNext bool

	// delayed is started by the note delay (EDx) effect.
	delayed   sampleRegion
	noteDelay uint8

	// last is the most recently triggered region; retrigger uses it.
	last sampleRegion

	pos  uint32 // Fixed-point playback position, see posWordShift
	step uint32

	period         uint16
	arpeggioOffset int16
	vibratoOffset  int16
	volume         uint8
	finetune       uint8
	instIndex      uint8

	effect      moddb.Command
	effectParam uint8
	effectCode  uint16 // The raw 12-bit effect of the last decoded row

	arpeggioPeriods [3]uint16
	arpeggioIndex   uint8

	portamentoTarget uint16
	portamentoSpeed  uint16

	vibratoParam uint8
	vibratoPhase uint8

	volumeSlide uint8

	loopCount    uint8
	loopStartPos int

	retrigParam uint8
	retrigCount uint8

	cutCount uint8

	funkSpeed  uint8
	funkOffset uint8

	glissando uint8

	lastSampleOffset uint32
}

// trigger starts a new sample from its beginning.
func (ch *streamChannel) trigger(r sampleRegion) {
	ch.cur = r
	ch.last = r
}

// continueNext switches to the armed next region.
// It's called when the current region (or its loop) ends.
func (ch *streamChannel) continueNext() {
	if !ch.pendingNext {
		return
	}
	ch.pendingNext = false
	ch.cur = ch.next
	ch.last = ch.cur
}

func (ch *streamChannel) updateStep(sampleRateConst uint32) {
	if ch.period == 0 {
		ch.step = 0
		return
	}
	finalPeriod := int(ch.period) - int(ch.arpeggioOffset) - int(ch.vibratoOffset)
	ch.step = calcSampleStep(sampleRateConst, finalPeriod)
}

// advance moves the playback position by one output sample step
// and handles the sample end and the loop wrap-around.
func (ch *streamChannel) advance() {
	ch.pos += ch.step
	cur := &ch.cur

	if !cur.isLooped() {
		if ch.pos>>posWordShift < cur.length {
			return
		}
		// A one-shot sample is over: it can only continue
		// with the next region (if there is one).
		cur.length = 0
		cur.loopStart = 0
		ch.continueNext()
		if cur.length != 0 {
			ch.pos %= cur.length << posWordShift
		} else {
			ch.pos = 0
		}
		return
	}

	if ch.pos>>posWordShift < cur.loopEnd() {
		return
	}
	ch.continueNext()
	if cur.data != nil {
		ch.pos = (cur.loopStart << posWordShift) + ch.pos%(cur.loopEnd()<<posWordShift)
	}
}

// sample returns the current 8-bit sample value.
// A position outside of the data gives a silence.
func (ch *streamChannel) sample() (uint8, bool) {
	k := ch.pos >> posByteShift
	if k >= uint32(len(ch.cur.data)) {
		return 0, false
	}
	return ch.cur.data[k], true
}
