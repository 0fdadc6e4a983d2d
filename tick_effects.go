package mod

import (
	"github.com/quasilyte/mod/internal/moddb"
)

// tickChannel runs the per-tick part of the channel effect.
// Tick effects are executed between the rows (never on the row tick itself).
func (s *Stream) tickChannel(ch *streamChannel) {
	s.invertLoop(ch)

	switch ch.effect {
	case moddb.CmdArpeggio:
		if ch.effectParam == 0 {
			break
		}
		ch.arpeggioOffset = int16(int(ch.period) - int(ch.arpeggioPeriods[ch.arpeggioIndex]))
		ch.arpeggioIndex++
		if ch.arpeggioIndex > 2 {
			ch.arpeggioIndex = 0
		}

	case moddb.CmdPortamentoUp:
		if ch.period == 0 {
			break
		}
		p := int(ch.period) - int(ch.effectParam)
		if p < moddb.MinPeriod || p > moddb.MaxPeriod {
			p = moddb.MinPeriod
		}
		ch.period = uint16(p)

	case moddb.CmdPortamentoDown:
		if ch.period == 0 {
			break
		}
		p := int(ch.period) + int(ch.effectParam)
		if p > moddb.MaxPeriod {
			p = moddb.MaxPeriod
		}
		ch.period = uint16(p)

	case moddb.CmdTonePortamento, moddb.CmdVolumeSlideTonePortamento:
		tonePortamento(ch)
		if ch.effect == moddb.CmdVolumeSlideTonePortamento {
			ch.volume = slideVolume(ch.volume, ch.volumeSlide)
		}

	case moddb.CmdVibrato, moddb.CmdVolumeSlideVibrato:
		vibrato(ch)
		if ch.effect == moddb.CmdVolumeSlideVibrato {
			ch.volume = slideVolume(ch.volume, ch.volumeSlide)
		}

	case moddb.CmdVolumeSlide:
		ch.volume = slideVolume(ch.volume, ch.volumeSlide)

	case moddb.CmdExtended:
		s.tickExtended(ch)
	}
}

func (s *Stream) tickExtended(ch *streamChannel) {
	switch moddb.ExtCommand(ch.effectParam >> 4) {
	case moddb.ExtNoteCut:
		if ch.cutCount == 0 {
			break
		}
		ch.cutCount--
		if ch.cutCount == 0 {
			ch.volume = 0
		}

	case moddb.ExtRetrigger:
		ch.retrigCount++
		if ch.retrigCount >= ch.retrigParam {
			ch.retrigCount = 0
			ch.cur = ch.last
			ch.pos = 0
		}

	case moddb.ExtNoteDelay:
		if ch.noteDelay != 0 && ch.noteDelay-1 == s.tickIndex {
			ch.trigger(ch.delayed)
			ch.noteDelay = 0
		}
	}
}

func tonePortamento(ch *streamChannel) {
	target := ch.portamentoTarget
	if ch.period == 0 || target == 0 || ch.period == target {
		return
	}
	speed := ch.portamentoSpeed
	if ch.period > target {
		if ch.period-target >= speed {
			ch.period -= speed
		} else {
			ch.period = target
		}
	} else {
		if target-ch.period >= speed {
			ch.period += speed
		} else {
			ch.period = target
		}
	}
	if ch.period == target {
		ch.portamentoTarget = 0
	}
}

func vibrato(ch *streamChannel) {
	depth := int(ch.vibratoParam & 0x0F)
	offset := (depth * int(moddb.SineTable[ch.vibratoPhase&0x1F])) >> 7
	if ch.vibratoPhase > 31 {
		offset = -offset
	}
	ch.vibratoOffset = int16(offset)
	ch.vibratoPhase = (ch.vibratoPhase + (ch.vibratoParam >> 4)) & 0x3F
}

// invertLoop implements the legacy "funk repeat" (EFx) effect.
// When the samples are writable, it inverts the looped sample bytes one by one.
func (s *Stream) invertLoop(ch *streamChannel) {
	if ch.funkSpeed == 0 {
		return
	}
	ch.funkOffset += moddb.InvertLoopTable[ch.funkSpeed&0x0F]
	if ch.funkOffset <= 128 {
		return
	}
	ch.funkOffset = 0

	cur := &ch.cur
	if cur.data == nil || cur.length == 0 || !cur.isLooped() {
		return
	}
	if ch.pos>>posWordShift >= cur.loopEnd() {
		ch.pos = (cur.loopStart << posWordShift) + ch.pos%(cur.loopEnd()<<posWordShift)
	}
	if !s.module.samplesWritable {
		return
	}
	if k := ch.pos >> posByteShift; k < uint32(len(cur.data)) {
		cur.data[k] = ^cur.data[k]
	}
}
