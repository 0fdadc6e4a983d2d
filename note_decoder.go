package mod

import (
	"github.com/quasilyte/mod/internal/moddb"
	"github.com/quasilyte/mod/modfile"
)

// decodeNote applies a pattern row cell to the channel.
//
// This is where the note is triggered (or staged for later)
// and where the row-level part of the effects is executed.
func (s *Stream) decodeNote(ch *streamChannel, n modfile.Note) {
	op := moddb.Command(n.Effect)
	paramHigh := n.ParamHigh()
	paramLow := n.ParamLow()
	period := n.Period
	oldPeriod := ch.period
	portamento := op == moddb.CmdTonePortamento || op == moddb.CmdVolumeSlideTonePortamento

	if period != 0 || n.Instrument != 0 {
		if n.Instrument != 0 && int(n.Instrument) <= modfile.NumInstruments {
			ch.instIndex = n.Instrument - 1
		}
		inst := &s.module.instruments[ch.instIndex]

		switch {
		case period != 0 && (!portamento || ch.cur.data == nil):
			if op == moddb.CmdExtended && moddb.ExtCommand(paramHigh) == moddb.ExtNoteDelay && paramLow != 0 {
				ch.delayed = inst.sample
				ch.noteDelay = paramLow
			} else {
				ch.trigger(inst.sample)
			}
			ch.pendingNext = false
		default:
			// The running sample continues; the instrument takes
			// over once the current sample (or its loop) ends.
			ch.next = inst.sample
			if !ch.next.isLooped() {
				ch.next.data = nil
			}
			ch.pendingNext = true
		}

		ch.finetune = inst.finetune

		if op != moddb.CmdVibrato && op != moddb.CmdVolumeSlideVibrato {
			ch.vibratoOffset = 0
			ch.vibratoPhase = 0
		}

		if n.Instrument != 0 && op != moddb.CmdVolumeSlideTonePortamento {
			ch.volume = inst.volume
			ch.volumeSlide = 0
		}

		if period != 0 && !portamento {
			ch.pos = 0
		}

		ch.arpeggioOffset = 0

		if period != 0 {
			if ch.finetune != 0 {
				period = moddb.FinetunePeriod(ch.finetune, period)
			}
			ch.period = period
		}
	}

	ch.effect = moddb.CmdArpeggio // Arpeggio with zero param is a no-op
	ch.effectParam = 0
	ch.effectCode = n.EffectCode()

	switch op {
	case moddb.CmdArpeggio:
		if n.Param == 0 {
			break
		}
		ch.effect = op
		ch.effectParam = n.Param
		ch.arpeggioIndex = 0
		note := moddb.FindNote(ch.period)
		ch.arpeggioPeriods[0] = ch.period
		ch.arpeggioPeriods[1] = moddb.NotePeriod(ch.finetune, note, int(paramHigh))
		ch.arpeggioPeriods[2] = moddb.NotePeriod(ch.finetune, note, int(paramLow))

	case moddb.CmdPortamentoUp, moddb.CmdPortamentoDown:
		ch.effect = op
		ch.effectParam = n.Param

	case moddb.CmdTonePortamento:
		ch.effect = op
		if n.Param != 0 {
			ch.portamentoSpeed = uint16(n.Param)
		}
		if period != 0 {
			ch.portamentoTarget = period
			ch.period = oldPeriod
		}

	case moddb.CmdVibrato:
		ch.effect = op
		if paramLow != 0 {
			ch.vibratoParam = (ch.vibratoParam & 0xF0) | paramLow
		}
		if paramHigh != 0 {
			ch.vibratoParam = (ch.vibratoParam & 0x0F) | (paramHigh << 4)
		}

	case moddb.CmdVolumeSlideTonePortamento:
		if period != 0 {
			ch.portamentoTarget = period
			ch.period = oldPeriod
		}
		ch.effect = op
		if n.Param != 0 {
			ch.volumeSlide = n.Param
		}

	case moddb.CmdVolumeSlideVibrato:
		ch.effect = op
		if n.Param != 0 {
			ch.volumeSlide = n.Param
		}

	case moddb.CmdSampleOffset:
		offset := ((uint32(paramHigh) << 12) + (uint32(paramLow) << 8)) << posByteShift
		if offset == 0 {
			offset = ch.lastSampleOffset
		}
		ch.pos = offset
		ch.lastSampleOffset = offset

	case moddb.CmdVolumeSlide:
		ch.effect = op
		ch.volumeSlide = n.Param

	case moddb.CmdPositionJump:
		s.orderPos = int(n.Param)
		if s.orderPos >= s.module.songLength {
			s.orderPos = 0
		}
		s.patternPos = 0
		s.jumped = true

	case moddb.CmdSetVolume:
		ch.volume = n.Param
		if ch.volume > moddb.MaxVolume {
			ch.volume = moddb.MaxVolume
		}

	case moddb.CmdPatternBreak:
		row := int(paramHigh)*10 + int(paramLow)
		if row >= modfile.RowsPerPattern {
			row = modfile.RowsPerPattern - 1
		}
		s.patternPos = row * s.module.numChannels
		if !s.jumped {
			s.nextOrder()
		}
		s.jumped = true

	case moddb.CmdExtended:
		s.decodeExtended(ch, moddb.ExtCommand(paramHigh), paramLow, period)

	case moddb.CmdSetSpeed:
		if n.Param == 0 {
			break
		}
		if n.Param < moddb.SpeedThreshold {
			s.speed = int(n.Param)
		} else {
			s.bpm = int(n.Param)
		}
		s.updateTiming()
	}
}

func (s *Stream) decodeExtended(ch *streamChannel, op moddb.ExtCommand, param uint8, period uint16) {
	switch op {
	case moddb.ExtFinePortamentoUp:
		if ch.period == 0 {
			break
		}
		p := int(ch.period) - int(param)
		if p < moddb.MinPeriod {
			p = moddb.MinPeriod
		}
		ch.period = uint16(p)

	case moddb.ExtFinePortamentoDown:
		if ch.period == 0 {
			break
		}
		p := int(ch.period) + int(param)
		if p > moddb.MaxFinePeriod {
			p = moddb.MaxFinePeriod
		}
		ch.period = uint16(p)

	case moddb.ExtGlissando:
		ch.glissando = param

	case moddb.ExtFineVolumeSlideUp:
		ch.volume = slideVolume(ch.volume, param<<4)

	case moddb.ExtFineVolumeSlideDn:
		ch.volume = slideVolume(ch.volume, param)

	case moddb.ExtSetFinetune:
		ch.finetune = param
		if period != 0 {
			ch.period = moddb.FinetunePeriod(param, period)
		}

	case moddb.ExtPatternLoop:
		if param == 0 {
			ch.loopStartPos = s.patternPos
			break
		}
		if ch.loopCount == 0 {
			ch.loopCount = param
			s.patternPos = ch.loopStartPos
			s.jumped = true
			break
		}
		ch.loopCount--
		if ch.loopCount != 0 {
			s.patternPos = ch.loopStartPos
			s.jumped = true
		} else {
			ch.loopStartPos = s.patternPos
		}

	case moddb.ExtPatternDelay:
		s.patternDelay = int(param)

	case moddb.ExtRetrigger:
		if param == 0 {
			break
		}
		ch.effect = moddb.CmdExtended
		ch.effectParam = uint8(op)<<4 | param
		ch.retrigParam = param
		ch.retrigCount = 0

	case moddb.ExtNoteCut:
		ch.effect = moddb.CmdExtended
		ch.effectParam = uint8(op)<<4 | param
		ch.cutCount = param
		if param == 0 {
			ch.volume = 0
		}

	case moddb.ExtNoteDelay:
		ch.effect = moddb.CmdExtended
		ch.effectParam = uint8(op)<<4 | param

	case moddb.ExtInvertLoop:
		ch.funkSpeed = param
		s.invertLoop(ch)
	}
}
