package moddb

// Command is a MOD effect command nibble.
type Command uint8

const (
	// Encoding: 0xy
	// Arg: semitone offsets (x, y), zero param means "no effect"
	CmdArpeggio Command = 0x0

	// Encoding: 1xx
	// Arg: period decrement per tick
	CmdPortamentoUp Command = 0x1

	// Encoding: 2xx
	// Arg: period increment per tick
	CmdPortamentoDown Command = 0x2

	// Encoding: 3xx
	// Arg: slide speed, zero keeps the previous one
	CmdTonePortamento Command = 0x3

	// Encoding: 4xy
	// Arg: speed (x), depth (y); zero nibbles keep the previous values
	CmdVibrato Command = 0x4

	// Encoding: 5xy
	// Arg: volume slide, tone portamento continues
	CmdVolumeSlideTonePortamento Command = 0x5

	// Encoding: 6xy
	// Arg: volume slide, vibrato continues
	CmdVolumeSlideVibrato Command = 0x6

	CmdTremolo    Command = 0x7
	CmdSetPanning Command = 0x8

	// Encoding: 9xy
	// Arg: sample offset in 256-word units
	CmdSampleOffset Command = 0x9

	// Encoding: Axy
	// Arg: up (x) or down (y) per tick
	CmdVolumeSlide Command = 0xA

	// Encoding: Bxx
	// Arg: order table position
	CmdPositionJump Command = 0xB

	// Encoding: Cxx
	// Arg: volume level (0-64)
	CmdSetVolume Command = 0xC

	// Encoding: Dxy
	// Arg: row in the next pattern, x*10+y
	CmdPatternBreak Command = 0xD

	// Encoding: Exy
	// Arg: sub-command (x) and its argument (y)
	CmdExtended Command = 0xE

	// Encoding: Fxx
	// Arg: ticks per row (<0x20) or BPM (>=0x20)
	CmdSetSpeed Command = 0xF
)

// ExtCommand is a sub-command of the CmdExtended effect (the x nibble of Exy).
type ExtCommand uint8

const (
	ExtFilter             ExtCommand = 0x0
	ExtFinePortamentoUp   ExtCommand = 0x1
	ExtFinePortamentoDown ExtCommand = 0x2
	ExtGlissando          ExtCommand = 0x3
	ExtVibratoWaveform    ExtCommand = 0x4
	ExtSetFinetune        ExtCommand = 0x5
	ExtPatternLoop        ExtCommand = 0x6
	ExtTremoloWaveform    ExtCommand = 0x7
	ExtSetPanning         ExtCommand = 0x8
	ExtRetrigger          ExtCommand = 0x9
	ExtFineVolumeSlideUp  ExtCommand = 0xA
	ExtFineVolumeSlideDn  ExtCommand = 0xB
	ExtNoteCut            ExtCommand = 0xC
	ExtNoteDelay          ExtCommand = 0xD
	ExtPatternDelay       ExtCommand = 0xE
	ExtInvertLoop         ExtCommand = 0xF
)

const (
	// MinPeriod is the highest note a portamento can reach (B-3).
	MinPeriod = 113

	// MaxFinePeriod is the lowest note a fine portamento can reach (C-1).
	MaxFinePeriod = 856

	// MaxPeriod bounds the regular portamento down slide.
	MaxPeriod = 20000

	MaxVolume = 64

	// SpeedThreshold separates "set speed" from "set BPM" in Fxx.
	SpeedThreshold = 0x20
)
