package modfile

// Note is a decoded pattern cell.
//
// Encoded layout (4 bytes):
//
//	byte 0: instrument high nibble | period bits 8-11
//	byte 1: period bits 0-7
//	byte 2: instrument low nibble  | effect command
//	byte 3: effect parameter
type Note struct {
	// Instrument is a 1-based instrument number.
	// 0 means "keep the current instrument".
	Instrument uint8

	// Period is an Amiga period (12 bits).
	// 0 means "no new note".
	Period uint16

	Effect uint8
	Param  uint8
}

const (
	noteInstrumentHighMask = 0xF0
	notePeriodHighMask     = 0x0F
	noteEffectMask         = 0x0F
	noteInstrumentLowShift = 4
	notePeriodHighShift    = 8
)

// DecodeNote decodes a single encoded pattern cell.
// b is expected to have at least NoteSize bytes.
func DecodeNote(b []byte) Note {
	_ = b[NoteSize-1]
	return Note{
		Instrument: (b[0] & noteInstrumentHighMask) | (b[2] >> noteInstrumentLowShift),
		Period:     (uint16(b[0]&notePeriodHighMask) << notePeriodHighShift) | uint16(b[1]),
		Effect:     b[2] & noteEffectMask,
		Param:      b[3],
	}
}

// Encode writes the cell into b.
// b is expected to have at least NoteSize bytes.
func (n Note) Encode(b []byte) {
	_ = b[NoteSize-1]
	b[0] = (n.Instrument & noteInstrumentHighMask) | uint8(n.Period>>notePeriodHighShift)&notePeriodHighMask
	b[1] = uint8(n.Period)
	b[2] = (n.Instrument << noteInstrumentLowShift) | (n.Effect & noteEffectMask)
	b[3] = n.Param
}

// EffectCode returns a combined 12-bit effect value (command and parameter).
func (n Note) EffectCode() uint16 {
	return (uint16(n.Effect) << 8) | uint16(n.Param)
}

func (n Note) ParamHigh() uint8 { return n.Param >> 4 }

func (n Note) ParamLow() uint8 { return n.Param & 0x0F }

func (n Note) IsEmpty() bool { return n == Note{} }
