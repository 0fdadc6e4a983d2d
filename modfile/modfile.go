package modfile

import (
	"fmt"
	"io"
)

const (
	// MaxChannels is the max number of channels a module can have.
	MaxChannels = 32

	// NumInstruments is the number of instrument slots in a standard module.
	// Legacy (Soundtracker) modules only use the first 15 of them.
	NumInstruments = 31

	NumLegacyInstruments = 15

	// OrderTableSize is a fixed number of the pattern order table entries.
	OrderTableSize = 128

	RowsPerPattern = 64

	// NoteSize is a size of a single encoded pattern cell.
	NoteSize = 4

	MaxVolume = 64
)

// Module is a parsed MOD file contents.
//
// Unless ParserConfig.CopyData was used, the patterns and samples
// reference the parsed data directly, so that memory should be kept
// alive (and unmodified) while the module is in use.
type Module struct {
	Title string

	// Signature is a 4-byte format tag like "M.K." or "8CHN".
	// It's empty for the legacy modules.
	Signature string

	Format Format

	NumChannels int

	// SongLength is a number of used PatternOrder entries.
	SongLength int

	// RestartPosition is a historical marker byte.
	// Most trackers ignore it (and so does this package).
	RestartPosition uint8

	PatternOrder [OrderTableSize]uint8

	// Patterns are indexed by the pattern number.
	// The PatternOrder values are valid Patterns indexes.
	Patterns []Pattern

	Instruments [NumInstruments]Instrument

	// SamplesWritable reports whether Instrument.Data can be modified in place.
	// It's true when the module owns its data or the caller allowed that explicitly.
	SamplesWritable bool
}

type Format int

const (
	FormatStandard Format = iota

	// FormatLegacy is a 15-instrument Soundtracker module without a signature.
	FormatLegacy
)

func (f Format) String() string {
	switch f {
	case FormatStandard:
		return "standard"
	case FormatLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

type Instrument struct {
	Name string

	// Length is a sample length in words (2 bytes).
	Length int

	// Finetune is a signed nibble index.
	// Values 0..7 are positive finetunes, 8..15 are -8..-1.
	Finetune uint8

	// Volume is a default instrument volume in [0, 64].
	Volume uint8

	// LoopStart and LoopLength are measured in words.
	// A loop with length below 2 means "no loop".
	LoopStart  int
	LoopLength int

	// Data contains 8-bit signed PCM samples (Length*2 bytes).
	// It's nil for the empty instruments.
	Data []byte
}

// FinetuneValue returns a signed finetune value.
func (inst *Instrument) FinetuneValue() int {
	return int(int8(inst.Finetune<<4) >> 4)
}

func (inst *Instrument) IsLooped() bool {
	return inst.LoopLength >= 2
}

// Pattern is a raw encoded pattern data.
// It contains RowsPerPattern rows, every row is NumChannels notes.
type Pattern struct {
	NumChannels int

	Data []byte
}

// NewPattern allocates an empty pattern.
func NewPattern(numChannels int) Pattern {
	return Pattern{
		NumChannels: numChannels,
		Data:        make([]byte, PatternSize(numChannels)),
	}
}

// NewPatternAt creates a pattern view over the given encoded data.
// The data slice must be at least PatternSize(numChannels) bytes long.
func NewPatternAt(data []byte, numChannels int) Pattern {
	return Pattern{
		NumChannels: numChannels,
		Data:        data[:PatternSize(numChannels)],
	}
}

// PatternSize returns the encoded pattern size in bytes.
func PatternSize(numChannels int) int {
	return RowsPerPattern * numChannels * NoteSize
}

func (p Pattern) noteOffset(row, channel int) int {
	return (row*p.NumChannels + channel) * NoteSize
}

// Note decodes the pattern cell.
func (p Pattern) Note(row, channel int) Note {
	offset := p.noteOffset(row, channel)
	return DecodeNote(p.Data[offset : offset+NoteSize])
}

// SetNote encodes the pattern cell.
// Can't be used on read-only module data.
func (p Pattern) SetNote(row, channel int, n Note) {
	offset := p.noteOffset(row, channel)
	n.Encode(p.Data[offset : offset+NoteSize])
}

// Parse reads MOD file data and decodes it into a module.
//
// Since the reader contents are not retained anywhere,
// the resulting module owns its data.
//
// A non-nil error is usually a *ParseError object.
func Parse(r io.Reader, config ParserConfig) (*Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	config.WritableSamples = true
	return NewParser(config).ParseFromBytes(data)
}
