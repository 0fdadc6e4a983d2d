package modfile

import (
	"fmt"
	"strings"
)

// ParserConfig configures the MOD parsing.
type ParserConfig struct {
	// NeedStrings enables the module title and instrument names decoding.
	// When false, these strings are left empty.
	NeedStrings bool

	// CopyData makes the parser copy the input bytes before parsing.
	// The resulting module owns its data and its samples are writable.
	//
	// Without this option, the module references the input slice directly.
	CopyData bool

	// WritableSamples permits the player to modify the sample data in place.
	// Only the legacy invert loop (EFx) effect does that.
	//
	// Leave it unset for the read-only data (embedded files, mmap, etc.)
	WritableSamples bool
}

// Parser decodes MOD files.
// The parsed modules do not depend on the parser that produced them.
type Parser struct {
	p parser
}

// NewParser creates a MOD parser.
func NewParser(config ParserConfig) *Parser {
	return &Parser{
		p: parser{config: config},
	}
}

// ParseFromBytes decodes the module data.
//
// A non-nil error is usually a *ParseError object.
func (p *Parser) ParseFromBytes(data []byte) (*Module, error) {
	if p.p.config.CopyData {
		data = append([]byte(nil), data...)
	}
	return p.p.Parse(data)
}

type parser struct {
	// Data holds the MOD file input data bytes.
	data []byte

	// Offset is our current position inside the data.
	offset int

	// Module holds the results of MOD parsing.
	module *Module

	config ParserConfig

	// These fields below are needed for better error reporting.
	stage      string
	stageIndex int
}

const (
	titleSize          = 20
	instrumentSize     = 30
	instrumentNameSize = 22
	signatureSize      = 4

	// Standard layout.
	songLengthOffset = titleSize + NumInstruments*instrumentSize
	signatureOffset  = songLengthOffset + 2 + OrderTableSize
	headerSize       = signatureOffset + signatureSize

	// Legacy layout.
	legacySongLengthOffset = titleSize + NumLegacyInstruments*instrumentSize
	legacyHeaderSize       = legacySongLengthOffset + 2 + OrderTableSize
)

func (p *parser) Parse(data []byte) (*Module, error) {
	p.data = data
	p.offset = 0
	p.module = &Module{
		SamplesWritable: p.config.CopyData || p.config.WritableSamples,
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	m := p.module
	p.module = nil
	p.data = nil
	return m, nil
}

func (p *parser) startStage(name string) {
	p.stage = name
	p.stageIndex = -1
}

func (p *parser) formatStage() string {
	var b strings.Builder
	b.Grow(len(p.stage) + 8)
	b.WriteString(p.stage)
	if p.stageIndex >= 0 {
		fmt.Fprintf(&b, "[%d]", p.stageIndex)
	}
	return b.String()
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	text := fmt.Sprintf(format, args...)
	tag := p.formatStage()
	if tag != "" {
		text = tag + ": " + text
	}
	e := &ParseError{
		Message: text,
		Offset:  p.offset,
	}
	return e
}

func (p *parser) dataBytesRemaining() int {
	return len(p.data) - p.offset
}

// read returns the next l bytes.
// Header-declared sizes are never trusted: every region is
// checked against the data bounds before it's sliced.
func (p *parser) read(l int, what string) []byte {
	if p.dataBytesRemaining() < l {
		panic(p.errorf("unexpected EOF while reading %s", what))
	}
	b := p.data[p.offset : p.offset+l]
	p.offset += l
	return b
}

func (p *parser) readString(b []byte) string {
	if !p.config.NeedStrings {
		return ""
	}
	return strings.TrimRight(convertCstring(b), " ")
}

func (p *parser) parse() (err error) {
	defer func() {
		rv := recover()
		if rv != nil {
			if panicErr, ok := rv.(*ParseError); ok {
				err = panicErr
			} else {
				panic(rv)
			}
		}
	}()

	p.parseModule()

	return err // See the deferred call above
}

func (p *parser) parseModule() {
	p.startStage("header")
	p.parseHeader()

	p.startStage("pattern")
	p.parsePatterns()

	p.startStage("sample")
	p.parseSamples()
}

func (p *parser) parseHeader() {
	if len(p.data) < legacyHeaderSize {
		panic(p.errorf("unexpected EOF while reading header (%d bytes)", len(p.data)))
	}

	m := p.module
	numInstruments := NumInstruments
	orderOffset := songLengthOffset
	m.Format = FormatStandard
	m.NumChannels = 0
	if len(p.data) >= headerSize {
		sig := p.data[signatureOffset : signatureOffset+signatureSize]
		numChannels, ok := lookupSignature(sig)
		if ok {
			if numChannels <= 0 || numChannels > MaxChannels {
				p.offset = signatureOffset
				panic(p.errorf("unsupported number of channels: %d (signature %q)", numChannels, sig))
			}
			m.NumChannels = numChannels
			m.Signature = string(sig)
		}
	}
	if m.NumChannels == 0 {
		// An unknown signature: this is probably a Soundtracker module.
		// It has only 15 instruments and no signature at all.
		m.Format = FormatLegacy
		m.NumChannels = 4
		numInstruments = NumLegacyInstruments
		orderOffset = legacySongLengthOffset
	}

	m.Title = p.readString(p.read(titleSize, "title"))

	for i := 0; i < numInstruments; i++ {
		p.stageIndex = i
		p.parseInstrument(&m.Instruments[i])
	}
	p.stageIndex = -1

	p.offset = orderOffset
	m.SongLength = int(p.read(1, "song length")[0])
	if m.SongLength > OrderTableSize {
		m.SongLength = OrderTableSize
	}
	m.RestartPosition = p.read(1, "restart position")[0]
	copy(m.PatternOrder[:], p.read(OrderTableSize, "pattern order table"))

	if m.Format == FormatStandard {
		p.offset += signatureSize
	}

	if p.offset >= len(p.data) {
		panic(p.errorf("no pattern data"))
	}
}

func (p *parser) parseInstrument(inst *Instrument) {
	b := p.read(instrumentSize, "instrument")

	inst.Name = p.readString(b[:instrumentNameSize])
	inst.Length = getWord(b[22:])
	inst.Finetune = b[24] & 0x0F
	inst.Volume = b[25]
	if inst.Volume > MaxVolume {
		inst.Volume = MaxVolume
	}
	inst.LoopStart = getWord(b[26:])
	inst.LoopLength = getWord(b[28:])

	// Some trackers write broken loop values, so we truncate them.
	if inst.LoopStart > inst.Length {
		inst.LoopStart = inst.Length
	}
	if inst.LoopStart+inst.LoopLength > inst.Length {
		inst.LoopLength = inst.Length - inst.LoopStart
	}
}

func (p *parser) parsePatterns() {
	m := p.module

	// The number of stored patterns is inferred from the
	// highest pattern index in the order table.
	// All 128 entries are checked, not just the first SongLength.
	numPatterns := 0
	for _, index := range m.PatternOrder {
		if int(index)+1 > numPatterns {
			numPatterns = int(index) + 1
		}
	}

	size := PatternSize(m.NumChannels)
	m.Patterns = make([]Pattern, numPatterns)
	for i := range m.Patterns {
		p.stageIndex = i
		m.Patterns[i] = Pattern{
			NumChannels: m.NumChannels,
			Data:        p.read(size, "pattern data"),
		}
		// A module without any sample data after the patterns is considered broken.
		if p.offset >= len(p.data) {
			panic(p.errorf("pattern data runs to the end of file"))
		}
	}
}

func (p *parser) parseSamples() {
	m := p.module
	for i := range m.Instruments {
		inst := &m.Instruments[i]
		if inst.Length == 0 {
			continue
		}
		p.stageIndex = i
		inst.Data = p.read(inst.Length*2, "sample data")
	}
}
