package modfile

import (
	"errors"
	"strings"
	"testing"
)

func newTestModule(numChannels int) *Module {
	m := &Module{
		Title:       "test song",
		NumChannels: numChannels,
		SongLength:  2,
	}
	m.PatternOrder[0] = 0
	m.PatternOrder[1] = 1
	m.Patterns = []Pattern{NewPattern(numChannels), NewPattern(numChannels)}
	m.Patterns[0].SetNote(0, 0, Note{Instrument: 1, Period: 428, Effect: 0xC, Param: 0x20})

	m.Instruments[0] = Instrument{
		Name:       "square",
		Length:     4,
		Volume:     64,
		LoopStart:  0,
		LoopLength: 4,
		Data:       []byte{0x40, 0x40, 0x40, 0x40, 0xC0, 0xC0, 0xC0, 0xC0},
	}
	m.Instruments[2] = Instrument{
		Name:     "one-shot",
		Length:   2,
		Volume:   32,
		Finetune: 0xF,
		Data:     []byte{1, 2, 3, 4},
	}
	return m
}

func TestNoteCodec(t *testing.T) {
	// Instrument 0x1F, period 0x1AC (428), effect 0xC, param 0x20.
	encoded := []byte{0x11, 0xAC, 0xFC, 0x20}
	n := DecodeNote(encoded)
	want := Note{Instrument: 0x1F, Period: 428, Effect: 0xC, Param: 0x20}
	if n != want {
		t.Fatalf("decode:\nhave: %+v\nwant: %+v", n, want)
	}
	if n.EffectCode() != 0xC20 {
		t.Fatalf("effect code: have %#x, want 0xC20", n.EffectCode())
	}

	var b [NoteSize]byte
	n.Encode(b[:])
	if string(b[:]) != string(encoded) {
		t.Fatalf("encode:\nhave: % x\nwant: % x", b[:], encoded)
	}
}

func TestLookupSignature(t *testing.T) {
	tests := []struct {
		sig         string
		numChannels int
		ok          bool
	}{
		{"M.K.", 4, true},
		{"M!K!", 4, true},
		{"FLT4", 4, true},
		{"FLT8", 8, true},
		{"OCTA", 8, true},
		{"6CHN", 6, true},
		{"8CHN", 8, true},
		{"16CH", 16, true},
		{"32CH", 32, true},
		{"33CH", 33, true},
		{"10CN", 10, true},
		{"TDZ3", 3, true},
		{"CD81", 8, true},
		{"00CH", 0, true},
		{"XCHN", 0, false},
		{"M.K!", 0, false},
		{"\x00\x00\x00\x00", 0, false},
	}
	for _, test := range tests {
		n, ok := lookupSignature([]byte(test.sig))
		if n != test.numChannels || ok != test.ok {
			t.Errorf("lookupSignature(%q): have (%d, %v), want (%d, %v)",
				test.sig, n, ok, test.numChannels, test.ok)
		}
	}
}

func TestParse(t *testing.T) {
	src := newTestModule(4)
	data := Encode(src)

	m, err := NewParser(ParserConfig{NeedStrings: true}).ParseFromBytes(data)
	if err != nil {
		t.Fatal(err)
	}

	if m.Title != "test song" {
		t.Errorf("title: have %q", m.Title)
	}
	if m.Signature != "M.K." || m.Format != FormatStandard {
		t.Errorf("signature: have %q (%s)", m.Signature, m.Format)
	}
	if m.NumChannels != 4 || m.SongLength != 2 {
		t.Errorf("have %d channels and %d song length", m.NumChannels, m.SongLength)
	}
	if len(m.Patterns) != 2 {
		t.Fatalf("have %d patterns, want 2", len(m.Patterns))
	}
	if n := m.Patterns[0].Note(0, 0); n != (Note{Instrument: 1, Period: 428, Effect: 0xC, Param: 0x20}) {
		t.Errorf("pattern note: have %+v", n)
	}
	if !m.Patterns[1].Note(10, 3).IsEmpty() {
		t.Errorf("expected an empty note")
	}

	inst := &m.Instruments[0]
	if inst.Name != "square" || inst.Length != 4 || inst.Volume != 64 || !inst.IsLooped() {
		t.Errorf("instrument[0]: have %+v", inst)
	}
	if string(inst.Data) != string(src.Instruments[0].Data) {
		t.Errorf("instrument[0] data: have % x", inst.Data)
	}
	if m.Instruments[1].Data != nil {
		t.Errorf("instrument[1] is expected to have no data")
	}
	if m.Instruments[2].FinetuneValue() != -1 {
		t.Errorf("instrument[2] finetune: have %d, want -1", m.Instruments[2].FinetuneValue())
	}
	if m.SamplesWritable {
		t.Errorf("samples should not be writable by default")
	}
}

func TestParseAliasing(t *testing.T) {
	data := Encode(newTestModule(4))

	m, err := NewParser(ParserConfig{}).ParseFromBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] = 0x7F
	if m.Instruments[2].Data[3] != 0x7F {
		t.Fatalf("expected the sample data to reference the input")
	}

	copied, err := NewParser(ParserConfig{CopyData: true}).ParseFromBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] = 0
	if copied.Instruments[2].Data[3] != 0x7F {
		t.Fatalf("expected the sample data to be copied")
	}
	if !copied.SamplesWritable {
		t.Fatalf("copied module samples should be writable")
	}
}

func TestParseChannels(t *testing.T) {
	for _, numChannels := range []int{1, 2, 4, 6, 8, 12, 32} {
		src := newTestModule(numChannels)
		m, err := NewParser(ParserConfig{}).ParseFromBytes(Encode(src))
		if err != nil {
			t.Fatalf("%d channels: %v", numChannels, err)
		}
		if m.NumChannels != numChannels {
			t.Fatalf("have %d channels, want %d", m.NumChannels, numChannels)
		}
	}
}

func TestParseTooManyChannels(t *testing.T) {
	src := newTestModule(4)
	src.Signature = "33CH"
	_, err := NewParser(ParserConfig{}).ParseFromBytes(Encode(src))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a parse error, got %v", err)
	}
	if !strings.Contains(parseErr.Message, "number of channels") {
		t.Fatalf("unexpected error message: %q", parseErr.Message)
	}
	if parseErr.Offset != signatureOffset {
		t.Fatalf("error offset: have %d, want %d", parseErr.Offset, signatureOffset)
	}
}

func TestParseLegacy(t *testing.T) {
	// Build a 15-instrument module by hand:
	// title, 15 instruments, song length, restart, order table, 1 pattern, samples.
	data := make([]byte, legacyHeaderSize+PatternSize(4)+8)
	copy(data, "legacy")
	inst := data[titleSize:]
	copy(inst, "bass")
	putWord(inst[22:], 4)
	inst[25] = 48
	putWord(inst[26:], 1)
	putWord(inst[28:], 10) // Will be truncated to 3
	data[legacySongLengthOffset] = 1
	data[legacySongLengthOffset+1] = 0x78
	NewPatternAt(data[legacyHeaderSize:], 4).SetNote(0, 1, Note{Instrument: 1, Period: 214})
	copy(data[len(data)-8:], []byte{1, 2, 3, 4, 5, 6, 7, 8})

	m, err := NewParser(ParserConfig{NeedStrings: true}).ParseFromBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if m.Format != FormatLegacy || m.Signature != "" || m.NumChannels != 4 {
		t.Fatalf("unexpected format: %s %q %d", m.Format, m.Signature, m.NumChannels)
	}
	if m.Title != "legacy" || m.SongLength != 1 || m.RestartPosition != 0x78 {
		t.Fatalf("unexpected header: %q %d %d", m.Title, m.SongLength, m.RestartPosition)
	}
	if m.Instruments[0].Name != "bass" || m.Instruments[0].Volume != 48 {
		t.Fatalf("unexpected instrument: %+v", m.Instruments[0])
	}
	if m.Instruments[0].LoopStart != 1 || m.Instruments[0].LoopLength != 3 {
		t.Fatalf("loop is not truncated: %d+%d", m.Instruments[0].LoopStart, m.Instruments[0].LoopLength)
	}
	if n := m.Patterns[0].Note(0, 1); n.Period != 214 || n.Instrument != 1 {
		t.Fatalf("unexpected note: %+v", n)
	}
	if m.Instruments[0].Data[7] != 8 {
		t.Fatalf("unexpected sample data: % x", m.Instruments[0].Data)
	}

	// Encoding converts it into a standard module.
	standard, err := NewParser(ParserConfig{}).ParseFromBytes(Encode(m))
	if err != nil {
		t.Fatal(err)
	}
	if standard.Format != FormatStandard || standard.Signature != "M.K." {
		t.Fatalf("unexpected re-encoded format: %s %q", standard.Format, standard.Signature)
	}
}

func TestParsePatternCount(t *testing.T) {
	src := newTestModule(4)
	src.SongLength = 1
	// Entries past the song length still count.
	src.PatternOrder[1] = 0
	src.PatternOrder[100] = 3

	m, err := NewParser(ParserConfig{}).ParseFromBytes(Encode(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Patterns) != 4 {
		t.Fatalf("have %d patterns, want 4", len(m.Patterns))
	}
	if m.Instruments[0].Data[0] != 0x40 {
		t.Fatalf("sample data offset is wrong")
	}
}

func TestLoopClamp(t *testing.T) {
	src := newTestModule(4)
	src.Instruments[0].LoopStart = 3
	src.Instruments[0].LoopLength = 8
	src.Instruments[2].LoopStart = 100
	src.Instruments[2].LoopLength = 100

	m, err := NewParser(ParserConfig{}).ParseFromBytes(Encode(src))
	if err != nil {
		t.Fatal(err)
	}
	for i := range m.Instruments {
		inst := &m.Instruments[i]
		if inst.LoopStart+inst.LoopLength > inst.Length {
			t.Errorf("instrument[%d]: loop %d+%d exceeds the length %d",
				i, inst.LoopStart, inst.LoopLength, inst.Length)
		}
	}
	if m.Instruments[0].LoopLength != 1 {
		t.Errorf("instrument[0]: have loop length %d, want 1", m.Instruments[0].LoopLength)
	}
}

func TestParseTruncated(t *testing.T) {
	data := Encode(newTestModule(4))
	for size := 0; size < len(data); size++ {
		m, err := NewParser(ParserConfig{}).ParseFromBytes(data[:size:size])
		if err == nil {
			t.Fatalf("size=%d: expected an error, got a module with %d patterns", size, len(m.Patterns))
		}
		if _, ok := err.(*ParseError); !ok {
			t.Fatalf("size=%d: unexpected error type %T", size, err)
		}
	}
}

func FuzzParse(f *testing.F) {
	f.Add(Encode(newTestModule(4)))
	f.Add(Encode(newTestModule(8)))
	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := NewParser(ParserConfig{NeedStrings: true}).ParseFromBytes(data[:len(data):len(data)])
		if err != nil {
			return
		}
		for i := range m.Instruments {
			inst := &m.Instruments[i]
			if len(inst.Data) != inst.Length*2 {
				t.Fatalf("instrument[%d]: data size mismatch", i)
			}
			if inst.LoopStart+inst.LoopLength > inst.Length {
				t.Fatalf("instrument[%d]: bad loop", i)
			}
		}
		for _, index := range m.PatternOrder {
			if int(index) >= len(m.Patterns) {
				t.Fatalf("pattern %d is missing", index)
			}
		}
	})
}
