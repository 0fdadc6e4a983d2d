package mod

import (
	"fmt"

	"github.com/quasilyte/mod/internal/moddb"
	"github.com/quasilyte/mod/modfile"
)

// Synthesizer can be used to play individual MOD notes
// using the module instruments.
//
// It is more efficient and convenient to use for this
// use case than a stream with a constant module re-loading.
//
// Experimental: synthesizer API may change in the near future.
type Synthesizer struct {
	stream *Stream
	module modfile.Module
	loaded bool
}

type SynthesizerConfig struct {
	// NumChannels limits the number of notes that can be played at once.
	// A zero value means 4 channels.
	NumChannels int
}

func NewSynthesizer(config SynthesizerConfig) *Synthesizer {
	if config.NumChannels == 0 {
		config.NumChannels = 4
	}
	config.NumChannels = min(max(config.NumChannels, 1), modfile.MaxChannels)
	return &Synthesizer{
		stream: NewStream(),
		module: modfile.Module{NumChannels: config.NumChannels},
	}
}

// SetConfig adjusts the output settings of the underlying stream.
func (s *Synthesizer) SetConfig(config StreamConfig) error {
	return s.stream.SetConfig(config)
}

// LoadInstruments prepares the instruments from the module
// for further use.
//
// The patterns don't really matter as this method
// is only interested in instruments (and samples).
// Samples are never modified by the synthesizer.
func (s *Synthesizer) LoadInstruments(m *modfile.Module) error {
	numChannels := s.module.NumChannels

	// The synthesizer song is a single pattern that is played from the row 0.
	// The last row jumps to the row 1, so the notes are triggered only once.
	pat := modfile.NewPattern(numChannels)
	pat.SetNote(modfile.RowsPerPattern-1, 0, modfile.Note{
		Effect: uint8(moddb.CmdPatternBreak),
		Param:  0x01,
	})

	synthModule := modfile.Module{
		Title:       m.Title,
		Format:      m.Format,
		NumChannels: numChannels,
		SongLength:  1,
		Patterns:    []modfile.Pattern{pat},
		Instruments: m.Instruments,
	}
	if m.SamplesWritable {
		// Another stream may invert these bytes while the synthesizer reads them.
		for i := range synthModule.Instruments {
			inst := &synthModule.Instruments[i]
			inst.Data = append([]byte(nil), inst.Data...)
		}
	}
	if err := s.stream.LoadModule(&synthModule); err != nil {
		return err
	}

	s.module = synthModule
	s.loaded = true
	return nil
}

// PlayNote plays one or more notes, one note per channel.
// The notes are played until the next PlayNote or Stop call.
//
// The Instrument field of the note is a 1-based instrument number.
// Effects are permitted, but the ones that change the song position
// have an unspecified behavior.
func (s *Synthesizer) PlayNote(notes ...modfile.Note) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if len(notes) > s.module.NumChannels {
		return fmt.Errorf("too many notes: %d (max %d)", len(notes), s.module.NumChannels)
	}

	pat := s.module.Patterns[0]
	for ch := 0; ch < s.module.NumChannels; ch++ {
		var n modfile.Note
		if ch < len(notes) {
			n = notes[ch]
		}
		pat.SetNote(0, ch, n)
	}
	s.stream.Rewind()
	return nil
}

// Stop silences all channels.
func (s *Synthesizer) Stop() {
	if !s.loaded {
		return
	}
	pat := s.module.Patterns[0]
	for ch := 0; ch < s.module.NumChannels; ch++ {
		pat.SetNote(0, ch, modfile.Note{})
	}
	s.stream.Rewind()
}

func (s *Synthesizer) FillBuffer(out []int16, sink *StateBuffer) int {
	return s.stream.FillBuffer(out, sink)
}

func (s *Synthesizer) Read(b []byte) (int, error) {
	return s.stream.Read(b)
}

func (s *Synthesizer) Rewind() {
	s.stream.Rewind()
}

func (s *Synthesizer) Seek(offset int64, whence int) (int64, error) {
	return s.stream.Seek(offset, whence)
}
