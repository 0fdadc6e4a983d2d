package mod

import (
	"errors"
	"fmt"

	"github.com/quasilyte/mod/modfile"
)

type moduleCompiler struct {
	result module
}

// compileModule checks the module consistency and builds its playback view.
//
// modfile parser already guarantees most of these properties,
// but the module could also be constructed (or modified) manually.
func compileModule(m *modfile.Module) (module, error) {
	c := &moduleCompiler{}
	err := c.compile(m)
	return c.result, err
}

func (c *moduleCompiler) compile(m *modfile.Module) error {
	if m.NumChannels <= 0 || m.NumChannels > modfile.MaxChannels {
		return fmt.Errorf("unsupported number of channels: %d", m.NumChannels)
	}

	c.result.title = m.Title
	c.result.numChannels = m.NumChannels
	c.result.songLength = m.SongLength
	if c.result.songLength > modfile.OrderTableSize {
		c.result.songLength = modfile.OrderTableSize
	}
	c.result.order = m.PatternOrder
	c.result.samplesWritable = m.SamplesWritable

	if err := c.compilePatterns(m); err != nil {
		return err
	}

	return c.compileInstruments(m)
}

func (c *moduleCompiler) compilePatterns(m *modfile.Module) error {
	for _, index := range m.PatternOrder {
		if int(index) >= len(m.Patterns) {
			return fmt.Errorf("pattern order references a missing pattern %d", index)
		}
	}

	size := modfile.PatternSize(m.NumChannels)
	c.result.patterns = make([][]byte, len(m.Patterns))
	for i, p := range m.Patterns {
		if len(p.Data) < size {
			return fmt.Errorf("pattern %d: expected %d bytes, found %d", i, size, len(p.Data))
		}
		c.result.patterns[i] = p.Data[:size]
	}

	return nil
}

func (c *moduleCompiler) compileInstruments(m *modfile.Module) error {
	for i := range m.Instruments {
		src := &m.Instruments[i]
		dst := &c.result.instruments[i]

		if src.Length < 0 || src.LoopStart < 0 || src.LoopLength < 0 {
			return fmt.Errorf("instrument %d: negative length", i)
		}
		if len(src.Data) < src.Length*2 {
			return fmt.Errorf("instrument %d: expected %d sample bytes, found %d", i, src.Length*2, len(src.Data))
		}
		if src.Volume > modfile.MaxVolume {
			return errors.New("instrument volume is out of range")
		}

		loopStart := src.LoopStart
		loopLength := src.LoopLength
		if loopStart > src.Length {
			loopStart = src.Length
		}
		if loopStart+loopLength > src.Length {
			loopLength = src.Length - loopStart
		}

		*dst = instrument{
			name:     src.Name,
			finetune: src.Finetune & 0x0F,
			volume:   src.Volume,
		}
		if src.Length != 0 {
			dst.sample = sampleRegion{
				data:      src.Data[:src.Length*2],
				length:    uint32(src.Length),
				loopStart: uint32(loopStart),
				loopLen:   uint32(loopLength),
			}
		}
	}

	return nil
}
