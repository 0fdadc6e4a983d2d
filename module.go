package mod

import (
	"github.com/quasilyte/mod/modfile"
)

// module is a read-only view over the parsed module data
// that is prepared for the playback.
type module struct {
	title string

	numChannels int
	songLength  int
	order       [modfile.OrderTableSize]uint8

	// patterns reference the encoded pattern bytes (no copying is done).
	patterns [][]byte

	instruments [modfile.NumInstruments]instrument

	samplesWritable bool
}

type instrument struct {
	name string

	sample sampleRegion

	finetune uint8
	volume   uint8
}

// sampleRegion describes a playable sample: its data and the loop bounds.
// All lengths are in words.
type sampleRegion struct {
	data      []byte
	length    uint32
	loopStart uint32
	loopLen   uint32
}

func (r *sampleRegion) isLooped() bool {
	return r.loopLen >= 2
}

func (r *sampleRegion) loopEnd() uint32 {
	return r.loopStart + r.loopLen
}
