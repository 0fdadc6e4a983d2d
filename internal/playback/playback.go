// Package playback adapts mod streams for the audio backends
// that read the PCM data from their own goroutines.
package playback

import (
	"encoding/binary"
	"sync"

	"github.com/quasilyte/mod"
	"github.com/quasilyte/mod/modfile"
)

// Source is implemented by both mod.Stream and mod.Synthesizer.
type Source interface {
	FillBuffer(out []int16, sink *mod.StateBuffer) int
	Seek(offset int64, whence int) (int64, error)
}

// Reader is a thread-safe io.ReadSeeker over a Source.
// It remembers the most recent tracker state snapshot.
type Reader struct {
	mu sync.Mutex

	src  Source
	mono bool
	pcm  []int16
	sink mod.StateBuffer

	state    mod.TrackerState
	hasState bool
	names    [modfile.NumInstruments]string
	title    string
}

// NewReader wraps src. The mono flag must match the source output config.
//
// A snapshot is taken every stateStep frames.
func NewReader(src Source, mono bool, stateStep int) *Reader {
	return &Reader{
		src:  src,
		mono: mono,
		sink: mod.StateBuffer{
			SampleStep: stateStep - 1,
			States:     make([]mod.TrackerState, 32),
		},
	}
}

// Do runs f while holding the reader lock.
// Use it to access the wrapped source from other goroutines.
func (r *Reader) Do(f func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f()
}

func (r *Reader) Read(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frameSize := 4
	if r.mono {
		frameSize = 2
	}
	numSamples := len(b) / frameSize * (frameSize / 2)
	if cap(r.pcm) < numSamples {
		r.pcm = make([]int16, numSamples)
	}
	pcm := r.pcm[:numSamples]

	r.sink.NumStates = 0
	r.src.FillBuffer(pcm, &r.sink)
	for i, v := range pcm {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}

	if r.sink.NumStates != 0 {
		r.state = r.sink.States[r.sink.NumStates-1]
		r.hasState = true
	}
	r.title = r.sink.Title
	for i := range r.sink.Instruments {
		r.names[i] = r.sink.Instruments[i].Name
	}

	return numSamples * 2, nil
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Seek(offset, whence)
}

// State returns the last recorded tracker state.
// ok is false until the first snapshot is recorded.
func (r *Reader) State() (state mod.TrackerState, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.hasState
}

// Title returns the module title reported by the source.
func (r *Reader) Title() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.title
}

// InstrumentName returns the name of the 1-based instrument number.
func (r *Reader) InstrumentName(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 1 || n > len(r.names) {
		return ""
	}
	return r.names[n-1]
}
