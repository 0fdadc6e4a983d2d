package mod

import (
	"github.com/quasilyte/mod/modfile"
)

// StateBuffer collects the tracker state snapshots during FillBuffer.
//
// It can be used to implement the tracker-like visualization:
// every snapshot is bound to a specific output buffer frame.
//
// The caller allocates the States slice; its length is the buffer capacity.
// Once the buffer is full, the new snapshots are dropped (audio is not affected).
// Snapshots are appended across FillBuffer calls; a consumer sets NumStates
// to zero after processing them.
//
// Experimental: the state reporting API may change significantly in the future.
type StateBuffer struct {
	// SampleStep is the number of frames to skip between the snapshots.
	// A zero value makes FillBuffer record a snapshot for every frame.
	SampleStep int

	States    []TrackerState
	NumStates int

	// ReadIndex is a cursor for the consumer.
	// FillBuffer resets it to zero.
	ReadIndex int

	Title       string
	Instruments [modfile.NumInstruments]InstrumentState
}

// TrackerState is a single player state snapshot.
type TrackerState struct {
	NumTracks int
	BPM       int
	Speed     int

	// Pattern is the pattern index being played.
	Pattern int

	// Row is a pattern row index (0-63).
	Row int

	OrderPos int

	// BufIndex is a frame index inside the filled buffer.
	BufIndex int

	Tracks [modfile.MaxChannels]TrackState
}

// TrackState describes a single channel (track) state.
// Only the channels that have a period are reported;
// the other tracks are left zero-initialized.
type TrackState struct {
	// Instrument is a 1-based instrument number.
	Instrument int

	// Period is a period derived from the current playback step.
	Period int

	Volume int

	// Effect is a raw 12-bit effect code of the last played row.
	Effect int

	// Param is the per-tick parameter armed by the last row.
	// Period slides, arpeggio and the extended effects report it here.
	// Slides and vibrato that keep their own rate (3, 4, 5, 6, A)
	// report zero.
	Param int
}

// InstrumentState describes a module instrument.
type InstrumentState struct {
	Name string

	// Active reports whether this instrument has any sample data.
	Active bool
}

// Reset clears all snapshots and the module info.
func (b *StateBuffer) Reset() {
	for i := range b.States {
		b.States[i] = TrackerState{}
	}
	b.NumStates = 0
	b.ReadIndex = 0
	b.Title = ""
	b.Instruments = [modfile.NumInstruments]InstrumentState{}
}

// Pending returns the snapshots that were not consumed yet.
func (b *StateBuffer) Pending() []TrackerState {
	if b.ReadIndex >= b.NumStates {
		return nil
	}
	return b.States[b.ReadIndex:b.NumStates]
}

func (b *StateBuffer) isFull() bool {
	return b.NumStates >= len(b.States)
}
