package mod

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/quasilyte/mod/modfile"
)

// ErrNotLoaded is returned by operations that require a loaded module.
var ErrNotLoaded = errors.New("no module is loaded")

// Stream plays a MOD module, making it possible to Read() its PCM bytes.
//
// The Read() method produces 16-bit little endian PCM bytes; this is what ebiten/audio
// package expects. Use Stream as an io.Reader argument for audio.NewPlayer().
//
// FillBuffer is a lower-level alternative that fills int16 frames directly
// and can report the tracker state.
//
// Stream is not thread-safe.
type Stream struct {
	module module
	loaded bool

	config StreamConfig

	// Song position.
	orderPos     int
	patternPos   int // A cell index of the current row: row*numChannels
	patternDelay int
	jumped       bool

	speed int
	bpm   int

	// Row and tick timing counters, in output samples.
	rowTicks       int
	rowTicksAim    int
	tickTicks      int
	tickTicksAim   int
	tickIndex      uint8
	sampleRateConst uint32

	// Previous pre-filter samples.
	lastLeft  int
	lastRight int

	bytePos int // PCM bytes produced since the rewind; reported via Seek()

	channels [modfile.MaxChannels]streamChannel

	pcm []int16
}

// StreamConfig configures the stream output.
type StreamConfig struct {
	// SampleRate is an output sample rate.
	// A zero value will assume a sample rate of 44100.
	// Values outside of [8000, 96000] are rejected.
	SampleRate int

	// StereoSeparation controls the channels cross-mixing.
	// 0 gives a hard Amiga-like panning, 1 mixes a half of the
	// opposite channel into each side (the default).
	// Values >= 4 are ignored.
	StereoSeparation int

	// Filter enables a simple low-pass output filter
	// that averages two consecutive samples.
	Filter bool

	// Mono makes the stream produce a single output channel.
	// All tracks are mixed together.
	Mono bool

	// VolumeTable enables the precalculated volume table
	// instead of the multiplication. The results are identical.
	VolumeTable bool

	// ClippingGuard saturates the output samples.
	// When disabled, the overflowing samples wrap around.
	ClippingGuard bool
}

// StreamInfo contains a MOD stream information like samples per row, etc.
type StreamInfo struct {
	NumChannels int

	// BytesPerFrame is a number of PCM bytes Read() produces per a single frame.
	BytesPerFrame int

	// SamplesPerTick and SamplesPerRow are the exact durations
	// of the current tick and row, in frames.
	SamplesPerTick int
	SamplesPerRow  int

	// SampleRateConst is a value used to derive the sample step from the period.
	SampleRateConst uint32

	// MemoryUsage approximates the memory referenced by the loaded module.
	MemoryUsage uint
}

// NewStream allocates a stream that can load and play MOD tracks.
// Use LoadModule or Load method to finish stream initialization.
//
// The default config is 44100 Hz stereo output
// with a stereo separation of 1, the filter and the clipping guard.
func NewStream() *Stream {
	return &Stream{
		config: StreamConfig{
			SampleRate:       defaultSampleRate,
			StereoSeparation: 1,
			Filter:           true,
			ClippingGuard:    true,
		},
		speed: defaultSpeed,
		bpm:   defaultBPM,
	}
}

// Config returns the current stream output config.
func (s *Stream) Config() StreamConfig {
	return s.config
}

// SetConfig changes the stream output settings.
// It can be called even after a module is loaded.
func (s *Stream) SetConfig(config StreamConfig) error {
	if config.SampleRate == 0 {
		config.SampleRate = defaultSampleRate
	}
	if config.SampleRate < 8000 || config.SampleRate > 96000 {
		return fmt.Errorf("unsupported sample rate: %d", config.SampleRate)
	}
	if config.StereoSeparation < 0 || config.StereoSeparation >= 4 {
		config.StereoSeparation = s.config.StereoSeparation
	}
	s.config = config
	if s.loaded {
		s.updateTiming()
	}
	return nil
}

// Load parses the MOD file data and loads it into the stream.
//
// The module references the data slice: it should not be modified
// while the stream is playing it. The sample data is never written to.
//
// If data can't be loaded, the previously loaded module stays intact.
func (s *Stream) Load(data []byte) error {
	m, err := modfile.NewParser(modfile.ParserConfig{NeedStrings: true}).ParseFromBytes(data)
	if err != nil {
		return err
	}
	return s.LoadModule(m)
}

// LoadModule assigns a new MOD module to this stream
// and prepares it to be played from the start.
//
// The stream references the module patterns and samples data.
//
// If the module can't be loaded, the stream state is not changed.
func (s *Stream) LoadModule(m *modfile.Module) error {
	compiled, err := compileModule(m)
	if err != nil {
		return err
	}
	s.module = compiled
	s.loaded = true
	s.rewind()
	return nil
}

// Unload stops the playback and releases the module.
// An unloaded stream produces silence.
func (s *Stream) Unload() {
	s.module = module{}
	s.loaded = false
	s.rewind()
}

// IsLoaded reports whether the stream has a module to play.
func (s *Stream) IsLoaded() bool {
	return s.loaded
}

// Rewind prepares the stream to play the module right from the start.
// Doing rewind is cheap.
func (s *Stream) Rewind() {
	s.rewind()
}

func (s *Stream) rewind() {
	s.orderPos = 0
	s.patternPos = 0
	s.patternDelay = 0
	s.jumped = false
	s.speed = defaultSpeed
	s.bpm = defaultBPM
	s.tickTicks = 0
	s.tickIndex = 0
	s.lastLeft = 0
	s.lastRight = 0
	s.bytePos = 0
	s.channels = [modfile.MaxChannels]streamChannel{}

	s.updateTiming()
	// Make the first FillBuffer frame decode the first row.
	s.rowTicks = s.rowTicksAim + 1
}

func (s *Stream) updateTiming() {
	s.tickTicksAim = calcTickSamples(s.config.SampleRate, s.bpm)
	s.rowTicksAim = s.speed * s.tickTicksAim
	s.sampleRateConst = calcSampleRateConst(s.config.SampleRate)
}

// GetInfo returns stream-related info.
// See StreamInfo for more details.
func (s *Stream) GetInfo() StreamInfo {
	bytesPerFrame := 4
	if s.config.Mono {
		bytesPerFrame = 2
	}
	info := StreamInfo{
		NumChannels:     s.module.numChannels,
		BytesPerFrame:   bytesPerFrame,
		SamplesPerTick:  s.tickTicksAim + 2,
		SamplesPerRow:   s.rowTicksAim + 2,
		SampleRateConst: s.sampleRateConst,
	}
	if s.loaded {
		info.MemoryUsage = moduleSize(&s.module)
	}
	return info
}

// Seek partially implements io.Seeker.
//
// You can use it for two things:
//  1. (0, SeekStart) for rewind
//  2. (0, SeekCurrent) to get the byte pos inside the stream
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		if offset == 0 {
			s.Rewind()
			return 0, nil
		}

	case io.SeekCurrent:
		if offset == 0 {
			return int64(s.bytePos), nil
		}
	}

	return 0, errors.New("unsupported Seek call")
}

// Read puts next PCM bytes into provided slice.
//
// It produces 16-bit little endian PCM data, 2 channels
// unless the mono output is configured.
// Only whole frames are written, so n can be less than len(b).
//
// MOD songs loop forever, so Read never returns io.EOF.
// An unloaded stream produces silence.
func (s *Stream) Read(b []byte) (int, error) {
	numChannels := 2
	if s.config.Mono {
		numChannels = 1
	}
	numSamples := (len(b) / (2 * numChannels)) * numChannels
	if cap(s.pcm) < numSamples {
		s.pcm = make([]int16, numSamples)
	}
	pcm := s.pcm[:numSamples]

	s.FillBuffer(pcm, nil)
	for i, v := range pcm {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}

	return numSamples * 2, nil
}

// FillBuffer renders the next frames into out.
// Stereo frames are interleaved (left, right).
//
// If sink is not nil, the tracker state snapshots are recorded into it.
//
// It returns the number of frames written.
func (s *Stream) FillBuffer(out []int16, sink *StateBuffer) int {
	mono := s.config.Mono
	numFrames := len(out) / 2
	if mono {
		numFrames = len(out)
	}

	if mono {
		s.bytePos += numFrames * 2
	} else {
		s.bytePos += numFrames * 4
	}

	if !s.loaded {
		clear(out)
		if sink != nil {
			sink.Reset()
		}
		return numFrames
	}

	if sink != nil {
		s.beginStateReport(sink)
	}

	channels := s.channels[:s.module.numChannels]
	useTable := s.config.VolumeTable
	filter := s.config.Filter
	clipping := s.config.ClippingGuard
	crossMix := s.config.StereoSeparation == 1
	lastLeft := s.lastLeft
	lastRight := s.lastRight
	stateRemaining := 0

	for i := 0; i < numFrames; i++ {
		if s.rowTicks > s.rowTicksAim {
			s.nextRow()
		} else {
			s.rowTicks++
		}
		if s.tickTicks > s.tickTicksAim {
			s.nextTick()
		} else {
			s.tickTicks++
		}

		var state *TrackerState
		if sink != nil && stateRemaining == 0 && !sink.isFull() {
			state = &sink.States[sink.NumStates]
			s.fillTrackerState(state, i)
		}

		left := 0
		right := 0
		for j := range channels {
			ch := &channels[j]
			if ch.period == 0 {
				continue
			}
			ch.advance()
			if ch.cur.data != nil {
				if b, ok := ch.sample(); ok {
					var v int
					if useTable {
						v = int(volumeTable[ch.volume][b])
					} else {
						v = int(int8(b)) * int(ch.volume)
					}
					// Amiga panning: LRRL.
					if pan := j & 3; pan == 0 || pan == 3 || mono {
						left += v
					} else {
						right += v
					}
				}
			}
			if state != nil {
				s.fillTrackState(&state.Tracks[j], ch)
			}
		}

		if sink != nil {
			if stateRemaining == 0 {
				stateRemaining = max(sink.SampleStep, 0)
				if state != nil {
					sink.NumStates++
				}
			} else {
				stateRemaining--
			}
		}

		if mono {
			v := left
			unfiltered := int(int16(v))
			if filter {
				v = (v + lastLeft) >> 1
			}
			if clipping {
				v = clampPCM(v)
			}
			out[i] = int16(v)
			lastLeft = unfiltered
			continue
		}

		unfilteredLeft := int(int16(left))
		unfilteredRight := int(int16(right))
		if filter {
			left = (left + lastLeft) >> 1
			right = (right + lastRight) >> 1
		}
		if crossMix {
			left += right >> 1
			right += left >> 1
		}
		if clipping {
			left = clampPCM(left)
			right = clampPCM(right)
		}
		out[i*2] = int16(left)
		out[i*2+1] = int16(right)
		lastLeft = unfilteredLeft
		lastRight = unfilteredRight
	}

	s.lastLeft = lastLeft
	s.lastRight = lastRight

	return numFrames
}

func (s *Stream) nextRow() {
	s.rowTicks = 0
	s.tickTicks = 0
	s.tickIndex = 0

	if s.patternDelay != 0 {
		s.patternDelay--
		return
	}

	m := &s.module
	notes := m.patterns[m.order[s.orderPos]]
	channels := s.channels[:m.numChannels]
	offset := s.patternPos * modfile.NoteSize
	for i := range channels {
		ch := &channels[i]
		n := modfile.DecodeNote(notes[offset+i*modfile.NoteSize:])
		s.decodeNote(ch, n)
		ch.updateStep(s.sampleRateConst)
	}

	if s.jumped {
		s.jumped = false
	} else {
		s.patternPos += m.numChannels
	}
	if s.patternPos >= modfile.RowsPerPattern*m.numChannels {
		s.patternPos = 0
		s.nextOrder()
	}
}

func (s *Stream) nextOrder() {
	s.orderPos++
	if s.orderPos >= s.module.songLength {
		s.orderPos = 0
	}
}

func (s *Stream) nextTick() {
	s.tickTicks = 0
	channels := s.channels[:s.module.numChannels]
	for i := range channels {
		ch := &channels[i]
		s.tickChannel(ch)
		ch.updateStep(s.sampleRateConst)
	}
	s.tickIndex++
}

func (s *Stream) beginStateReport(sink *StateBuffer) {
	sink.ReadIndex = 0
	sink.Title = s.module.title
	for i := range sink.Instruments {
		inst := &s.module.instruments[i]
		sink.Instruments[i] = InstrumentState{
			Name:   inst.name,
			Active: inst.sample.data != nil,
		}
	}
}

func (s *Stream) fillTrackerState(state *TrackerState, bufIndex int) {
	*state = TrackerState{
		NumTracks: s.module.numChannels,
		BPM:       s.bpm,
		Speed:     s.speed,
		Pattern:   int(s.module.order[s.orderPos]),
		Row:       s.patternPos / s.module.numChannels,
		OrderPos:  s.orderPos,
		BufIndex:  bufIndex,
	}
}

func (s *Stream) fillTrackState(t *TrackState, ch *streamChannel) {
	period := 0
	if ch.step != 0 {
		period = int(s.sampleRateConst / ch.step)
	}
	*t = TrackState{
		Instrument: int(ch.instIndex) + 1,
		Period:     period,
		Volume:     int(ch.volume),
		Effect:     int(ch.effectCode),
		Param:      int(ch.effectParam),
	}
}
