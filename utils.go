package mod

import (
	"github.com/quasilyte/mod/internal/moddb"
)

const (
	defaultSampleRate = 44100
	defaultSpeed      = 6
	defaultBPM        = 125

	// paulaClock*16 is used to derive the period to sample step constant.
	// With 44100 Hz output, it gives the classic 428*8448 reference.
	paulaClock = 3546894

	// Playback position is a fixed-point value in sample words
	// with 11 fractional bits; pos>>10 is a byte (sample) index.
	posWordShift = 11
	posByteShift = 10
)

// calcTickSamples returns the number of output samples per effect tick.
// Some trackers describe it as "Hz = 2 * BPM / 5".
func calcTickSamples(sampleRate, bpm int) int {
	return (sampleRate * 5) / (bpm * 2)
}

// calcSampleRateConst returns a value that gives a playback step
// when divided by a period.
func calcSampleRateConst(sampleRate int) uint32 {
	return uint32((paulaClock*16)/sampleRate) << 6
}

func calcSampleStep(sampleRateConst uint32, period int) uint32 {
	// The final period is a 16-bit value, so a large vibrato
	// or arpeggio offset can make it wrap around.
	finalPeriod := int16(period)
	if finalPeriod <= 0 {
		return 0
	}
	return sampleRateConst / uint32(finalPeriod)
}

// slideVolume applies a volume slide encoded as xy (x=up, y=down).
// When both nibbles are set, only x is used.
//
// Going below zero wraps the unsigned volume, which is then detected
// as an out-of-range value and clamped to zero.
func slideVolume(volume, slide uint8) uint8 {
	if slide&0xF0 != 0 {
		volume += slide >> 4
		if volume > moddb.MaxVolume {
			volume = moddb.MaxVolume
		}
		return volume
	}
	volume -= slide & 0x0F
	if volume > moddb.MaxVolume {
		volume = 0
	}
	return volume
}

// volumeTable[v][b] is int8(b)*v.
var volumeTable = makeVolumeTable()

func makeVolumeTable() *[moddb.MaxVolume + 1][256]int32 {
	var table [moddb.MaxVolume + 1][256]int32
	for v := range table {
		for b := range table[v] {
			table[v][b] = int32(v) * int32(int8(uint8(b)))
		}
	}
	return &table
}

func clampPCM(v int) int {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}
