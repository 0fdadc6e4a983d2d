package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/quasilyte/mod"
)

const wavHeaderSize = 44

// renderWAV writes numFrames of the stream output into a 16-bit PCM WAV file.
func renderWAV(path string, stream *mod.Stream, numFrames int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(f)
	if err := writeWAV(w, stream, numFrames); err != nil {
		return err
	}
	return w.Flush()
}

// wavFrames converts the duration into frames at the stream's effective rate.
func wavFrames(stream *mod.Stream, d time.Duration) int {
	return int(d.Seconds() * float64(stream.Config().SampleRate))
}

func writeWAV(w io.Writer, stream *mod.Stream, numFrames int) error {
	config := stream.Config()
	numChannels := 2
	if config.Mono {
		numChannels = 1
	}
	const bytesPerSample = 2
	dataSize := uint32(numFrames * numChannels * bytesPerSample)

	header := make([]byte, wavHeaderSize)
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], wavHeaderSize-8+dataSize)
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16) // Format chunk size
	binary.LittleEndian.PutUint16(header[20:], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:], uint16(numChannels))
	binary.LittleEndian.PutUint32(header[24:], uint32(config.SampleRate))
	binary.LittleEndian.PutUint32(header[28:], uint32(config.SampleRate*numChannels*bytesPerSample))
	binary.LittleEndian.PutUint16(header[32:], uint16(numChannels*bytesPerSample))
	binary.LittleEndian.PutUint16(header[34:], 8*bytesPerSample)
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], dataSize)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	buf := make([]byte, 4096*numChannels*bytesPerSample)
	for remaining := numFrames; remaining > 0; {
		chunk := buf
		if n := remaining * numChannels * bytesPerSample; n < len(chunk) {
			chunk = chunk[:n]
		}
		n, err := stream.Read(chunk)
		if err != nil {
			return err
		}
		if _, err := w.Write(chunk[:n]); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
		remaining -= n / (numChannels * bytesPerSample)
	}
	return nil
}
