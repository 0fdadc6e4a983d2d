package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ebitengine/oto/v3"
	"github.com/quasilyte/mod"
	"github.com/quasilyte/mod/internal/playback"
	"github.com/quasilyte/mod/modfile"
	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"
)

var logger *log.Logger

type options struct {
	sampleRate  int
	mono        bool
	noFilter    bool
	noClipping  bool
	separation  int
	volumeTable bool
	wavPath     string
	duration    time.Duration
	dump        bool
}

func main() {
	logger = log.New(os.Stderr, "", log.Ldate|log.Ltime)

	cwd, err := os.Getwd()
	if err != nil {
		logger.Fatalf("failed to get current working directory: %v", err)
	}

	var opts options
	pflag.IntVarP(&opts.sampleRate, "rate", "r", 44100, "output sample rate (8000-96000)")
	pflag.BoolVar(&opts.mono, "mono", false, "produce a single channel output")
	pflag.BoolVar(&opts.noFilter, "no-filter", false, "disable the output low-pass filter")
	pflag.BoolVar(&opts.noClipping, "no-clipping", false, "let the overflowing samples wrap around")
	pflag.IntVarP(&opts.separation, "separation", "s", 1, "stereo separation mode (0 or 1)")
	pflag.BoolVar(&opts.volumeTable, "volume-table", false, "use the precalculated volume table")
	pflag.StringVarP(&opts.wavPath, "wav", "w", "", "render the song into a WAV file instead of playing it")
	pflag.DurationVarP(&opts.duration, "duration", "d", 0, "playback (or rendering) duration; 0 means 3 minutes for WAV and infinity otherwise")
	pflag.BoolVar(&opts.dump, "dump", false, "print the parsed module header and exit")
	pflag.Parse()

	path, err := choosePath(cwd, pflag.Args())
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			logger.Printf("User cancelled the file dialog")
			os.Exit(1)
		}
		logger.Fatalf("failed to determine file path: %v", err)
	}

	if err := run(path, &opts); err != nil {
		logger.Fatal(err)
	}
}

func run(path string, opts *options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read MOD file: %w", err)
	}
	m, err := modfile.NewParser(modfile.ParserConfig{
		NeedStrings:     true,
		WritableSamples: true,
	}).ParseFromBytes(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	if opts.dump {
		dumpModule(os.Stdout, m)
		return nil
	}

	stream := mod.NewStream()
	err = stream.SetConfig(mod.StreamConfig{
		SampleRate:       opts.sampleRate,
		StereoSeparation: opts.separation,
		Filter:           !opts.noFilter,
		Mono:             opts.mono,
		VolumeTable:      opts.volumeTable,
		ClippingGuard:    !opts.noClipping,
	})
	if err != nil {
		return err
	}
	if err := stream.LoadModule(m); err != nil {
		return fmt.Errorf("load module: %w", err)
	}

	info := stream.GetInfo()
	logger.Printf("%q: %s, %d channels, %d orders, %d patterns (%d bytes)",
		m.Title, m.Format, m.NumChannels, m.SongLength, len(m.Patterns), info.MemoryUsage)

	if opts.wavPath != "" {
		duration := opts.duration
		if duration == 0 {
			duration = 3 * time.Minute
		}
		numFrames := wavFrames(stream, duration)
		if err := renderWAV(opts.wavPath, stream, numFrames); err != nil {
			return fmt.Errorf("render WAV: %w", err)
		}
		logger.Printf("Written %s (%s)", opts.wavPath, duration)
		return nil
	}

	return play(stream, m, opts)
}

func play(stream *mod.Stream, m *modfile.Module, opts *options) error {
	sampleRate := stream.Config().SampleRate
	numChannels := 2
	if opts.mono {
		numChannels = 1
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: numChannels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("create audio context: %w", err)
	}
	<-ready

	reader := playback.NewReader(stream, opts.mono, sampleRate/20)
	player := ctx.NewPlayer(reader)
	player.Play()
	defer player.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	var timeout <-chan time.Time
	if opts.duration != 0 {
		timeout = time.After(opts.duration)
	}

	status := newStatusLine(os.Stdout, m)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-interrupt:
			status.Finish()
			return nil
		case <-timeout:
			status.Finish()
			return nil
		case <-ticker.C:
			if state, ok := reader.State(); ok {
				status.Update(state)
			}
			if err := player.Err(); err != nil {
				status.Finish()
				return err
			}
		}
	}
}

// choosePath returns the file path either from the command-line args
// or from an interactive file dialog.
func choosePath(cwd string, args []string) (string, error) {
	if len(args) > 0 {
		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("cannot get absolute path: %w", err)
		}
		if err := validatePath(absPath); err != nil {
			return "", fmt.Errorf("passed argument is not a valid path: %w", err)
		}
		return absPath, nil
	}

	path, err := dialog.
		File().
		Title("Open MOD module").
		Filter("MOD modules (*.mod)", "mod").
		SetStartDir(cwd).
		Load()
	if err != nil {
		// The caller checks for dialog.ErrCancelled.
		return "", err
	}
	if path == "" {
		return "", dialog.ErrCancelled
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot get absolute path: %w", err)
	}
	if err := validatePath(absPath); err != nil {
		return "", fmt.Errorf("dialog selection invalid: %w", err)
	}
	return absPath, nil
}

// validatePath checks that the file exists.
// The extension is not checked: many modules are named like "mod.songname".
func validatePath(p string) error {
	st, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	if st.IsDir() {
		return fmt.Errorf("%s is a directory", p)
	}
	return nil
}

type instrumentInfo struct {
	Index      int
	Name       string
	Length     int
	Finetune   int
	Volume     uint8
	LoopStart  int
	LoopLength int
}

type moduleInfo struct {
	Title           string
	Signature       string
	Format          string
	NumChannels     int
	SongLength      int
	RestartPosition uint8
	Order           []uint8
	NumPatterns     int
	Instruments     []instrumentInfo
}

func newModuleInfo(m *modfile.Module) moduleInfo {
	info := moduleInfo{
		Title:           m.Title,
		Signature:       m.Signature,
		Format:          m.Format.String(),
		NumChannels:     m.NumChannels,
		SongLength:      m.SongLength,
		RestartPosition: m.RestartPosition,
		Order:           m.PatternOrder[:m.SongLength],
		NumPatterns:     len(m.Patterns),
	}
	for i := range m.Instruments {
		inst := &m.Instruments[i]
		if inst.Length == 0 && strings.TrimSpace(inst.Name) == "" {
			continue
		}
		info.Instruments = append(info.Instruments, instrumentInfo{
			Index:      i + 1,
			Name:       inst.Name,
			Length:     inst.Length,
			Finetune:   inst.FinetuneValue(),
			Volume:     inst.Volume,
			LoopStart:  inst.LoopStart,
			LoopLength: inst.LoopLength,
		})
	}
	return info
}

func dumpModule(w io.Writer, m *modfile.Module) {
	config := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	config.Fdump(w, newModuleInfo(m))
}
