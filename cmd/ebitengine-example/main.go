package main

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/quasilyte/mod"
	"github.com/quasilyte/mod/internal/playback"
	"github.com/quasilyte/mod/modfile"
	"github.com/spf13/pflag"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

// This simple tool plays the specified MOD track using Ebitengine audio player.
//
// Controls:
//   SPACE  pause/resume
//   R      rewind
//   1-9    play the instrument N using the synthesizer (C-2)
//   C      copy the current position to the clipboard

const sampleRate = 44100

// c2Period is a finetune 0 period of C-2 (ProTracker notation).
const c2Period = 428

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: go run ./cmd/ebitengine-example path/to/music.mod\n")
		pflag.PrintDefaults()
	}
	noFilter := pflag.Bool("no-filter", false, "disable the output low-pass filter")
	separation := pflag.Int("separation", 1, "stereo separation mode (0 or 1)")
	pflag.Parse()
	if pflag.NArg() < 1 {
		pflag.Usage()
		os.Exit(1)
	}
	filename := pflag.Arg(0)

	// Create a usable MOD stream.
	data, err := os.ReadFile(filename)
	if err != nil {
		panic(fmt.Errorf("read MOD file: %v", err))
	}
	modParser := modfile.NewParser(modfile.ParserConfig{
		NeedStrings:     true,
		WritableSamples: true, // data is owned by us
	})
	modModule, err := modParser.ParseFromBytes(data)
	if err != nil {
		panic(fmt.Errorf("parsing MOD file: %v", err))
	}
	modStream := mod.NewStream()
	config := modStream.Config()
	config.Filter = !*noFilter
	config.StereoSeparation = *separation
	if err := modStream.SetConfig(config); err != nil {
		panic(err)
	}
	if err := modStream.LoadModule(modModule); err != nil {
		panic(fmt.Sprintf("loading MOD module: %v", err))
	}

	// Create a sound player using the Ebitengine audio context.
	// You can have multiple players, but only one audio context.
	// See Ebitengine docs to learn more.
	audioContext := audio.NewContext(sampleRate)
	reader := playback.NewReader(modStream, false, sampleRate/60)
	player, err := audioContext.NewPlayer(reader)
	if err != nil {
		panic(err)
	}

	g := &game{
		player:   player,
		reader:   reader,
		module:   modModule,
		filename: filename,
		paused:   true,
	}

	synth := mod.NewSynthesizer(mod.SynthesizerConfig{
		NumChannels: 2,
	})
	// Writable samples are copied, so the song stream EFx flips don't reach the synth.
	if err := synth.LoadInstruments(modModule); err != nil {
		panic(err)
	}
	g.synth = synth
	g.synthReader = playback.NewReader(synth, false, sampleRate)
	{
		player, err := audioContext.NewPlayer(g.synthReader)
		if err != nil {
			panic(err)
		}
		g.synthPlayer = player
	}

	ebiten.SetWindowTitle("MOD player: " + filename)
	if err := ebiten.RunGame(g); err != nil {
		panic(err)
	}
}

type game struct {
	player *audio.Player
	reader *playback.Reader
	module *modfile.Module

	synth       *mod.Synthesizer
	synthReader *playback.Reader
	synthPlayer *audio.Player

	clipboardOnce sync.Once
	clipboardOK   bool

	filename string
	paused   bool
	message  string
}

var instrumentKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
	ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		if g.player.IsPlaying() {
			g.player.Pause()
		} else {
			g.player.Play()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.player.Rewind(); err != nil {
			return err
		}
	}

	for i, key := range instrumentKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		var err error
		g.synthReader.Do(func() {
			err = g.synth.PlayNote(modfile.Note{
				Instrument: uint8(i + 1),
				Period:     c2Period,
			})
		})
		if err != nil {
			return err
		}
		g.synthPlayer.Play()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyPosition()
	}

	return nil
}

func (g *game) copyPosition() {
	g.clipboardOnce.Do(func() {
		g.clipboardOK = clipboard.Init() == nil
	})
	if !g.clipboardOK {
		g.message = "clipboard is not available"
		return
	}
	state, ok := g.reader.State()
	if !ok {
		return
	}
	pos := fmt.Sprintf("%s: order %d, pattern %d, row %d", g.filename, state.OrderPos, state.Pattern, state.Row)
	clipboard.Write(clipboard.FmtText, []byte(pos))
	g.message = "copied: " + pos
}

var (
	headerColor = color.RGBA{R: 0xFF, G: 0xCC, B: 0x33, A: 0xFF}
	trackColor  = color.RGBA{R: 0xCC, G: 0xEE, B: 0xFF, A: 0xFF}
	idleColor   = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xFF}
)

func (g *game) Draw(screen *ebiten.Image) {
	if g.paused {
		ebitenutil.DebugPrint(screen, "Paused... press SPACE")
	} else {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Playing %s...", g.filename))
	}

	y := 28
	drawText(screen, fmt.Sprintf("%q [%s, %d channels]", g.reader.Title(), g.module.Format, g.module.NumChannels), y, headerColor)
	y += 16

	state, ok := g.reader.State()
	if !ok {
		return
	}
	drawText(screen, fmt.Sprintf("order %03d/%03d  pattern %02d  row %02d  bpm %d  speed %d",
		state.OrderPos, g.module.SongLength, state.Pattern, state.Row, state.BPM, state.Speed), y, headerColor)
	y += 24

	for i := 0; i < state.NumTracks; i++ {
		track := state.Tracks[i]
		c := trackColor
		if track.Period == 0 {
			c = idleColor
		}
		drawText(screen, formatTrack(i, track, g.reader.InstrumentName(track.Instrument)), y, c)
		y += 14
	}

	if g.message != "" {
		drawText(screen, g.message, 458, idleColor)
	}
}

var textFace = text.NewGoXFace(basicfont.Face7x13)

// drawText draws a line of text; y is the top of the line.
func drawText(dst *ebiten.Image, s string, y int, c color.Color) {
	opts := &text.DrawOptions{}
	opts.GeoM.Translate(8, float64(y))
	opts.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, textFace, opts)
}

func formatTrack(i int, track mod.TrackState, instName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02d ", i+1)
	if track.Period == 0 {
		b.WriteString("---")
		return b.String()
	}
	fmt.Fprintf(&b, "%02d %-22s period %4d vol %2d fx %03X",
		track.Instrument, instName, track.Period, track.Volume, track.Effect)
	b.WriteString(" ")
	b.WriteString(strings.Repeat("#", track.Volume/4))
	return b.String()
}

func (g *game) Layout(_, _ int) (int, int) {
	return 640, 480
}
