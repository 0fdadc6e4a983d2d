package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/quasilyte/mod"
	"github.com/quasilyte/mod/modfile"
	"golang.org/x/term"
)

// statusLine prints the playback position.
// It only prints anything when the output is a terminal.
type statusLine struct {
	w        io.Writer
	enabled  bool
	module   *modfile.Module
	lastText string
}

func newStatusLine(f *os.File, m *modfile.Module) *statusLine {
	return &statusLine{
		w:       f,
		enabled: term.IsTerminal(int(f.Fd())),
		module:  m,
	}
}

func (l *statusLine) Update(state mod.TrackerState) {
	if !l.enabled {
		return
	}
	s := formatStatus(l.module, state)
	if s == l.lastText {
		return
	}
	l.lastText = s
	fmt.Fprintf(l.w, "\r%s", s)
}

func (l *statusLine) Finish() {
	if !l.enabled || l.lastText == "" {
		return
	}
	fmt.Fprintln(l.w)
}

func formatStatus(m *modfile.Module, state mod.TrackerState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "order %03d/%03d pattern %02d row %02d bpm %3d speed %2d |",
		state.OrderPos, m.SongLength, state.Pattern, state.Row, state.BPM, state.Speed)
	for i := 0; i < state.NumTracks; i++ {
		track := state.Tracks[i]
		if track.Period == 0 {
			b.WriteString(" --")
			continue
		}
		fmt.Fprintf(&b, " %02d", track.Volume)
	}
	return b.String()
}
