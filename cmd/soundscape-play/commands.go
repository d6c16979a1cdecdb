package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/vsariola/soundscape"
	"github.com/vsariola/soundscape/engine"
)

// controls is the part of the engine the command line drives.
type controls interface {
	Select(p soundscape.Preset) error
	SetVolume(level float64)
	State() engine.State
	Level() (level, peak float64)
}

var errQuit = errors.New("quit")

const commandHelp = `commands:
  off, rain, forest   select a soundscape
  vol <0..1>          set the volume
  state               print the current soundscape, volume and output level
  quit                exit`

// execute runs one line typed by the user. It returns errQuit when the user
// wants to exit; other errors are reported and the loop goes on.
func execute(c controls, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit", "q":
		return errQuit
	case "state":
		printState(out, c.State())
		level, peak := c.Level()
		fmt.Fprintf(out, "level %.1f dBFS, peak %.1f dBFS\n", level, peak)
		return nil
	case "help", "?":
		fmt.Fprintln(out, commandHelp)
		return nil
	case "vol", "volume":
		if len(fields) != 2 {
			return errors.New("usage: vol <0..1>")
		}
		level, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || math.IsNaN(level) {
			return fmt.Errorf("invalid volume %q", fields[1])
		}
		c.SetVolume(level)
		printState(out, c.State())
		return nil
	default:
		p, err := soundscape.ParsePreset(cmd)
		if err != nil {
			return fmt.Errorf("unknown command %q, type help for a list", cmd)
		}
		err = c.Select(p)
		printState(out, c.State())
		return err
	}
}

func printState(out io.Writer, s engine.State) {
	fmt.Fprintf(out, "%s, volume %.0f%%\n", s.Preset.Title(), s.Volume*100)
}
