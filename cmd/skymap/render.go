package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-skymap/internal/gesture"
	"github.com/litescript/ls-skymap/internal/nav"
	"github.com/litescript/ls-skymap/internal/scene"
	"github.com/litescript/ls-skymap/internal/sky"
)

const (
	defaultRenderWidth  = 100
	defaultRenderHeight = 40
)

func renderCmd() *cobra.Command {
	var (
		width, height int
		format        string
		focus         string
		lon, lat      float64
		scale         float64
		labels        bool
		output        string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the chart without starting the TUI",
		Long: "Render the chart once as plain text, coloured text or a JSON frame.\n" +
			"With --focus the chart is centred on an object the same way the TUI does.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			if width <= 0 || height <= 0 {
				w, h := terminalSize()
				if width <= 0 {
					width = w
				}
				if height <= 0 {
					height = h
				}
			}

			// A one-off render never touches the persisted focus.
			a.persist = nil
			if focus == "" {
				focus = display
			}
			m := a.machine()
			if focus != "" {
				if err := settle(&m, m.Select(focus)); err != nil {
					return err
				}
				if _, ok := m.State().(nav.Focused); !ok {
					return fmt.Errorf("unknown object %q", focus)
				}
			}

			v := m.View()
			showLabels := m.LabelsVisible()
			flags := cmd.Flags()
			if flags.Changed("lon") {
				v.Rotation.Lon = -lon
			}
			if flags.Changed("lat") {
				v.Rotation.Lat = -lat
			}
			if flags.Changed("scale") {
				// Star labels follow the declutter rule at the new scale.
				g := gesture.New(a.cfg.Chart.Gesture(), v.Scale)
				v = g.SetScale(v, scale)
				showLabels = g.LabelsVisible()
			}

			s := scene.New(a.store)
			s.Apply(v, sky.NewViewport(width, height), labels || showLabels)

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return writeFrame(w, s, format)
		},
	}

	f := cmd.Flags()
	f.IntVar(&width, "width", 0, "chart width in cells (default: terminal width)")
	f.IntVar(&height, "height", 0, "chart height in cells (default: terminal height)")
	f.StringVar(&format, "format", "ascii", "output format: ascii, ansi or json")
	f.StringVar(&focus, "focus", "", "object id to centre on, e.g. const-0002")
	f.Float64Var(&lon, "lon", 0, "centre right ascension in degrees")
	f.Float64Var(&lat, "lat", 90, "centre declination in degrees")
	f.Float64Var(&scale, "scale", 1, "zoom scale")
	f.BoolVar(&labels, "labels", false, "always draw star labels")
	f.StringVarP(&output, "output", "o", "-", "write to file instead of stdout")
	return cmd
}

func writeFrame(w io.Writer, s *scene.Scene, format string) error {
	switch format {
	case "json":
		return s.Export(w)
	case "ascii", "ansi":
		c := scene.NewCanvas(s.Viewport.Width, s.Viewport.Height)
		c.Draw(s)
		out := c.Plain()
		if format == "ansi" {
			out = c.Render()
		}
		_, err := fmt.Fprintln(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// terminalSize returns the size of stdout, or a fixed size when stdout is
// not a terminal.
func terminalSize() (int, int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultRenderWidth, defaultRenderHeight
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 1 {
		return defaultRenderWidth, defaultRenderHeight
	}
	return w, h - 1
}

// settle drives the machine's commands to completion outside a Bubble Tea
// program.
func settle(m *nav.Machine, cmd tea.Cmd) error {
	for i := 0; cmd != nil; i++ {
		if i >= 10 {
			return errors.New("navigation did not settle")
		}
		msg := cmd()
		var handled bool
		if cmd, handled = m.Update(msg); !handled {
			return fmt.Errorf("unexpected message %T", msg)
		}
	}
	return nil
}
