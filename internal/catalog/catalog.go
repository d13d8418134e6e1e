// Package catalog holds the immutable sky catalog: stars, constellations,
// asterism lines and the galactic band.
package catalog

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-skymap/internal/sky"
)

// Kind identifies a focusable object type.
type Kind int

const (
	KindStar Kind = iota
	KindConstellation
)

func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindConstellation:
		return "const"
	default:
		return "unknown"
	}
}

// Label returns the tag shown next to search candidates.
func (k Kind) Label() string {
	switch k {
	case KindStar:
		return "星名"
	case KindConstellation:
		return "星官"
	default:
		return "?"
	}
}

// ParseKind splits an id of the form "<kind>-<n>" and returns its kind.
func ParseKind(id string) (Kind, bool) {
	prefix, _, ok := strings.Cut(id, "-")
	if !ok {
		return 0, false
	}
	switch prefix {
	case "star":
		return KindStar, true
	case "const":
		return KindConstellation, true
	default:
		return 0, false
	}
}

// FormatID builds the id of the n-th object of a kind, e.g. star-0001.
func FormatID(k Kind, n int) string {
	return fmt.Sprintf("%s-%04d", k, n)
}

// ColorLevel is the traditional school colour of a star.
type ColorLevel int

const (
	ColorYellow ColorLevel = iota
	ColorRed
	ColorBlack
	ColorWhite
)

var colorNames = [...]string{"黃", "紅", "黑", "白"}
var colorHex = [...]string{"#FED049", "#DC3535", "#69687d", "#FFFFFF"}

// Name returns the colour's display name.
func (c ColorLevel) Name() string {
	if c < 0 || int(c) >= len(colorNames) {
		return colorNames[ColorWhite]
	}
	return colorNames[c]
}

// Hex returns the colour used to draw the star.
func (c ColorLevel) Hex() string {
	if c < 0 || int(c) >= len(colorHex) {
		return colorHex[ColorWhite]
	}
	return colorHex[c]
}

// ParseColor maps a display name back to its level. Unknown names are white.
func ParseColor(name string) ColorLevel {
	for i, n := range colorNames {
		if n == name {
			return ColorLevel(i)
		}
	}
	return ColorWhite
}

// Level is a constellation's emphasis, 1 (faint) to 3 (prominent).
type Level int

// Clamp forces the level into 1..3.
func (l Level) Clamp() Level {
	if l < 1 {
		return 1
	}
	if l > 3 {
		return 3
	}
	return l
}

// Hex returns the label colour for the level.
func (l Level) Hex() string {
	switch l.Clamp() {
	case 3:
		return "#F15A59"
	case 2:
		return "#FFDEB4"
	default:
		return "#FFFFFF"
	}
}

// Star is a catalogued point with a name label.
type Star struct {
	ID            string
	Name          string
	Coord         sky.Coord
	Color         ColorLevel
	Constellation string // display name of the parent constellation
	ProperName    string // western name
	Ref           string // document reference
}

// Constellation is a labelled region of the sky.
type Constellation struct {
	ID       string
	Name     string
	Coord    sky.Coord // label anchor
	Level    Level
	Boundary []sky.Coord // optional closed ring
	Ref      string
}

// Line is an asterism connector made of one or more polylines.
type Line struct {
	ID       string
	Segments [][]sky.Coord
}

// Band is a background region such as the galactic band.
type Band struct {
	ID    string
	Rings [][]sky.Coord
}
