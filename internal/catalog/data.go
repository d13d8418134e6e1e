package catalog

import (
	"fmt"

	"github.com/litescript/ls-skymap/internal/sky"
)

// Default returns the built-in catalog of traditional Chinese asterisms.
// Coordinates are J2000 right ascension and declination in degrees.
func Default() *Store {
	s, err := New(defaultStars(), defaultConstellations(), defaultLines(), []Band{MilkyWay("milky-0001", 8)})
	if err != nil {
		panic("catalog: built-in data invalid: " + err.Error())
	}
	return s
}

type starRow struct {
	name   string
	lon    float64
	lat    float64
	color  ColorLevel
	parent string
	proper string
}

// Ordered by constellation, then by traditional star number.
var starRows = []starRow{
	// 北斗
	{"天樞", 165.932, 61.751, ColorYellow, "北斗", "Dubhe (α UMa)"},
	{"天璇", 165.460, 56.383, ColorYellow, "北斗", "Merak (β UMa)"},
	{"天璣", 178.458, 53.695, ColorYellow, "北斗", "Phecda (γ UMa)"},
	{"天權", 183.857, 57.033, ColorYellow, "北斗", "Megrez (δ UMa)"},
	{"玉衡", 193.507, 55.960, ColorYellow, "北斗", "Alioth (ε UMa)"},
	{"開陽", 200.981, 54.925, ColorYellow, "北斗", "Mizar (ζ UMa)"},
	{"搖光", 206.885, 49.313, ColorYellow, "北斗", "Alkaid (η UMa)"},

	// 參
	{"參宿一", 85.190, -1.943, ColorRed, "參", "Alnitak (ζ Ori)"},
	{"參宿二", 84.053, -1.202, ColorRed, "參", "Alnilam (ε Ori)"},
	{"參宿三", 83.002, -0.299, ColorRed, "參", "Mintaka (δ Ori)"},
	{"參宿四", 88.793, 7.407, ColorRed, "參", "Betelgeuse (α Ori)"},
	{"參宿五", 81.283, 6.350, ColorRed, "參", "Bellatrix (γ Ori)"},
	{"參宿六", 86.939, -9.670, ColorRed, "參", "Saiph (κ Ori)"},
	{"參宿七", 78.634, -8.202, ColorRed, "參", "Rigel (β Ori)"},

	// 心
	{"心宿一", 245.297, -25.593, ColorRed, "心", "Alniyat (σ Sco)"},
	{"心宿二", 247.352, -26.432, ColorRed, "心", "Antares (α Sco)"},
	{"心宿三", 248.971, -28.216, ColorRed, "心", "Paikauhale (τ Sco)"},

	// 角
	{"角宿一", 201.298, -11.161, ColorRed, "角", "Spica (α Vir)"},
	{"角宿二", 203.673, -0.596, ColorRed, "角", "Heze (ζ Vir)"},

	// 畢
	{"畢宿一", 66.372, 19.180, ColorRed, "畢", "Ain (ε Tau)"},
	{"畢宿五", 68.980, 16.509, ColorRed, "畢", "Aldebaran (α Tau)"},

	// 軒轅
	{"軒轅十二", 154.993, 19.842, ColorYellow, "軒轅", "Algieba (γ Leo)"},
	{"軒轅十四", 152.093, 11.967, ColorYellow, "軒轅", "Regulus (α Leo)"},

	// 北河 / 南河
	{"北河二", 113.650, 31.889, ColorWhite, "北河", "Castor (α Gem)"},
	{"北河三", 116.329, 28.026, ColorWhite, "北河", "Pollux (β Gem)"},
	{"南河二", 111.788, 8.289, ColorWhite, "南河", "Gomeisa (β CMi)"},
	{"南河三", 114.826, 5.225, ColorWhite, "南河", "Procyon (α CMi)"},

	// 織女 / 河鼓 / 天津
	{"織女一", 279.235, 38.784, ColorBlack, "織女", "Vega (α Lyr)"},
	{"河鼓一", 298.828, 6.407, ColorBlack, "河鼓", "Alshain (β Aql)"},
	{"河鼓二", 297.696, 8.868, ColorBlack, "河鼓", "Altair (α Aql)"},
	{"河鼓三", 296.565, 10.613, ColorBlack, "河鼓", "Tarazed (γ Aql)"},
	{"天津四", 310.358, 45.280, ColorBlack, "天津", "Deneb (α Cyg)"},

	// 單星
	{"天狼", 101.287, -16.716, ColorWhite, "天狼", "Sirius (α CMa)"},
	{"大角", 213.915, 19.182, ColorYellow, "大角", "Arcturus (α Boo)"},
	{"老人", 95.988, -52.696, ColorWhite, "老人", "Canopus (α Car)"},
	{"南門二", 219.902, -60.834, ColorWhite, "南門", "Rigil Kentaurus (α Cen)"},
	{"五車二", 79.172, 45.998, ColorYellow, "五車", "Capella (α Aur)"},
	{"北落師門", 344.413, -29.622, ColorWhite, "北落師門", "Fomalhaut (α PsA)"},
	{"勾陳一", 37.955, 89.264, ColorYellow, "勾陳", "Polaris (α UMi)"},
	{"水委一", 24.429, -57.237, ColorWhite, "水委", "Achernar (α Eri)"},
}

func defaultStars() []Star {
	stars := make([]Star, len(starRows))
	for i, r := range starRows {
		id := FormatID(KindStar, i+1)
		stars[i] = Star{
			ID:            id,
			Name:          r.name,
			Coord:         sky.Coord{Lon: r.lon, Lat: r.lat},
			Color:         r.color,
			Constellation: r.parent,
			ProperName:    r.proper,
			Ref:           id,
		}
	}
	return stars
}

type constRow struct {
	name  string
	lon   float64
	lat   float64
	level Level
}

var constRows = []constRow{
	{"北斗", 185.0, 56.0, 3},
	{"參", 84.0, -1.0, 3},
	{"心", 247.0, -26.5, 3},
	{"角", 202.5, -6.0, 2},
	{"畢", 67.5, 17.5, 2},
	{"軒轅", 153.5, 16.0, 2},
	{"北河", 115.0, 30.0, 1},
	{"南河", 113.3, 6.8, 1},
	{"織女", 281.0, 37.0, 2},
	{"河鼓", 297.7, 8.6, 2},
	{"天津", 307.0, 42.0, 2},
	{"天狼", 101.3, -16.7, 1},
	{"大角", 213.9, 19.2, 1},
	{"老人", 96.0, -52.7, 1},
	{"南門", 216.0, -60.5, 1},
	{"五車", 82.0, 40.0, 2},
	{"北落師門", 344.4, -29.6, 1},
	{"勾陳", 30.0, 86.0, 2},
	{"水委", 24.4, -57.2, 1},
}

func defaultConstellations() []Constellation {
	consts := make([]Constellation, len(constRows))
	for i, r := range constRows {
		id := FormatID(KindConstellation, i+1)
		consts[i] = Constellation{
			ID:    id,
			Name:  r.name,
			Coord: sky.Coord{Lon: r.lon, Lat: r.lat},
			Level: r.level,
			Ref:   id,
		}
	}

	// 參 and 北斗 carry boundaries so region outlines are exercised.
	consts[0].Boundary = []sky.Coord{{Lon: 160, Lat: 46}, {Lon: 212, Lat: 46}, {Lon: 212, Lat: 65}, {Lon: 160, Lat: 65}}
	consts[1].Boundary = []sky.Coord{{Lon: 76, Lat: -12}, {Lon: 92, Lat: -12}, {Lon: 92, Lat: 10}, {Lon: 76, Lat: 10}}
	return consts
}

// linePath lists star names to join in order.
type linePath []string

var lineRows = [][]linePath{
	{{"天樞", "天璇", "天璣", "天權", "天樞"}, {"天權", "玉衡", "開陽", "搖光"}},
	{{"參宿四", "參宿一", "參宿六"}, {"參宿五", "參宿三", "參宿七"}, {"參宿一", "參宿二", "參宿三"}},
	{{"心宿一", "心宿二", "心宿三"}},
	{{"角宿一", "角宿二"}},
	{{"畢宿一", "畢宿五"}},
	{{"軒轅十二", "軒轅十四"}},
	{{"北河二", "北河三"}},
	{{"南河二", "南河三"}},
	{{"河鼓一", "河鼓二", "河鼓三"}},
}

func defaultLines() []Line {
	pos := make(map[string]sky.Coord, len(starRows))
	for _, r := range starRows {
		pos[r.name] = sky.Coord{Lon: r.lon, Lat: r.lat}
	}

	lines := make([]Line, 0, len(lineRows))
	for i, row := range lineRows {
		l := Line{ID: formatLineID(i + 1)}
		for _, path := range row {
			seg := make([]sky.Coord, 0, len(path))
			for _, name := range path {
				seg = append(seg, pos[name])
			}
			l.Segments = append(l.Segments, seg)
		}
		lines = append(lines, l)
	}
	return lines
}

func formatLineID(n int) string {
	return fmt.Sprintf("line-%04d", n)
}
