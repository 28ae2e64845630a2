// Package theme defines color themes for the budget dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Surface       lipgloss.Color // cards and panels
	SurfaceHover  lipgloss.Color // active tab, selected row
	SurfaceBright lipgloss.Color

	Border       lipgloss.Color
	BorderBright lipgloss.Color
	BorderAccent lipgloss.Color // focused cards and forms

	TextDim     lipgloss.Color // hints, disabled
	TextMuted   lipgloss.Color // labels
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	AccentDim    lipgloss.Color

	// Chart and status hues. Spent amounts use Orange, remaining budget
	// GreenBright, new own resources Blue.
	Green       lipgloss.Color
	GreenBright lipgloss.Color
	Orange      lipgloss.Color
	Red         lipgloss.Color
	Blue        lipgloss.Color
	BlueBright  lipgloss.Color
	Yellow      lipgloss.Color
	Magenta     lipgloss.Color
	Cyan        lipgloss.Color
}

// palette lists a theme's colors from darkest surface to brightest text,
// then the accent ramp and the hues.
type palette struct {
	surfaces [4]string // background, surface, hover, bright
	borders  [2]string
	text     [3]string // dim, muted, primary
	accent   [3]string // base, bright, dim
	green    [2]string
	orange   string
	red      string
	blue     [2]string
	yellow   string
	magenta  string
	cyan     string
}

func (p palette) theme(name string) Theme {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Theme{
		Name:          name,
		Background:    c(p.surfaces[0]),
		Surface:       c(p.surfaces[1]),
		SurfaceHover:  c(p.surfaces[2]),
		SurfaceBright: c(p.surfaces[3]),
		Border:        c(p.borders[0]),
		BorderBright:  c(p.borders[1]),
		BorderAccent:  c(p.accent[0]),
		TextDim:       c(p.text[0]),
		TextMuted:     c(p.text[1]),
		TextPrimary:   c(p.text[2]),
		Accent:        c(p.accent[0]),
		AccentBright:  c(p.accent[1]),
		AccentDim:     c(p.accent[2]),
		Green:         c(p.green[0]),
		GreenBright:   c(p.green[1]),
		Orange:        c(p.orange),
		Red:           c(p.red),
		Blue:          c(p.blue[0]),
		BlueBright:    c(p.blue[1]),
		Yellow:        c(p.yellow),
		Magenta:       c(p.magenta),
		Cyan:          c(p.cyan),
	}
}

// FlexokiDark is the default theme.
var FlexokiDark = palette{
	surfaces: [4]string{"#100F0F", "#1C1B1A", "#282726", "#343331"},
	borders:  [2]string{"#403E3C", "#575653"},
	text:     [3]string{"#575653", "#878580", "#FFFCF0"},
	accent:   [3]string{"#3AA99F", "#5BC8BE", "#1A3533"},
	green:    [2]string{"#879A39", "#A3B859"},
	orange:   "#DA702C",
	red:      "#D14D41",
	blue:     [2]string{"#4385BE", "#6BA3D6"},
	yellow:   "#D0A215",
	magenta:  "#CE5D97",
	cyan:     "#24837B",
}.theme("flexoki-dark")

// Hemicycle uses the deep blue and gold of the European flag.
var Hemicycle = palette{
	surfaces: [4]string{"#0A1028", "#121A3A", "#1C2650", "#263266"},
	borders:  [2]string{"#2E3B74", "#4A5A9C"},
	text:     [3]string{"#4A5A9C", "#9AA6D1", "#F4F6FF"},
	accent:   [3]string{"#FFCC00", "#FFE066", "#3A3210"},
	green:    [2]string{"#5FAF6A", "#7FD48A"},
	orange:   "#F29B38",
	red:      "#E0565B",
	blue:     [2]string{"#3F6FD8", "#7C9CF0"},
	yellow:   "#FFCC00",
	magenta:  "#C77DD8",
	cyan:     "#4FB8C8",
}.theme("hemicycle")

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = palette{
	surfaces: [4]string{"#1E1E2E", "#313244", "#45475A", "#585B70"},
	borders:  [2]string{"#585B70", "#7F849C"},
	text:     [3]string{"#6C7086", "#A6ADC8", "#CDD6F4"},
	accent:   [3]string{"#89B4FA", "#B4D0FB", "#293147"},
	green:    [2]string{"#A6E3A1", "#C6F6C1"},
	orange:   "#FAB387",
	red:      "#F38BA8",
	blue:     [2]string{"#89B4FA", "#B4D0FB"},
	yellow:   "#F9E2AF",
	magenta:  "#F5C2E7",
	cyan:     "#94E2D5",
}.theme("catppuccin-mocha")

// TokyoNight is a cool blue and purple theme.
var TokyoNight = palette{
	surfaces: [4]string{"#1A1B26", "#24283B", "#343A52", "#414868"},
	borders:  [2]string{"#565F89", "#7982A9"},
	text:     [3]string{"#565F89", "#A9B1D6", "#C0CAF5"},
	accent:   [3]string{"#7AA2F7", "#A9C1FF", "#252B3F"},
	green:    [2]string{"#9ECE6A", "#B9E87A"},
	orange:   "#FF9E64",
	red:      "#F7768E",
	blue:     [2]string{"#7AA2F7", "#A9C1FF"},
	yellow:   "#E0AF68",
	magenta:  "#BB9AF7",
	cyan:     "#7DCFFF",
}.theme("tokyo-night")

// Terminal sticks to the 16 ANSI colors.
var Terminal = palette{
	surfaces: [4]string{"0", "0", "8", "8"},
	borders:  [2]string{"8", "7"},
	text:     [3]string{"8", "7", "15"},
	accent:   [3]string{"6", "14", "0"},
	green:    [2]string{"2", "10"},
	orange:   "3",
	red:      "1",
	blue:     [2]string{"4", "12"},
	yellow:   "3",
	magenta:  "5",
	cyan:     "6",
}.theme("terminal")

// All lists the available themes in display order.
var All = []Theme{FlexokiDark, Hemicycle, CatppuccinMocha, TokyoNight, Terminal}

// Active is the currently selected theme.
var Active = FlexokiDark

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	_, ok := lookup(name)
	return ok
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	if t, ok := lookup(name); ok {
		return t
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

func lookup(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
