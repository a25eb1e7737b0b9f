package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme
type Theme struct {
	Name      string
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Surface   lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	TextDim   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor
}

// ClassicTheme is the default palette
var ClassicTheme = Theme{
	Name:      "classic",
	Primary:   lipgloss.AdaptiveColor{Light: "#1F4E9C", Dark: "#6FA0F2"},
	Secondary: lipgloss.AdaptiveColor{Light: "#B0243A", Dark: "#F07386"},
	Surface:   lipgloss.AdaptiveColor{Light: "#F3F1EC", Dark: "#26262B"},
	Text:      lipgloss.AdaptiveColor{Light: "#1B1B1F", Dark: "#E6E4DF"},
	TextDim:   lipgloss.AdaptiveColor{Light: "#6B6B70", Dark: "#8C8C93"},
	Border:    lipgloss.AdaptiveColor{Light: "#D8D4CB", Dark: "#3E3E46"},
	Success:   lipgloss.AdaptiveColor{Light: "#2E7D4F", Dark: "#6CCB8F"},
	Warning:   lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F2B75B"},
	Error:     lipgloss.AdaptiveColor{Light: "#C53030", Dark: "#F26D6D"},
	Accent:    lipgloss.AdaptiveColor{Light: "#6B46C1", Dark: "#B794F4"},
}

// BistroTheme is a warmer palette
var BistroTheme = Theme{
	Name:      "bistro",
	Primary:   lipgloss.AdaptiveColor{Light: "#8B4513", Dark: "#E0A86B"},
	Secondary: lipgloss.AdaptiveColor{Light: "#556B2F", Dark: "#A9C77A"},
	Surface:   lipgloss.AdaptiveColor{Light: "#FBF4E8", Dark: "#2B2420"},
	Text:      lipgloss.AdaptiveColor{Light: "#2B2420", Dark: "#F2E8DA"},
	TextDim:   lipgloss.AdaptiveColor{Light: "#7A6A5A", Dark: "#9E8E7E"},
	Border:    lipgloss.AdaptiveColor{Light: "#E2D3BE", Dark: "#4A3F36"},
	Success:   lipgloss.AdaptiveColor{Light: "#3C7A3C", Dark: "#8BD18B"},
	Warning:   lipgloss.AdaptiveColor{Light: "#C27C0E", Dark: "#F5C065"},
	Error:     lipgloss.AdaptiveColor{Light: "#A4262C", Dark: "#F08A8F"},
	Accent:    lipgloss.AdaptiveColor{Light: "#7B3F61", Dark: "#D9A0C2"},
}

// GetTheme returns a theme by name, falling back to classic
func GetTheme(name string) Theme {
	switch name {
	case "bistro":
		return BistroTheme
	default:
		return ClassicTheme
	}
}
