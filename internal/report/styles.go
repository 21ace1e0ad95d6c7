package report

import (
	"io"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"gitscan/internal/discovery"
)

// Styles colors the kind tags of the text report.
type Styles struct {
	flavor   catppuccin.Flavor
	renderer *lipgloss.Renderer
}

// NewStyles binds a catppuccin flavor to a renderer for w. The renderer
// detects whether w is a terminal and emits plain text when it is not.
func NewStyles(w io.Writer, themeName string) *Styles {
	return &Styles{
		flavor:   flavorFromName(themeName),
		renderer: lipgloss.NewRenderer(w),
	}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

// Tag returns the rendered "(kind)" prefix for k.
func (s *Styles) Tag(k discovery.Kind) string {
	return s.tagStyle(k).Render("(" + k.String() + ")")
}

// Path renders an entry path.
func (s *Styles) Path(path string) string {
	return s.renderer.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Text().Hex)).
		Render(path)
}

func (s *Styles) tagStyle(k discovery.Kind) lipgloss.Style {
	style := s.renderer.NewStyle()
	switch k {
	case discovery.BareRepository:
		return style.Foreground(lipgloss.Color(s.flavor.Mauve().Hex)).Bold(true)
	case discovery.GitWorktree:
		return style.Foreground(lipgloss.Color(s.flavor.Green().Hex))
	case discovery.LinkedWorktree:
		return style.Foreground(lipgloss.Color(s.flavor.Teal().Hex))
	case discovery.PlainDirectory:
		return style.Foreground(lipgloss.Color(s.flavor.Overlay0().Hex))
	default:
		return style
	}
}
