package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header HeaderTheme
	Footer FooterTheme
	Panel  PanelTheme
	Modal  ModalTheme
	List   ListTheme
}

// HeaderTheme styles the app name, tabs and the greeting line.
type HeaderTheme struct {
	App        lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Weather    lipgloss.Style
	Greeting   lipgloss.Style
	Banner     lipgloss.Style
	BannerHint lipgloss.Style
}

// FooterTheme groups styles used by the bottom help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Faint lipgloss.Style
}

// ModalTheme styles the editor and confirmation overlays.
type ModalTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Error    lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style
}

// ListTheme styles entry rows.
type ListTheme struct {
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Date     lipgloss.Style
	Preview  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	tab := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))

	return Theme{
		Header: HeaderTheme{
			App:        lipgloss.NewStyle().Bold(true).Foreground(accent),
			Tab:        tab,
			ActiveTab:  tab.Foreground(accent).Bold(true).Underline(true),
			Weather:    faint,
			Greeting:   lipgloss.NewStyle().Bold(true),
			Banner:     lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1),
			BannerHint: lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: faint,
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
			Faint: faint,
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
			Label:    faint,
			Focused:  lipgloss.NewStyle().Foreground(accent).Bold(true),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Button:   lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(accent).Padding(0, 1),
			Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("236")).Padding(0, 1),
		},
		List: ListTheme{
			Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Normal:   lipgloss.NewStyle(),
			Date:     faint,
			Preview:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		},
	}
}
