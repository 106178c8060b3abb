package editor

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Background(lipgloss.Color("transparent")).
			Bold(true).
			Padding(0, 1)

	focusedBlockStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("#0AF")).
				PaddingLeft(1)

	blockStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#334455")).
			PaddingLeft(1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Bold(true)

	menuStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#334455")).
			Padding(0, 1)

	menuSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0AF")).
				Background(lipgloss.Color("#224"))

	menuCategoryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Bold(true)

	statusBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"})

	statusStyle = statusBannerStyle.Render

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8")).
			Render

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))
)
