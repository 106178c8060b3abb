package editor

import (
	"strings"

	"github.com/marginalia-app/marginalia/internal/block"
)

// Command is one entry in the slash menu.
type Command struct {
	Name        string
	Trigger     string
	Icon        string
	Description string
	Category    string
	Target      block.Type
}

// Catalog lists every slash command in display order.
func Catalog() []Command {
	return []Command{
		{
			Name:        "Text",
			Trigger:     "text",
			Icon:        "¶",
			Description: "Plain paragraph",
			Category:    "Basic",
			Target:      block.Text,
		},
		{
			Name:        "Heading 1",
			Trigger:     "h1",
			Icon:        "H1",
			Description: "Large section heading",
			Category:    "Basic",
			Target:      block.Heading1,
		},
		{
			Name:        "Heading 2",
			Trigger:     "h2",
			Icon:        "H2",
			Description: "Medium section heading",
			Category:    "Basic",
			Target:      block.Heading2,
		},
		{
			Name:        "Heading 3",
			Trigger:     "h3",
			Icon:        "H3",
			Description: "Small section heading",
			Category:    "Basic",
			Target:      block.Heading3,
		},
		{
			Name:        "Bullet List",
			Trigger:     "bullet",
			Icon:        "•",
			Description: "Unordered list",
			Category:    "Lists",
			Target:      block.BulletList,
		},
		{
			Name:        "Numbered List",
			Trigger:     "numbered",
			Icon:        "1.",
			Description: "Ordered list",
			Category:    "Lists",
			Target:      block.NumberedList,
		},
		{
			Name:        "Image",
			Trigger:     "image",
			Icon:        "🖼",
			Description: "Import an image file",
			Category:    "Media",
			Target:      block.Image,
		},
	}
}

// MenuModel is the inline slash-command palette. It filters the catalog
// as the user types after the trigger character.
type MenuModel struct {
	commands []Command
	filtered []Command
	query    string
	cursor   int
	open     bool
}

func NewMenu() MenuModel {
	commands := Catalog()
	return MenuModel{
		commands: commands,
		filtered: commands,
	}
}

func (m *MenuModel) Open() {
	m.open = true
	m.query = ""
	m.cursor = 0
	m.filtered = m.commands
}

func (m *MenuModel) Close() {
	m.open = false
	m.query = ""
	m.cursor = 0
	m.filtered = m.commands
}

func (m *MenuModel) IsOpen() bool {
	return m.open
}

func (m *MenuModel) Query() string {
	return m.query
}

// Filter narrows the visible commands to those whose name or trigger
// contains the query, case-insensitively.
func (m *MenuModel) Filter(query string) {
	m.query = query
	lowered := strings.ToLower(query)

	if lowered == "" {
		m.filtered = m.commands
	} else {
		filtered := make([]Command, 0, len(m.commands))
		for _, cmd := range m.commands {
			if strings.Contains(strings.ToLower(cmd.Name), lowered) ||
				strings.Contains(strings.ToLower(cmd.Trigger), lowered) {
				filtered = append(filtered, cmd)
			}
		}
		m.filtered = filtered
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
}

func (m *MenuModel) Visible() []Command {
	return m.filtered
}

func (m *MenuModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *MenuModel) MoveDown() {
	if m.cursor < len(m.filtered)-1 {
		m.cursor++
	}
}

// Selected returns the command under the cursor, if any remain after
// filtering.
func (m *MenuModel) Selected() (Command, bool) {
	if !m.open || len(m.filtered) == 0 {
		return Command{}, false
	}
	return m.filtered[m.cursor], true
}

func (m *MenuModel) View() string {
	if !m.open {
		return ""
	}

	var sb strings.Builder
	if len(m.filtered) == 0 {
		sb.WriteString(placeholderStyle.Render("No matching commands"))
		return menuStyle.Render(sb.String())
	}

	lastCategory := ""
	for i, cmd := range m.filtered {
		if cmd.Category != lastCategory {
			if lastCategory != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(menuCategoryStyle.Render(cmd.Category))
			sb.WriteString("\n")
			lastCategory = cmd.Category
		}

		line := cmd.Icon + " " + cmd.Name + "  " + cmd.Description
		if i == m.cursor {
			sb.WriteString(menuSelectedStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	return menuStyle.Render(strings.TrimRight(sb.String(), "\n"))
}
