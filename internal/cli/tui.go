package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/graph"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	detailKey    = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// =============================================================================
// OrderListModel - Interactive draw order browser
// =============================================================================

// OrderListModel is the bubbletea model browsing the draw order of a frame.
type OrderListModel struct {
	Entries []orderEntry
	Cursor  int
	Height  int
	Offset  int
}

// NewOrderListModel creates a new draw order browser.
func NewOrderListModel(entries []orderEntry) OrderListModel {
	return OrderListModel{Entries: entries, Height: 15}
}

func (m OrderListModel) Init() tea.Cmd {
	return nil
}

func (m OrderListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Entries))
		case "end", "G":
			m.move(len(m.Entries))
		case "p":
			m.jumpToParent()
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, the detail pane and the table borders.
		m.Height = max(msg.Height-16, 5)
		m.clampOffset()
	}
	return m, nil
}

func (m *OrderListModel) move(delta int) {
	if len(m.Entries) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Entries)-1)
	m.clampOffset()
}

func (m *OrderListModel) clampOffset() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// jumpToParent moves the cursor to the widget entry of the selected entry's
// parent, which always comes earlier in the order.
func (m *OrderListModel) jumpToParent() {
	if len(m.Entries) == 0 {
		return
	}
	parent := m.Entries[m.Cursor].Parent
	if parent == "" {
		return
	}
	for i := m.Cursor - 1; i >= 0; i-- {
		if e := m.Entries[i]; e.Name == parent && e.Visit == graph.VisitWidget.String() {
			m.move(i - m.Cursor)
			return
		}
	}
}

func (m OrderListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Draw Order"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  p parent  q quit"))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to draw"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, fmt.Sprint(e.Index), e.Name, e.Visit, e.Kind, fmt.Sprintf("%g", e.Depth)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Widget", "Visit", "Kind", "Depth").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Entries[idx].Visit == graph.VisitScrollbar.String() {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail(m.Entries[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// detail renders the fields of e that do not fit in the table.
func (m OrderListModel) detail(e orderEntry) string {
	parent := e.Parent
	if parent == "" {
		parent = "-"
	}
	var flags []string
	if e.Crop {
		flags = append(flags, "crop")
	}
	if e.Floating {
		flags = append(flags, "floating")
	}
	if len(flags) == 0 {
		flags = append(flags, "-")
	}

	lines := [][2]string{
		{"id", fmt.Sprintf("#%d", e.ID)},
		{"parent", parent},
		{"centre", fmt.Sprintf("%g, %g", e.Rect[0], e.Rect[1])},
		{"size", fmt.Sprintf("%g × %g", e.Rect[2], e.Rect[3])},
		{"scroll", fmt.Sprintf("%g, %g", e.Scroll[0], e.Scroll[1])},
		{"flags", strings.Join(flags, " ")},
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("  " + detailKey.Render(l[0]) + " " + StyleValue.Render(l[1]) + "\n")
	}
	return b.String()
}

// inspectCommand creates the inspect command, an interactive browser over
// the draw order of a scene.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts frameOpts

	cmd := sceneCommand(&cobra.Command{
		Use:   "inspect [scene]",
		Short: "Browse the draw order of a scene interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			defer f.close()

			p := tea.NewProgram(NewOrderListModel(orderEntries(f)), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	})

	opts.register(cmd)

	return cmd
}
