package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/graph"
)

// orderEntry describes one entry of the draw order.
type orderEntry struct {
	Index    int        `json:"index"`
	Name     string     `json:"name"`
	ID       uint32     `json:"id"`
	Visit    string     `json:"visit"`
	Kind     string     `json:"kind"`
	Parent   string     `json:"parent,omitempty"`
	Depth    float64    `json:"depth"`
	Rect     [4]float64 `json:"rect"`
	Crop     bool       `json:"crop,omitempty"`
	Floating bool       `json:"floating,omitempty"`
	Scroll   [2]float64 `json:"scroll_offset"`
}

// orderEntries lists the draw order of f with scene names resolved.
func orderEntries(f *frame) []orderEntry {
	g := f.ui.Graph()
	order := g.DepthOrder()
	entries := make([]orderEntry, 0, len(order))
	for i, v := range order {
		c, ok := g.WidgetAt(v.Node)
		if !ok {
			continue
		}
		x, y, w, h := c.Rect.XYWH()
		e := orderEntry{
			Index:    i,
			Name:     f.scene.Name(v.ID),
			ID:       uint32(v.ID),
			Visit:    v.Kind.String(),
			Kind:     string(c.Kind),
			Depth:    c.Depth,
			Rect:     [4]float64{x, y, w, h},
			Crop:     c.CropKids,
			Floating: c.Floating != nil,
			Scroll:   f.ui.ScrollOffset(v.ID),
		}
		if p, ok := g.Parent(v.ID); ok {
			e.Parent = f.scene.Name(p)
		}
		entries = append(entries, e)
	}
	return entries
}

// orderCommand creates the order command printing the draw order of a scene.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		asJSON bool
		opts   frameOpts
	)

	cmd := sceneCommand(&cobra.Command{
		Use:   "order [scene]",
		Short: "Print the draw order of a scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFrame(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			defer f.close()

			entries := orderEntries(f)
			if asJSON {
				return writeOrderJSON(os.Stdout, entries)
			}
			fmt.Println(orderTable(entries))
			return nil
		},
	})

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the order as JSON")
	opts.register(cmd)

	return cmd
}

func writeOrderJSON(w io.Writer, entries []orderEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// orderTable renders entries as a bordered table.
func orderTable(entries []orderEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			fmt.Sprint(e.Index),
			e.Name,
			e.Visit,
			e.Kind,
			e.Parent,
			fmt.Sprintf("%g", e.Depth),
			fmt.Sprintf("%g,%g %gx%g", e.Rect[0], e.Rect[1], e.Rect[2], e.Rect[3]),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Widget", "Visit", "Kind", "Parent", "Depth", "Rect").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(entries) && entries[row].Visit == graph.VisitScrollbar.String() {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if col == 1 {
				return StyleHighlight
			}
			return StyleValue
		}).
		Render()
}
