// Package helpview renders the controls page from markdown.
package helpview

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/netpong/tui/internal/theme"
)

const controls = `# Controls

| Key | Action |
| --- | --- |
| **w** / **↑** | move paddle up |
| **s** / **↓** | move paddle down |
| **esc** | leave the match |
| **enter** | back to the menu after a match |
| **ctrl+t** | toggle sound |
| **f2** | event log |
| **ctrl+c** | quit |

If both directions are held, **up** wins.

## Connecting

Pick *Play* from the menu. The client retries once a second until the
server answers; press **esc** to give up. Server address, port and
player name live under *Settings* and in ` + "`netpong.yaml`" + `.
`

// Model caches the rendered page per width.
type Model struct {
	width    int
	rendered string
}

// New creates the help page.
func New() Model {
	return Model{}
}

// View renders the page centred in width x height.
func (m *Model) View(width, height int) string {
	wrap := min(max(width-8, 30), 80)
	if m.rendered == "" || m.width != wrap {
		m.width = wrap
		m.rendered = render(wrap)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.rendered,
		theme.StyleDimmed.Render("  esc: back"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func render(wrap int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return controls
	}
	out, err := r.Render(controls)
	if err != nil {
		return controls
	}
	return out
}
