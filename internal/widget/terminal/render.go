package terminal

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/promptkit/internal/widget"
	"github.com/dshills/promptkit/internal/widget/sim"
)

// holdBarWidth is the number of cells in a hold-progress bar.
const holdBarWidth = 10

var (
	styleLabel    = tcell.StyleDefault.Bold(true)
	styleKey      = tcell.StyleDefault.Reverse(true)
	styleText     = tcell.StyleDefault
	styleDisabled = tcell.StyleDefault.Dim(true)
	styleDone     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// EndFrame draws the prompts that are shown this frame: the active group
// label followed by its members, then the standalone prompts.
func (b *Binding) EndFrame() {
	if !b.open {
		return
	}

	b.mu.Lock()
	resized := b.resized
	b.resized = false
	b.mu.Unlock()
	if resized {
		b.screen.Sync()
	}

	b.screen.Clear()
	_, height := b.screen.Size()

	y := 0
	group, text := b.ActiveGroup()
	infos := b.Prompts()

	if group != widget.NoGroup {
		b.drawString(0, y, text, styleLabel)
		y++
		for _, info := range infos {
			if y >= height {
				break
			}
			if info.Group == group && info.Visible {
				b.drawPrompt(2, y, info)
				y++
			}
		}
	}

	for _, info := range infos {
		if y >= height {
			break
		}
		if info.Group == widget.NoGroup && info.Visible {
			b.drawPrompt(0, y, info)
			y++
		}
	}

	b.screen.Show()
}

func (b *Binding) drawPrompt(x, y int, info sim.PromptInfo) {
	textStyle := styleText
	if !info.Enabled {
		textStyle = styleDisabled
	}

	x = b.drawString(x, y, "["+b.keyLabel(info)+"]", styleKey)
	x = b.drawString(x+1, y, info.Text, textStyle)

	if info.HoldMode {
		b.drawString(x+1, y, holdBar(info.HoldProgress, info.HoldFrames), holdStyle(info))
	}
}

func (b *Binding) keyLabel(info sim.PromptInfo) string {
	if len(info.Controls) == 0 {
		return "?"
	}
	labels := make([]string, 0, len(info.Controls))
	for _, c := range info.Controls {
		labels = append(labels, b.keymap.Label(c))
	}
	return strings.Join(labels, "/")
}

func holdStyle(info sim.PromptInfo) tcell.Style {
	if info.Completed {
		return styleDone
	}
	return styleText
}

// holdBar renders progress out of total as a fixed-width bar.
func holdBar(progress, total int) string {
	filled := 0
	if total > 0 {
		filled = progress * holdBarWidth / total
	}
	filled = min(max(filled, 0), holdBarWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", holdBarWidth-filled) + "]"
}

// drawString draws s at (x, y) cluster by cluster and returns the column
// after the last cell written.
func (b *Binding) drawString(x, y int, s string, style tcell.Style) int {
	width, _ := b.screen.Size()
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if x >= width {
			break
		}
		runes := g.Runes()
		b.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += max(g.Width(), 1)
	}
	return x
}

var _ widget.Binding = (*Binding)(nil)
