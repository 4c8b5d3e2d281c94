package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/tapegame/internal/hint"
	"github.com/zappabad/tapegame/tui/styles"
)

// HintPanel shows step progress and the most recently revealed hint.
type HintPanel struct {
	current    hint.Hint
	step       int
	totalSteps int
	focused    bool
	width      int
	height     int
}

// NewHintPanel creates a new hint panel.
func NewHintPanel() *HintPanel {
	return &HintPanel{}
}

// Init initializes the panel.
func (p *HintPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *HintPanel) Update(msg tea.Msg) (*HintPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *HintPanel) View() string {
	var content strings.Builder

	content.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("Step %d / %d", p.step, p.totalSteps)))
	content.WriteString("  ")
	content.WriteString(p.progressBar(p.width - 24))
	content.WriteString("\n")

	next := p.nextCheckpoint()
	if next > 0 {
		content.WriteString(styles.StepStyle.Render(fmt.Sprintf("Next checkpoint at step %d", next)))
	} else {
		content.WriteString(styles.StepStyle.Render("No checkpoints left"))
	}
	content.WriteString("\n\n")

	text := p.current.Text
	maxWidth := p.width - 6
	if maxWidth > 3 && lipgloss.Width(text) > maxWidth {
		text = lipgloss.NewStyle().Width(maxWidth).Render(text)
	}

	switch p.current.Kind {
	case hint.KindNone:
		content.WriteString(styles.MutedStyle.Render("Press h at a checkpoint to reveal a hint."))
	case hint.KindScripted:
		content.WriteString(styles.HintStyle.Render("💡 " + text))
	default:
		content.WriteString(styles.HintMutedStyle.Render(text))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💡 Hints", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *HintPanel) progressBar(width int) string {
	if width < 5 || p.totalSteps <= 0 {
		return ""
	}
	filled := p.step * width / p.totalSteps
	return styles.CandleUpStyle.Render(strings.Repeat("█", filled)) +
		styles.ChartAxisStyle.Render(strings.Repeat("░", width-filled))
}

func (p *HintPanel) nextCheckpoint() int {
	for s := p.step + 1; s <= p.totalSteps; s++ {
		if hint.IsCheckpoint(s) {
			return s
		}
	}
	return 0
}

// SetFocus sets the focus state of the panel.
func (p *HintPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *HintPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetState sets the step progress and the current hint.
func (p *HintPanel) SetState(step, totalSteps int, h hint.Hint) {
	p.step = step
	p.totalSteps = totalSteps
	p.current = h
}
