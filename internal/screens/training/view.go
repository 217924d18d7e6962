package training

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/navigator"
	"github.com/pioneer-academy/nmotrain/internal/ui/components"
	"github.com/pioneer-academy/nmotrain/internal/ui/theme"
)

func (t *TrainingScreen) View(width, height int) string {
	if t.nodeErr != "" {
		return renderNotice(width, height, theme.Rejected, t.nodeErr)
	}
	if t.cat.Len() == 0 {
		return renderNotice(width, height, theme.Notice,
			"There are no training questions for your program and format yet.\n\nPress E to change your answers.")
	}

	node, err := navigator.Current(t.state, t.cat)
	if err != nil {
		return renderNotice(width, height, theme.Rejected,
			"This training run points at a question that no longer exists. Run `nmotrain reset` to start over.")
	}

	var b strings.Builder
	b.WriteString(t.renderProgressLine(width))
	b.WriteString("\n")
	bar := components.NewProgressBar("",
		float64(t.state.CompletedCount())/float64(t.cat.Len()), false, max(width-4, 10))
	b.WriteString("  " + bar.View())
	b.WriteString("\n")
	b.WriteString(t.renderChecklist())
	b.WriteString("\n\n")

	b.WriteString(t.renderNode(node, width))

	if t.errMsg != "" {
		b.WriteString("\n" + theme.Rejected.Render("  "+t.errMsg))
	}

	return b.String()
}

// renderProgressLine shows the catalog position above the question.
func (t *TrainingScreen) renderProgressLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", t.state.CatalogKey.Program, t.state.CatalogKey.Format))

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d of %d answered", t.state.CompletedCount(), t.cat.Len()))

	line := left
	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

// renderChecklist marks each catalog step: passed, current, or pending.
func (t *TrainingScreen) renderChecklist() string {
	marks := make([]string, 0, t.cat.Len())
	for _, n := range t.cat.Nodes {
		switch {
		case n.ID == t.state.CurrentNodeID:
			marks = append(marks, theme.Selected.Render("▸"))
		case t.state.CompletedNodeIDs[n.ID]:
			marks = append(marks, theme.Accepted.Render("✓"))
		default:
			marks = append(marks, theme.Hint.Render("○"))
		}
	}
	return "  " + strings.Join(marks, " ")
}

func (t *TrainingScreen) renderNode(node catalog.Node, width int) string {
	prompt := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(node.Prompt)

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\n")

	switch {
	case t.evaluating:
		b.WriteString(t.renderEvaluating(width))
	case t.state.AwaitingConfirmation && t.state.PendingVerdict != nil:
		b.WriteString(t.renderPending(node, width))
	default:
		b.WriteString(t.renderInput(node, width))
	}

	return b.String()
}

func (t *TrainingScreen) renderEvaluating(width int) string {
	frame := spinnerFrames[t.spinnerFrame%len(spinnerFrames)]
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Secondary).
		Render(frame + " Checking your answer…")
}

// renderPending shows the verdict, tip, escalation notice, or choice
// message currently gating the node.
func (t *TrainingScreen) renderPending(node catalog.Node, width int) string {
	pending := t.state.PendingVerdict

	style := theme.Accepted
	heading := "Nice work!"
	switch {
	case !pending.Acceptable && !pending.ShouldAdvance:
		style = theme.Rejected
		heading = "Not quite yet"
	case !pending.Acceptable && pending.ShouldAdvance:
		style = theme.Notice
		heading = "Close enough to move on"
	case node.Kind != catalog.KindFreeText:
		heading = ""
	}

	var b strings.Builder
	if heading != "" {
		b.WriteString(style.Render(heading) + "\n\n")
	}
	b.WriteString(theme.Body.Width(min(width-8, 72)).Render(pending.Feedback))

	// Show earlier attempts so the trainee can see what changed.
	if history := t.state.History(node.ID); len(history) > 1 {
		b.WriteString("\n\n" + theme.Hint.Render(
			fmt.Sprintf("attempt %d on this question", len(history))))
	}

	card := theme.Card.Render(b.String())
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(card)
}

func (t *TrainingScreen) renderInput(node catalog.Node, width int) string {
	switch node.Kind {
	case catalog.KindFreeText:
		answer := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + t.input.View())
		return answer

	case catalog.KindYesNo:
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Press Y for yes, N for no")

	case catalog.KindSingleChoice:
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(t.choice.View())

	case catalog.KindInformational:
		var b strings.Builder
		if node.Content != "" {
			b.WriteString(theme.Body.Width(min(width-8, 72)).Render(node.Content) + "\n\n")
		}
		b.WriteString(theme.Hint.Render("Press Enter to continue"))
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(b.String())

	case catalog.KindExpandable:
		return t.renderExpandable(node, width)
	}
	return ""
}

// renderExpandable lists the node's sections; the selected one can be
// opened in place.
func (t *TrainingScreen) renderExpandable(node catalog.Node, width int) string {
	var b strings.Builder

	if node.ContentMalformed {
		b.WriteString(theme.Notice.Render("Some details for this item could not be displayed.") + "\n\n")
	}

	for i, section := range node.Sections {
		prefix := "  "
		marker := "▸"
		if t.expanded[i] {
			marker = "▾"
		}
		line := fmt.Sprintf("%s%s %s", prefix, marker, section.Title)

		if i == t.sectionIdx {
			b.WriteString(theme.Selected.Render(line) + "\n")
		} else {
			b.WriteString(theme.Body.Render(line) + "\n")
		}

		if t.expanded[i] {
			detail := lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Width(min(width-12, 68)).
				PaddingLeft(6).
				Render(section.Detail)
			b.WriteString(detail + "\n")
		}
	}

	b.WriteString("\n" + theme.Hint.Render("Press C when you're ready to continue"))
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(b.String())
}

// renderNotice centers a styled message block.
func renderNotice(width, height int, style lipgloss.Style, message string) string {
	body := style.Width(min(width-8, 72)).Render(message)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(body))
}
