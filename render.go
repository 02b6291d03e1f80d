package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qsimlab/quantum"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len([]rune(s)) >= width {
		return s
	}
	total := width - len([]rune(s))
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateGlyph returns the short in-box glyph for a one-qubit gate.
func gateGlyph(g quantum.Gate) string {
	switch g.Name {
	case "Hadamard":
		return "H"
	case "Pauli-X":
		return "X"
	case "Pauli-Y":
		return "Y"
	case "Pauli-Z":
		return "Z"
	case "Phase-S":
		return "S"
	case "Phase-T":
		return "T"
	default:
		return g.Symbol
	}
}

// controlSymbol returns the wire symbol for the control qubit of a two-qubit gate.
func controlSymbol(g quantum.Gate) string {
	if g.Name == "SWAP" {
		return "×"
	}
	return "●"
}

// targetSymbol returns the wire symbol for the target qubit of a two-qubit gate.
func targetSymbol(g quantum.Gate) string {
	switch g.Name {
	case "CZ":
		return "●"
	case "SWAP":
		return "×"
	default:
		return "⊕"
	}
}

// ──────────────────────────── Circuit grid ────────────────────────────

// cellContent returns the unstyled glyph for the cell at (step, qubit),
// or "" for bare wire.
func (m Model) cellContent(step, qubit int) string {
	i := m.elementIndexAt(step, qubit)
	if i < 0 {
		return ""
	}
	el := m.circuit[i]
	if el.Gate.Arity == 1 {
		return gateGlyph(el.Gate)
	}
	if el.Targets[0] == qubit {
		return controlSymbol(el.Gate)
	}
	return targetSymbol(el.Gate)
}

// renderCell renders one grid cell, wire included, cellW wide.
func (m Model) renderCell(step, qubit int) string {
	content := m.cellContent(step, qubit)
	onCursor := step == m.cursorStep && qubit == m.cursorQubit
	onTarget := m.focus == focusSelectTarget && step == m.cursorStep && qubit == m.targetQubit

	switch {
	case onCursor || onTarget:
		style := cursorStyle
		if onTarget {
			style = targetSelectStyle
		}
		if content == "" {
			content = "·"
		}
		return style.Render(padCenter("‹"+content+"›", cellW))
	case content != "":
		return wireStyle.Render("─") + gateStyle.Render(padCenter(content, cellW-2)) + wireStyle.Render("─")
	default:
		return wireStyle.Render(strings.Repeat("─", cellW))
	}
}

// connectorRow renders the inter-wire row below the given qubit,
// marking vertical spans of two-qubit gates.
func (m Model) connectorRow(qubit, visStart, visCount int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", labelW))
	for s := visStart; s < visStart+visCount; s++ {
		spanned := false
		for _, el := range m.circuit {
			if el.Position != s || el.Gate.Arity != 2 {
				continue
			}
			lo, hi := el.Targets[0], el.Targets[1]
			if lo > hi {
				lo, hi = hi, lo
			}
			if qubit >= lo && qubit < hi {
				spanned = true
				break
			}
		}
		if spanned {
			sb.WriteString(wireStyle.Render(padCenter("│", cellW)))
		} else {
			sb.WriteString(strings.Repeat(" ", cellW))
		}
	}
	return sb.String()
}

// renderCircuitPanel renders the qubit wires with placed gates.
func (m Model) renderCircuitPanel() string {
	visCount := visCols
	visStart := 0

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Circuit"))
	sb.WriteString("\n\n")

	// Step ruler.
	sb.WriteString(strings.Repeat(" ", labelW))
	for s := visStart; s < visStart+visCount; s++ {
		sb.WriteString(dimStyle.Render(padCenter(fmt.Sprintf("%d", s), cellW)))
	}
	sb.WriteString("\n")

	for q := 0; q < m.numQubits; q++ {
		sb.WriteString(qubitLabelStyle.Render(fmt.Sprintf("q%d ", q)))
		sb.WriteString(wireStyle.Render("──"))
		for s := visStart; s < visStart+visCount; s++ {
			sb.WriteString(m.renderCell(s, q))
		}
		sb.WriteString("\n")
		if q < m.numQubits-1 {
			sb.WriteString(m.connectorRow(q, visStart, visCount))
			sb.WriteString("\n")
		}
	}

	return circuitStyle.Render(sb.String())
}

// ──────────────────────────── Results panel ────────────────────────────

const barWidth = 20

// renderBar renders a probability bar of fixed width.
func renderBar(p float64) string {
	filled := int(p*barWidth + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
}

// renderResultsPanel renders measurement probabilities and per-qubit
// ⟨Z⟩ for the current session state.
func (m Model) renderResultsPanel() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("State"))
	sb.WriteString("\n\n")

	if m.result != nil {
		for _, bp := range m.result.Probabilities {
			fmt.Fprintf(&sb, "|%s⟩ %s %5.1f%%\n", bp.Basis, renderBar(bp.Probability), bp.Probability*100)
		}
	} else {
		state := m.sim.CurrentState()
		for i, p := range state.Probabilities() {
			if p <= 1e-10 {
				continue
			}
			fmt.Fprintf(&sb, "|%s⟩ %s %5.1f%%\n", state.BasisLabel(i), renderBar(p), p*100)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(m.sim.CurrentState().String()))
	sb.WriteString("\n\n")

	for q := 0; q < m.numQubits; q++ {
		z, err := m.sim.ExpectationZ(q)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "⟨Z⟩ q%d: %+.3f\n", q, z)
	}

	return resultsStyle.Render(sb.String())
}

// ──────────────────────────── Frame ────────────────────────────

func (m Model) View() string {
	help := dimStyle.Render(
		"↑↓←→ Move  ⏎ Gate  d Delete  e Run  m/M Measure  u Superpose  r Reset  w Save  o Load  c Clear  q Quit")

	status := ""
	if m.statusMsg != "" {
		status = statusStyle.Render(m.statusMsg)
	}

	logPanel := logStyle.Render(titleStyle.Render("Log") + "\n" + m.logView.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderCircuitPanel(), m.renderResultsPanel())
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, logPanel, status, help)

	// Modal overlays replace the frame center.
	var overlay string
	switch m.focus {
	case focusMenu:
		overlay = m.renderMenu()
	case focusSelectTarget:
		overlay = m.renderTargetSelect()
	case focusSavePrompt, focusLoadPrompt:
		overlay = m.renderFilePrompt()
	}
	if overlay != "" && m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}
	if overlay != "" {
		return overlay
	}
	return frame
}
