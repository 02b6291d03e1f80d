package main

import (
	"fmt"
	"strings"

	"qsimlab/quantum"
)

// renderMenu renders the gate picker overlay, populated from the
// read-only gate catalog.
func (m Model) renderMenu() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Place Gate"))
	sb.WriteString("\n\n")

	for i, g := range quantum.Catalog() {
		line := fmt.Sprintf("%-10s %s", g.Name, g.Symbol)
		if g.Arity == 2 {
			line += dimStyle.Render("  (2q)")
		}
		if i == m.menuIdx {
			sb.WriteString(menuSelectedStyle.Render("▸ " + line))
		} else {
			sb.WriteString(menuNormalStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("↑↓ Select  ⏎ Place  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}

// renderTargetSelect renders the target qubit picker for two-qubit
// gates: the cursor qubit is the control.
func (m Model) renderTargetSelect() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s: select target", m.pendingGate.Name)))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Control: q%d\n", m.cursorQubit)
	fmt.Fprintf(&sb, "Target:  %s\n", targetSelectStyle.Render(fmt.Sprintf("q%d", m.targetQubit)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("↑↓ Change  ⏎ Place  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}

// renderFilePrompt renders the save/load path prompt.
func (m Model) renderFilePrompt() string {
	var sb strings.Builder
	if m.focus == focusSavePrompt {
		sb.WriteString(titleStyle.Render("Save circuit"))
	} else {
		sb.WriteString(titleStyle.Render("Load circuit"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.fileInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
