package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"qsimlab/quantum"
)

// maxSteps caps how many circuit columns the grid exposes.
const maxSteps = 16

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
	focusSelectTarget
	focusSavePrompt
	focusLoadPrompt
)

// Model represents the TUI application state. The quantum.Simulator is
// the engine; the Model only holds placed circuit elements and view
// state.
type Model struct {
	sim       *quantum.Simulator
	circuit   quantum.Circuit
	numQubits int

	cursorQubit int
	cursorStep  int
	focus       focus

	// Menu state
	menuIdx int

	// Target-selection state (for two-qubit gates)
	pendingGate quantum.Gate
	targetQubit int

	result    *quantum.Result
	logView   viewport.Model
	fileInput textinput.Model

	statusMsg string
	width     int
	height    int
}

func initialModel(numQubits int) (Model, error) {
	sim, err := quantum.NewSimulator(numQubits)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "circuit.json"
	ti.CharLimit = 128

	vp := viewport.New(48, 10)
	vp.SetContent(strings.Join(sim.Log(), "\n"))

	return Model{
		sim:       sim,
		numQubits: numQubits,
		logView:   vp,
		fileInput: ti,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = max(msg.Width/2-6, 20)
		m.logView.Height = max(msg.Height/3, 6)
		return m, nil

	case tea.KeyMsg:
		switch m.focus {
		case focusMenu:
			return m.updateMenu(msg)
		case focusSelectTarget:
			return m.updateSelectTarget(msg)
		case focusSavePrompt, focusLoadPrompt:
			return m.updateFilePrompt(msg)
		default:
			return m.updateCircuit(msg)
		}
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m Model) updateCircuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursorQubit > 0 {
			m.cursorQubit--
		}
	case "down", "j":
		if m.cursorQubit < m.numQubits-1 {
			m.cursorQubit++
		}
	case "left", "h":
		if m.cursorStep > 0 {
			m.cursorStep--
		}
	case "right", "l":
		if m.cursorStep < maxSteps-1 {
			m.cursorStep++
		}

	case "enter", "g":
		m.focus = focusMenu
		m.menuIdx = 0

	case "d", "backspace":
		m.removeAt(m.cursorStep, m.cursorQubit)
		m.statusMsg = ""

	case "c":
		m.circuit = nil
		m.result = nil
		m.statusMsg = "Circuit cleared"

	case "e":
		return m.executeCircuit()

	case "m":
		return m.measureQubit()

	case "M":
		return m.measureAll()

	case "r":
		m.sim.Reset()
		m.result = nil
		m.refreshLog()
		m.statusMsg = "Register reset to |0...0⟩"

	case "u":
		m.sim.PrepareSuperposition()
		m.result = nil
		m.refreshLog()
		m.statusMsg = "Register prepared in equal superposition"

	case "w":
		m.focus = focusSavePrompt
		m.fileInput.SetValue("")
		m.fileInput.Focus()

	case "o":
		m.focus = focusLoadPrompt
		m.fileInput.SetValue("")
		m.fileInput.Focus()

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := quantum.Catalog()
	switch msg.String() {
	case "esc":
		m.focus = focusCircuit
	case "up", "k":
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	case "down", "j":
		if m.menuIdx < len(items)-1 {
			m.menuIdx++
		}
	case "enter":
		g := items[m.menuIdx]
		if g.Arity == 2 {
			if m.numQubits < 2 {
				m.statusMsg = "Two-qubit gates need at least 2 qubits"
				m.focus = focusCircuit
				return m, nil
			}
			m.pendingGate = g
			m.targetQubit = m.nextTarget(m.cursorQubit, +1)
			m.focus = focusSelectTarget
			return m, nil
		}
		m.placeGate(g, []int{m.cursorQubit})
		m.focus = focusCircuit
	}
	return m, nil
}

func (m Model) updateSelectTarget(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusCircuit
	case "up", "k":
		m.targetQubit = m.nextTarget(m.targetQubit, -1)
	case "down", "j":
		m.targetQubit = m.nextTarget(m.targetQubit, +1)
	case "enter":
		m.placeGate(m.pendingGate, []int{m.cursorQubit, m.targetQubit})
		m.focus = focusCircuit
	}
	return m, nil
}

func (m Model) updateFilePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusCircuit
		m.fileInput.Blur()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.fileInput.Value())
		m.fileInput.Blur()
		if path == "" {
			m.focus = focusCircuit
			return m, nil
		}
		if m.focus == focusSavePrompt {
			m.saveCircuit(path)
		} else {
			m.loadCircuit(path)
		}
		m.focus = focusCircuit
		return m, nil
	}

	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return m, cmd
}

// nextTarget cycles through target qubit candidates, skipping the
// control qubit under the cursor.
func (m Model) nextTarget(from, dir int) int {
	q := from
	for n := 0; n < m.numQubits; n++ {
		q = (q + dir + m.numQubits) % m.numQubits
		if q != m.cursorQubit {
			return q
		}
	}
	return from
}

// elementIndexAt returns the index of the circuit element occupying the
// given step and qubit, or -1.
func (m Model) elementIndexAt(step, qubit int) int {
	for i, el := range m.circuit {
		if el.Position != step {
			continue
		}
		for _, q := range el.Targets {
			if q == qubit {
				return i
			}
		}
	}
	return -1
}

// removeAt deletes any element occupying the given step and qubit.
func (m *Model) removeAt(step, qubit int) {
	if i := m.elementIndexAt(step, qubit); i >= 0 {
		m.circuit = append(m.circuit[:i], m.circuit[i+1:]...)
	}
}

// placeGate places a gate at the cursor step, evicting whatever its
// qubits currently occupy there.
func (m *Model) placeGate(g quantum.Gate, targets []int) {
	for _, q := range targets {
		m.removeAt(m.cursorStep, q)
	}
	m.circuit = append(m.circuit, quantum.Element{
		Gate:     g,
		Targets:  targets,
		Position: m.cursorStep,
	})
	m.statusMsg = fmt.Sprintf("Placed %s at step %d", g.Name, m.cursorStep)
	dbg.Debug("placed gate", "gate", g.Name, "targets", targets, "step", m.cursorStep)
}

func (m Model) executeCircuit() (tea.Model, tea.Cmd) {
	m.sim.Reset()
	res, err := m.sim.ExecuteCircuit(m.circuit)
	m.refreshLog()
	if err != nil {
		m.statusMsg = fmt.Sprintf("Execution failed: %v", err)
		dbg.Error("execution failed", "err", err)
		return m, nil
	}
	m.result = res
	m.statusMsg = fmt.Sprintf("Executed %d gate(s)", len(m.circuit))
	dbg.Debug("executed circuit", "gates", len(m.circuit))
	return m, nil
}

func (m Model) measureQubit() (tea.Model, tea.Cmd) {
	result, err := m.sim.MeasureQubit(m.cursorQubit)
	m.refreshLog()
	if err != nil {
		m.statusMsg = fmt.Sprintf("Measurement failed: %v", err)
		return m, nil
	}
	m.result = nil
	m.statusMsg = fmt.Sprintf("Measured q%d = %d", m.cursorQubit, result)
	return m, nil
}

func (m Model) measureAll() (tea.Model, tea.Cmd) {
	results, err := m.sim.MeasureAll()
	m.refreshLog()
	if err != nil {
		m.statusMsg = fmt.Sprintf("Measurement failed: %v", err)
		return m, nil
	}
	bits := make([]string, len(results))
	for i, r := range results {
		bits[i] = fmt.Sprintf("%d", r)
	}
	m.result = nil
	m.statusMsg = fmt.Sprintf("Measured register = |%s⟩", strings.Join(bits, ""))
	return m, nil
}

// refreshLog syncs the log viewport with the session log.
func (m *Model) refreshLog() {
	m.logView.SetContent(strings.Join(m.sim.Log(), "\n"))
	m.logView.GotoBottom()
}

func (m *Model) saveCircuit(path string) {
	f, err := os.Create(path)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Save failed: %v", err)
		return
	}
	defer f.Close()
	if err := quantum.EncodeCircuit(f, m.numQubits, m.circuit); err != nil {
		m.statusMsg = fmt.Sprintf("Save failed: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("Saved circuit to %s", path)
	dbg.Info("saved circuit", "path", path, "gates", len(m.circuit))
}

func (m *Model) loadCircuit(path string) {
	f, err := os.Open(path)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Load failed: %v", err)
		return
	}
	defer f.Close()

	n, circuit, err := quantum.DecodeCircuit(f)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Load failed: %v", err)
		return
	}
	if n != m.numQubits {
		sim, err := quantum.NewSimulator(n)
		if err != nil {
			m.statusMsg = fmt.Sprintf("Load failed: %v", err)
			return
		}
		m.sim = sim
		m.numQubits = n
		m.cursorQubit = 0
	}
	m.circuit = circuit
	m.result = nil
	m.cursorStep = 0
	m.refreshLog()
	m.statusMsg = fmt.Sprintf("Loaded %d gate(s) from %s", len(circuit), path)
	dbg.Info("loaded circuit", "path", path, "qubits", n, "gates", len(circuit))
}
