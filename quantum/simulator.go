package quantum

import (
	"fmt"
	"math"
	"strings"
)

// Simulator is a stateful session over a fixed-size register. It owns
// the current state, an ordered history of state snapshots (index 0 is
// the initial state) and a human-readable operation log. History and
// log always have equal length and grow by one entry per applied gate
// or measurement.
//
// A Simulator is not safe for concurrent use; a host with concurrent
// callers must serialize access externally.
type Simulator struct {
	numQubits int
	engine    *Engine
	current   *State
	history   []*State
	log       []string
}

// Option configures a Simulator at construction.
type Option func(*Simulator)

// WithSource injects the random source used for measurement sampling.
func WithSource(src Source) Option {
	return func(s *Simulator) { s.engine = NewEngine(src) }
}

// NewSimulator returns a Ready simulator holding the |0...0⟩ state.
func NewSimulator(numQubits int, opts ...Option) (*Simulator, error) {
	if numQubits < MinQubits || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: got %d, want %d..%d", ErrInvalidQubitCount, numQubits, MinQubits, MaxQubits)
	}
	sim := &Simulator{
		numQubits: numQubits,
		engine:    NewEngine(nil),
	}
	for _, opt := range opts {
		opt(sim)
	}
	sim.Reset()
	return sim, nil
}

// NumQubits returns the register size fixed at construction.
func (s *Simulator) NumQubits() int { return s.numQubits }

// Reset returns the register to |0...0⟩ and truncates history and log
// to the single initialization entry.
func (s *Simulator) Reset() {
	state, _ := NewState(s.numQubits) // numQubits validated at construction
	s.begin(state, fmt.Sprintf("Initialized %d-qubit register to |%s⟩", s.numQubits, strings.Repeat("0", s.numQubits)))
}

// begin replaces the session with a fresh initial state.
func (s *Simulator) begin(state *State, entry string) {
	s.current = state
	s.history = []*State{state.Clone()}
	s.log = []string{entry}
}

// record appends one history snapshot and one log line for a completed
// operation.
func (s *Simulator) record(state *State, entry string) {
	s.current = state
	s.history = append(s.history, state.Clone())
	s.log = append(s.log, entry)
}

// CurrentState returns a clone of the current state.
func (s *Simulator) CurrentState() *State { return s.current.Clone() }

// ApplyGate applies a catalog gate to the given target qubits. Failed
// applications leave the state untouched but still append a log line
// before the error propagates, so the audit trail records the attempt.
func (s *Simulator) ApplyGate(g Gate, targets ...int) error {
	next, err := s.engine.ApplyGate(s.current, g, targets)
	if err != nil {
		s.log = append(s.log, fmt.Sprintf("Failed to apply %s gate: %v", g.Name, err))
		s.history = append(s.history, s.current.Clone())
		return err
	}
	s.record(next, fmt.Sprintf("Applied %s gate to qubit(s): %s", g.Name, qubitList(targets)))
	return nil
}

// qubitList renders target qubits as "q0, q1".
func qubitList(targets []int) string {
	parts := make([]string, len(targets))
	for i, q := range targets {
		parts[i] = fmt.Sprintf("q%d", q)
	}
	return strings.Join(parts, ", ")
}

// BasisProbability pairs a basis-state label with its measurement
// probability.
type BasisProbability struct {
	Basis       string
	Probability float64
}

// Result is the outcome of executing a circuit: the final state, the
// non-negligible measurement probabilities, and the full history and
// log of the session. All fields are copies; mutating them cannot
// corrupt the session.
type Result struct {
	FinalState    *State
	Probabilities []BasisProbability
	History       []*State
	Log           []string
}

// ExecuteCircuit applies the circuit's elements in ascending position
// order (stable for ties) against the session state. Execution stops at
// the first failing element and the error propagates after being
// logged.
func (s *Simulator) ExecuteCircuit(c Circuit) (*Result, error) {
	for _, el := range c.Sorted() {
		if err := s.ApplyGate(el.Gate, el.Targets...); err != nil {
			return nil, err
		}
	}

	probs := make([]BasisProbability, 0, s.current.Dim())
	for i, p := range s.current.Probabilities() {
		if p > negligible {
			probs = append(probs, BasisProbability{Basis: s.current.BasisLabel(i), Probability: p})
		}
	}
	return &Result{
		FinalState:    s.current.Clone(),
		Probabilities: probs,
		History:       s.History(),
		Log:           s.Log(),
	}, nil
}

// MeasureQubit measures one qubit, collapses the session state to the
// observed outcome, and records the result and its probability.
func (s *Simulator) MeasureQubit(qubit int) (int, error) {
	m, err := s.engine.MeasureQubit(s.current, qubit)
	if err != nil {
		s.log = append(s.log, fmt.Sprintf("Failed to measure qubit %d: %v", qubit, err))
		s.history = append(s.history, s.current.Clone())
		return 0, err
	}
	s.record(m.State, fmt.Sprintf("Measured q%d = %d (probability %.4f)", qubit, m.Result, m.Probability))
	return m.Result, nil
}

// MeasureAll samples a full-register outcome, collapses the session
// state to the chosen basis state, and records the per-qubit results
// with the outcome's probability.
func (s *Simulator) MeasureAll() ([]int, error) {
	m, err := s.engine.MeasureAll(s.current)
	if err != nil {
		return nil, err
	}

	// The engine does not collapse; build the chosen basis state here.
	amps := make([]complex128, s.current.Dim())
	amps[m.BasisIndex] = 1
	collapsed := &State{numQubits: s.numQubits, amps: amps}

	bits := make([]string, len(m.Results))
	for i, r := range m.Results {
		bits[i] = fmt.Sprintf("%d", r)
	}
	s.record(collapsed, fmt.Sprintf("Measured register = |%s⟩ (probability %.4f)",
		strings.Join(bits, ""), m.Probabilities[m.BasisIndex]))
	return m.Results, nil
}

// Probabilities returns |amplitude|^2 for every basis state of the
// current state.
func (s *Simulator) Probabilities() []float64 { return s.current.Probabilities() }

// QubitProbabilities returns the current marginal outcome probabilities
// for one qubit.
func (s *Simulator) QubitProbabilities(qubit int) (QubitProbability, error) {
	return s.current.QubitProbabilities(qubit)
}

// ExpectationZ returns the Z-operator expectation value for one qubit,
// prob0 - prob1, in [-1, 1].
func (s *Simulator) ExpectationZ(qubit int) (float64, error) {
	qp, err := s.current.QubitProbabilities(qubit)
	if err != nil {
		return 0, err
	}
	return qp.Prob0 - qp.Prob1, nil
}

// SetInitialState replaces the session state with a caller-supplied
// amplitude vector (normalized) and restarts history and log.
func (s *Simulator) SetInitialState(amps []complex128) error {
	state, err := NewStateWithAmplitudes(s.numQubits, amps)
	if err != nil {
		return err
	}
	s.begin(state, fmt.Sprintf("Initialized %d-qubit register from custom amplitudes", s.numQubits))
	return nil
}

// PrepareSuperposition restarts the session in the equal superposition:
// every basis amplitude 1/sqrt(2^n).
func (s *Simulator) PrepareSuperposition() {
	dim := 1 << s.numQubits
	amps := make([]complex128, dim)
	a := complex(1/math.Sqrt(float64(dim)), 0)
	for i := range amps {
		amps[i] = a
	}
	s.begin(&State{numQubits: s.numQubits, amps: amps},
		fmt.Sprintf("Initialized %d-qubit register to equal superposition", s.numQubits))
}

// History returns clones of every state snapshot, index 0 being the
// initial state.
func (s *Simulator) History() []*State {
	out := make([]*State, len(s.history))
	for i, st := range s.history {
		out[i] = st.Clone()
	}
	return out
}

// Log returns a copy of the operation log.
func (s *Simulator) Log() []string {
	return append([]string(nil), s.log...)
}
