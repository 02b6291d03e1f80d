package quantum

import (
	"errors"
	"math"
	"math/cmplx"
	"strings"
	"testing"
)

// seqSource replays a fixed sample sequence for deterministic
// measurement tests.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func approxAmps(t *testing.T, s *State, want []complex128) {
	t.Helper()
	if s.Dim() != len(want) {
		t.Fatalf("dimension %d, want %d", s.Dim(), len(want))
	}
	for i, w := range want {
		a, _ := s.Amplitude(i)
		if cmplx.Abs(a-w) > tol {
			t.Errorf("amplitude %d = %v, want %v", i, a, w)
		}
	}
}

func TestSingleQubitGates(t *testing.T) {
	w := complex(1/math.Sqrt2, 0)
	tests := []struct {
		name string
		gate Gate
		in   []complex128
		want []complex128
	}{
		{"Hadamard on |0⟩", Hadamard, []complex128{1, 0}, []complex128{w, w}},
		{"Hadamard on |1⟩", Hadamard, []complex128{0, 1}, []complex128{w, -w}},
		{"Pauli-X on |0⟩", PauliX, []complex128{1, 0}, []complex128{0, 1}},
		{"Pauli-Y on |0⟩", PauliY, []complex128{1, 0}, []complex128{0, 1i}},
		{"Pauli-Z on |+⟩", PauliZ, []complex128{w, w}, []complex128{w, -w}},
		{"Phase-S on |+⟩", PhaseS, []complex128{w, w}, []complex128{w, w * 1i}},
	}

	e := NewEngine(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustStateWith(t, 1, tt.in)
			out, err := e.ApplySingleQubitGate(in, tt.gate, 0)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			approxAmps(t, out, tt.want)
			// Input must be untouched.
			approxAmps(t, in, tt.in)
		})
	}
}

func TestGateReversibility(t *testing.T) {
	e := NewEngine(nil)
	start := mustStateWith(t, 1, []complex128{complex(0.6, 0), complex(0, 0.8)})

	for _, g := range []Gate{PauliX, Hadamard} {
		t.Run(g.Name, func(t *testing.T) {
			once, err := e.ApplySingleQubitGate(start, g, 0)
			if err != nil {
				t.Fatalf("first apply: %v", err)
			}
			twice, err := e.ApplySingleQubitGate(once, g, 0)
			if err != nil {
				t.Fatalf("second apply: %v", err)
			}
			a0, _ := start.Amplitude(0)
			a1, _ := start.Amplitude(1)
			approxAmps(t, twice, []complex128{a0, a1})
		})
	}
}

func TestCNOTCorrectness(t *testing.T) {
	e := NewEngine(nil)

	t.Run("leaves |00⟩ unchanged", func(t *testing.T) {
		s := mustState(t, 2)
		out, err := e.ApplyTwoQubitGate(s, CNOT, 0, 1)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		approxAmps(t, out, []complex128{1, 0, 0, 0})
	})

	t.Run("maps |10⟩ to |11⟩", func(t *testing.T) {
		s := mustStateWith(t, 2, []complex128{0, 0, 1, 0})
		out, err := e.ApplyTwoQubitGate(s, CNOT, 0, 1)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		approxAmps(t, out, []complex128{0, 0, 0, 1})
	})

	t.Run("reversed pair maps |01⟩ to |11⟩", func(t *testing.T) {
		// control = qubit 1 (least significant bit).
		s := mustStateWith(t, 2, []complex128{0, 1, 0, 0})
		out, err := e.ApplyTwoQubitGate(s, CNOT, 1, 0)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		approxAmps(t, out, []complex128{0, 0, 0, 1})
	})
}

func TestBellState(t *testing.T) {
	e := NewEngine(nil)
	s := mustState(t, 2)

	s, err := e.ApplySingleQubitGate(s, Hadamard, 0)
	if err != nil {
		t.Fatalf("Hadamard: %v", err)
	}
	s, err = e.ApplyTwoQubitGate(s, CNOT, 0, 1)
	if err != nil {
		t.Fatalf("CNOT: %v", err)
	}

	probs := s.Probabilities()
	want := []float64{0.5, 0, 0, 0.5}
	for i, p := range probs {
		if math.Abs(p-want[i]) > tol {
			t.Errorf("P(|%s⟩) = %g, want %g", s.BasisLabel(i), p, want[i])
		}
	}
}

func TestNormalizationInvariant(t *testing.T) {
	e := NewEngine(nil)
	s := mustState(t, 3)

	steps := []struct {
		gate    Gate
		targets []int
	}{
		{Hadamard, []int{0}},
		{CNOT, []int{0, 1}},
		{PauliY, []int{2}},
		{PhaseT, []int{1}},
		{Swap, []int{1, 2}},
		{CZ, []int{0, 2}},
		{Hadamard, []int{2}},
	}
	for i, st := range steps {
		var err error
		s, err = e.ApplyGate(s, st.gate, st.targets)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, st.gate.Name, err)
		}
		sum := 0.0
		for _, p := range s.Probabilities() {
			sum += p
		}
		if math.Abs(sum-1) > tol {
			t.Errorf("step %d (%s): probability sum = %g, want 1", i, st.gate.Name, sum)
		}
	}
}

func TestApplyGateValidation(t *testing.T) {
	e := NewEngine(nil)
	s := mustState(t, 2)

	t.Run("target count mismatch", func(t *testing.T) {
		_, err := e.ApplyGate(s, CNOT, []int{0})
		if !errors.Is(err, ErrTargetCountMismatch) {
			t.Fatalf("err = %v, want ErrTargetCountMismatch", err)
		}
		// The message must state required vs. provided counts.
		if !strings.Contains(err.Error(), "2") || !strings.Contains(err.Error(), "1") {
			t.Errorf("message %q should mention required and provided counts", err)
		}
	})

	t.Run("unsupported arity", func(t *testing.T) {
		bad := Gate{Name: "Toffoli", Arity: 3}
		if _, err := e.ApplyGate(s, bad, []int{0, 1, 1}); !errors.Is(err, ErrUnsupportedGateArity) {
			t.Errorf("err = %v, want ErrUnsupportedGateArity", err)
		}
	})

	t.Run("control equals target", func(t *testing.T) {
		if _, err := e.ApplyTwoQubitGate(s, CNOT, 1, 1); !errors.Is(err, ErrInvalidQubitPair) {
			t.Errorf("err = %v, want ErrInvalidQubitPair", err)
		}
	})

	t.Run("qubit out of range", func(t *testing.T) {
		if _, err := e.ApplySingleQubitGate(s, Hadamard, 2); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("single: err = %v, want ErrIndexOutOfRange", err)
		}
		if _, err := e.ApplyTwoQubitGate(s, CNOT, 0, 5); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("two: err = %v, want ErrIndexOutOfRange", err)
		}
	})

	t.Run("wrong routine for arity", func(t *testing.T) {
		if _, err := e.ApplySingleQubitGate(s, CNOT, 0); !errors.Is(err, ErrGateArityMismatch) {
			t.Errorf("err = %v, want ErrGateArityMismatch", err)
		}
		if _, err := e.ApplyTwoQubitGate(s, Hadamard, 0, 1); !errors.Is(err, ErrGateArityMismatch) {
			t.Errorf("err = %v, want ErrGateArityMismatch", err)
		}
	})
}

func TestMeasureQubitDefiniteStates(t *testing.T) {
	for _, tt := range []struct {
		name string
		amps []complex128
		want int
	}{
		{"definite |0⟩", []complex128{1, 0}, 0},
		{"definite |1⟩", []complex128{0, 1}, 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(&seqSource{vals: []float64{0.3}})
			s := mustStateWith(t, 1, tt.amps)
			m, err := e.MeasureQubit(s, 0)
			if err != nil {
				t.Fatalf("measure: %v", err)
			}
			if m.Result != tt.want {
				t.Errorf("result = %d, want %d", m.Result, tt.want)
			}
			if math.Abs(m.Probability-1) > tol {
				t.Errorf("probability = %g, want 1", m.Probability)
			}
			approxAmps(t, m.State, tt.amps)
		})
	}
}

func TestMeasureQubitBoundaryConvention(t *testing.T) {
	// A sample exactly equal to prob0 selects outcome 1.
	e := NewEngine(&seqSource{vals: []float64{0.5}})
	w := complex(1/math.Sqrt2, 0)
	s := mustStateWith(t, 1, []complex128{w, w})

	m, err := e.MeasureQubit(s, 0)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if m.Result != 1 {
		t.Errorf("result = %d, want 1 at the boundary", m.Result)
	}
	approxAmps(t, m.State, []complex128{0, 1})
}

func TestMeasureQubitCollapse(t *testing.T) {
	e := NewEngine(&seqSource{vals: []float64{0.0}})
	s := mustState(t, 2)
	var err error
	s, err = e.ApplySingleQubitGate(s, Hadamard, 0)
	if err != nil {
		t.Fatalf("Hadamard: %v", err)
	}
	s, err = e.ApplyTwoQubitGate(s, CNOT, 0, 1)
	if err != nil {
		t.Fatalf("CNOT: %v", err)
	}

	m, err := e.MeasureQubit(s, 0)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if m.Result != 0 {
		t.Fatalf("result = %d, want 0", m.Result)
	}
	if math.Abs(m.Probability-0.5) > tol {
		t.Errorf("probability = %g, want 0.5", m.Probability)
	}
	// Entanglement: measuring qubit 0 as 0 forces the register to |00⟩.
	approxAmps(t, m.State, []complex128{1, 0, 0, 0})
	// The pre-measurement state is untouched.
	sum := 0.0
	for _, p := range s.Probabilities() {
		sum += p
	}
	if math.Abs(sum-1) > tol {
		t.Errorf("input state disturbed: probability sum %g", sum)
	}
}

func TestMeasureAll(t *testing.T) {
	e := NewEngine(&seqSource{vals: []float64{0.75}})
	s := mustState(t, 2)
	var err error
	s, err = e.ApplySingleQubitGate(s, Hadamard, 0)
	if err != nil {
		t.Fatalf("Hadamard: %v", err)
	}
	s, err = e.ApplyTwoQubitGate(s, CNOT, 0, 1)
	if err != nil {
		t.Fatalf("CNOT: %v", err)
	}

	m, err := e.MeasureAll(s)
	if err != nil {
		t.Fatalf("measure all: %v", err)
	}
	// Cumulative walk: P(|00⟩)=0.5 < 0.75, mass reaches 0.75 at |11⟩.
	if m.BasisIndex != 3 {
		t.Fatalf("basis index = %d, want 3", m.BasisIndex)
	}
	if len(m.Results) != 2 || m.Results[0] != 1 || m.Results[1] != 1 {
		t.Errorf("results = %v, want [1 1]", m.Results)
	}
	if math.Abs(m.Probabilities[0]-0.5) > tol || math.Abs(m.Probabilities[3]-0.5) > tol {
		t.Errorf("probabilities = %v, want 0.5 at |00⟩ and |11⟩", m.Probabilities)
	}
	// MeasureAll does not collapse the input.
	probs := s.Probabilities()
	if math.Abs(probs[0]-0.5) > tol {
		t.Errorf("input collapsed: P(|00⟩) = %g, want 0.5", probs[0])
	}
}

func TestFidelity(t *testing.T) {
	w := complex(1/math.Sqrt2, 0)
	zero := mustStateWith(t, 1, []complex128{1, 0})
	one := mustStateWith(t, 1, []complex128{0, 1})
	plus := mustStateWith(t, 1, []complex128{w, w})

	tests := []struct {
		name string
		a, b *State
		want float64
	}{
		{"identical", plus, plus, 1},
		{"orthogonal", zero, one, 0},
		{"half overlap", zero, plus, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Fidelity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("fidelity: %v", err)
			}
			if math.Abs(f-tt.want) > tol {
				t.Errorf("fidelity = %g, want %g", f, tt.want)
			}
		})
	}

	t.Run("global phase invariance", func(t *testing.T) {
		phased := mustStateWith(t, 1, []complex128{w * 1i, w * 1i})
		f, err := Fidelity(plus, phased)
		if err != nil {
			t.Fatalf("fidelity: %v", err)
		}
		if math.Abs(f-1) > tol {
			t.Errorf("fidelity = %g, want 1 up to global phase", f)
		}
	})

	t.Run("qubit count mismatch", func(t *testing.T) {
		big := mustState(t, 2)
		if _, err := Fidelity(zero, big); !errors.Is(err, ErrQubitCountMismatch) {
			t.Errorf("err = %v, want ErrQubitCountMismatch", err)
		}
	})
}
