package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Engine applies gates and measurements to states. Every operation
// returns a new State; inputs are never modified.
type Engine struct {
	src Source
}

// NewEngine returns an engine drawing measurement samples from src. A
// nil src falls back to the process-wide random source.
func NewEngine(src Source) *Engine {
	if src == nil {
		src = DefaultSource()
	}
	return &Engine{src: src}
}

// ApplySingleQubitGate applies a 2x2 gate to one qubit. The tensor
// action I⊗...⊗G⊗...⊗I is computed pairwise over basis states differing
// only in the target bit; the full 2^n x 2^n matrix is never built.
func (e *Engine) ApplySingleQubitGate(s *State, g Gate, target int) (*State, error) {
	if g.Arity != 1 {
		return nil, fmt.Errorf("%w: %s is a %d-qubit gate", ErrGateArityMismatch, g.Name, g.Arity)
	}
	if target < 0 || target >= s.numQubits {
		return nil, fmt.Errorf("%w: qubit %d, register size %d", ErrIndexOutOfRange, target, s.numQubits)
	}

	mask := s.bitMask(target)
	out := make([]complex128, len(s.amps))
	for i := range s.amps {
		i0 := i &^ mask
		i1 := i | mask
		row := 0
		if i&mask != 0 {
			row = 1
		}
		out[i] = g.Matrix[row][0]*s.amps[i0] + g.Matrix[row][1]*s.amps[i1]
	}
	return &State{numQubits: s.numQubits, amps: out}, nil
}

// ApplyTwoQubitGate applies a 4x4 gate to a (control, target) qubit
// pair. For each basis index the 2-bit sub-index (control bit, target
// bit) selects a matrix row, which recombines the four amplitudes that
// agree on every other qubit.
func (e *Engine) ApplyTwoQubitGate(s *State, g Gate, control, target int) (*State, error) {
	if g.Arity != 2 {
		return nil, fmt.Errorf("%w: %s is a %d-qubit gate", ErrGateArityMismatch, g.Name, g.Arity)
	}
	if control < 0 || control >= s.numQubits {
		return nil, fmt.Errorf("%w: control qubit %d, register size %d", ErrIndexOutOfRange, control, s.numQubits)
	}
	if target < 0 || target >= s.numQubits {
		return nil, fmt.Errorf("%w: target qubit %d, register size %d", ErrIndexOutOfRange, target, s.numQubits)
	}
	if control == target {
		return nil, fmt.Errorf("%w: q%d", ErrInvalidQubitPair, control)
	}

	cmask := s.bitMask(control)
	tmask := s.bitMask(target)
	out := make([]complex128, len(s.amps))
	for i := range s.amps {
		row := 0
		if i&cmask != 0 {
			row |= 2
		}
		if i&tmask != 0 {
			row |= 1
		}
		base := i &^ (cmask | tmask)
		for col := 0; col < 4; col++ {
			j := base
			if col&2 != 0 {
				j |= cmask
			}
			if col&1 != 0 {
				j |= tmask
			}
			out[i] += g.Matrix[row][col] * s.amps[j]
		}
	}
	return &State{numQubits: s.numQubits, amps: out}, nil
}

// ApplyGate dispatches on gate arity. targets must have exactly
// gate-arity entries; two-qubit gates read (control, target) order.
func (e *Engine) ApplyGate(s *State, g Gate, targets []int) (*State, error) {
	if len(targets) != g.Arity {
		return nil, fmt.Errorf("%w: %s requires %d target qubit(s), got %d", ErrTargetCountMismatch, g.Name, g.Arity, len(targets))
	}
	switch g.Arity {
	case 1:
		return e.ApplySingleQubitGate(s, g, targets[0])
	case 2:
		return e.ApplyTwoQubitGate(s, g, targets[0], targets[1])
	default:
		return nil, fmt.Errorf("%w: %s has arity %d", ErrUnsupportedGateArity, g.Name, g.Arity)
	}
}

// Measurement is the outcome of measuring one qubit: the observed bit,
// the probability that outcome carried at sampling time, and the
// collapsed post-measurement state.
type Measurement struct {
	Result      int
	Probability float64
	State       *State
}

// MeasureQubit samples one qubit per the Born rule and collapses the
// state: amplitudes inconsistent with the outcome are zeroed and the
// survivors rescaled to unit norm. A sample exactly equal to the
// probability of 0 selects outcome 1.
func (e *Engine) MeasureQubit(s *State, qubit int) (*Measurement, error) {
	qp, err := s.QubitProbabilities(qubit)
	if err != nil {
		return nil, err
	}

	sample := e.src.Float64()
	result := 0
	prob := qp.Prob0
	if sample >= qp.Prob0 {
		result = 1
		prob = qp.Prob1
	}
	if prob <= 0 {
		return nil, fmt.Errorf("measure qubit %d: %w", qubit, ErrZeroState)
	}

	mask := s.bitMask(qubit)
	scale := complex(1/math.Sqrt(prob), 0)
	out := make([]complex128, len(s.amps))
	for i, a := range s.amps {
		bit := 0
		if i&mask != 0 {
			bit = 1
		}
		if bit == result {
			out[i] = a * scale
		}
	}
	return &Measurement{
		Result:      result,
		Probability: prob,
		State:       &State{numQubits: s.numQubits, amps: out},
	}, nil
}

// RegisterMeasurement is the outcome of sampling the whole register:
// the chosen basis index, its per-qubit bit decomposition, and the full
// pre-collapse probability vector.
type RegisterMeasurement struct {
	BasisIndex    int
	Results       []int
	Probabilities []float64
}

// MeasureAll samples one full-register outcome by walking the basis
// indices in order and accumulating probability mass until it covers
// the sample. The input state is not collapsed; callers wanting a
// collapsed state build the chosen basis state explicitly.
func (e *Engine) MeasureAll(s *State) (*RegisterMeasurement, error) {
	probs := s.Probabilities()
	sample := e.src.Float64()

	chosen := len(probs) - 1
	cumulative := 0.0
	for i, p := range probs {
		cumulative += p
		if cumulative >= sample {
			chosen = i
			break
		}
	}

	results := make([]int, s.numQubits)
	for q := 0; q < s.numQubits; q++ {
		if chosen&s.bitMask(q) != 0 {
			results[q] = 1
		}
	}
	return &RegisterMeasurement{
		BasisIndex:    chosen,
		Results:       results,
		Probabilities: probs,
	}, nil
}

// Fidelity returns |⟨A|B⟩|², the squared magnitude of the inner product
// of two equal-size states: 1 for identical states up to global phase,
// 0 for orthogonal ones.
func Fidelity(a, b *State) (float64, error) {
	if a.numQubits != b.numQubits {
		return 0, fmt.Errorf("%w: %d vs %d qubits", ErrQubitCountMismatch, a.numQubits, b.numQubits)
	}
	var inner complex128
	for i := range a.amps {
		inner += cmplx.Conj(a.amps[i]) * b.amps[i]
	}
	return real(inner)*real(inner) + imag(inner)*imag(inner), nil
}
