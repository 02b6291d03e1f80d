// Package quantum implements a dense state-vector simulator for small
// qubit registers: normalized amplitude vectors, a fixed catalog of 1- and
// 2-qubit unitary gates, measurement with collapse, and a stateful
// simulator session that records execution history.
//
// Basis indexing is big-endian: qubit 0 contributes the most significant
// bit of a basis index, so for an n-qubit register qubit q is bit n-1-q.
package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Register size bounds. The simulator is pedagogical and deliberately
// capped at 2^5 = 32 basis states.
const (
	MinQubits = 1
	MaxQubits = 5
)

// negligible is the magnitude below which an amplitude is treated as zero
// for display and probability filtering.
const negligible = 1e-10

// State is the full state vector of an n-qubit register: 2^n complex
// amplitudes whose squared magnitudes sum to 1.
//
// Gate application and measurement never modify a State in place; they
// return a fresh State, so held references stay valid as history
// snapshots. The only public mutator is SetAmplitude.
type State struct {
	numQubits int
	amps      []complex128
}

// NewState returns the register in the basis state |0...0⟩.
func NewState(numQubits int) (*State, error) {
	if numQubits < MinQubits || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: got %d, want %d..%d", ErrInvalidQubitCount, numQubits, MinQubits, MaxQubits)
	}
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &State{numQubits: numQubits, amps: amps}, nil
}

// NewStateWithAmplitudes returns a register initialized from the given
// amplitude vector, normalized. The vector length must be exactly 2^n.
func NewStateWithAmplitudes(numQubits int, amps []complex128) (*State, error) {
	if numQubits < MinQubits || numQubits > MaxQubits {
		return nil, fmt.Errorf("%w: got %d, want %d..%d", ErrInvalidQubitCount, numQubits, MinQubits, MaxQubits)
	}
	if len(amps) != 1<<numQubits {
		return nil, fmt.Errorf("%w: got %d amplitudes, want %d", ErrDimensionMismatch, len(amps), 1<<numQubits)
	}
	s := &State{numQubits: numQubits, amps: append([]complex128(nil), amps...)}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return s, nil
}

// NumQubits returns the register size.
func (s *State) NumQubits() int { return s.numQubits }

// Dim returns the number of basis states, 2^n.
func (s *State) Dim() int { return len(s.amps) }

// bitMask returns the basis-index mask for the given qubit. Qubit 0 is
// the most significant bit.
func (s *State) bitMask(qubit int) int {
	return 1 << (s.numQubits - 1 - qubit)
}

// Amplitude returns the amplitude of the given basis state.
func (s *State) Amplitude(index int) (complex128, error) {
	if index < 0 || index >= len(s.amps) {
		return 0, fmt.Errorf("%w: basis index %d, dimension %d", ErrIndexOutOfRange, index, len(s.amps))
	}
	return s.amps[index], nil
}

// SetAmplitude overwrites one amplitude and renormalizes the whole
// vector. This is "point at a state and renormalize" semantics: the
// other amplitudes keep their relative magnitudes and only rescale
// globally.
func (s *State) SetAmplitude(index int, value complex128) error {
	if index < 0 || index >= len(s.amps) {
		return fmt.Errorf("%w: basis index %d, dimension %d", ErrIndexOutOfRange, index, len(s.amps))
	}
	old := s.amps[index]
	s.amps[index] = value
	if err := s.normalize(); err != nil {
		s.amps[index] = old
		return err
	}
	return nil
}

// Probabilities returns |amplitude|^2 for every basis state. The entries
// sum to 1 within floating-point tolerance.
func (s *State) Probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, a := range s.amps {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// QubitProbability holds the marginal outcome probabilities for a single
// qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal probability of measuring the
// given qubit as 0 or 1, summed over all consistent basis states.
func (s *State) QubitProbabilities(qubit int) (QubitProbability, error) {
	if qubit < 0 || qubit >= s.numQubits {
		return QubitProbability{}, fmt.Errorf("%w: qubit %d, register size %d", ErrIndexOutOfRange, qubit, s.numQubits)
	}
	mask := s.bitMask(qubit)
	var qp QubitProbability
	for i, a := range s.amps {
		p := real(a * cmplx.Conj(a))
		if i&mask != 0 {
			qp.Prob1 += p
		} else {
			qp.Prob0 += p
		}
	}
	return qp, nil
}

// BasisLabel returns the binary label of a basis index, zero-padded to
// the register width (e.g. index 2 in a 3-qubit register is "010").
func (s *State) BasisLabel(index int) string {
	return fmt.Sprintf("%0*b", s.numQubits, index)
}

// String renders the state as a sum of ket terms, omitting amplitudes
// with negligible magnitude.
func (s *State) String() string {
	var sb strings.Builder
	for i, a := range s.amps {
		if cmplx.Abs(a) < negligible {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "(%.4f%+.4fi)|%s⟩", real(a), imag(a), s.BasisLabel(i))
	}
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

// Clone returns an independent copy sharing no backing storage.
func (s *State) Clone() *State {
	amps := make([]complex128, len(s.amps))
	copy(amps, s.amps)
	return &State{numQubits: s.numQubits, amps: amps}
}

// normalize rescales the vector to unit norm.
func (s *State) normalize() error {
	var sum float64
	for _, a := range s.amps {
		sum += real(a * cmplx.Conj(a))
	}
	if sum == 0 {
		return ErrZeroState
	}
	norm := complex(math.Sqrt(sum), 0)
	for i := range s.amps {
		s.amps[i] /= norm
	}
	return nil
}
