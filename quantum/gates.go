package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Gate is an immutable named unitary operator on 1 or 2 qubits. The
// matrix is 2x2 for arity 1 and 4x4 for arity 2; for two-qubit gates the
// basis order is control⊗target (00, 01, 10, 11).
type Gate struct {
	Name   string
	Symbol string
	Arity  int
	Matrix [][]complex128
}

var invSqrt2 = complex(1/math.Sqrt2, 0)

// The fixed gate catalog. Gates are startup-time constants and are never
// mutated.
var (
	Hadamard = Gate{
		Name: "Hadamard", Symbol: "H", Arity: 1,
		Matrix: [][]complex128{
			{invSqrt2, invSqrt2},
			{invSqrt2, -invSqrt2},
		},
	}

	PauliX = Gate{
		Name: "Pauli-X", Symbol: "X", Arity: 1,
		Matrix: [][]complex128{
			{0, 1},
			{1, 0},
		},
	}

	PauliY = Gate{
		Name: "Pauli-Y", Symbol: "Y", Arity: 1,
		Matrix: [][]complex128{
			{0, -1i},
			{1i, 0},
		},
	}

	PauliZ = Gate{
		Name: "Pauli-Z", Symbol: "Z", Arity: 1,
		Matrix: [][]complex128{
			{1, 0},
			{0, -1},
		},
	}

	PhaseS = Gate{
		Name: "Phase-S", Symbol: "S", Arity: 1,
		Matrix: [][]complex128{
			{1, 0},
			{0, 1i},
		},
	}

	PhaseT = Gate{
		Name: "Phase-T", Symbol: "T", Arity: 1,
		Matrix: [][]complex128{
			{1, 0},
			{0, cmplx.Exp(complex(0, math.Pi/4))},
		},
	}

	CNOT = Gate{
		Name: "CNOT", Symbol: "●─⊕", Arity: 2,
		Matrix: [][]complex128{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 0, 1},
			{0, 0, 1, 0},
		},
	}

	CZ = Gate{
		Name: "CZ", Symbol: "●─●", Arity: 2,
		Matrix: [][]complex128{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, -1},
		},
	}

	Swap = Gate{
		Name: "SWAP", Symbol: "×─×", Arity: 2,
		Matrix: [][]complex128{
			{1, 0, 0, 0},
			{0, 0, 1, 0},
			{0, 1, 0, 0},
			{0, 0, 0, 1},
		},
	}
)

// Catalog returns the full gate catalog in palette order.
func Catalog() []Gate {
	return []Gate{Hadamard, PauliX, PauliY, PauliZ, PhaseS, PhaseT, CNOT, CZ, Swap}
}

// GateByName looks up a catalog gate by name or symbol,
// case-insensitively.
func GateByName(name string) (Gate, error) {
	for _, g := range Catalog() {
		if strings.EqualFold(g.Name, name) || strings.EqualFold(g.Symbol, name) {
			return g, nil
		}
	}
	return Gate{}, fmt.Errorf("%w: %q", ErrUnknownGate, name)
}
