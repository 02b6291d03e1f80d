package quantum

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Element is a single scheduled gate application: which gate, which
// qubits, and an integer position used purely for execution ordering.
// Positions need not be contiguous; equal positions run in input order.
type Element struct {
	Gate     Gate
	Targets  []int
	Position int
}

// Circuit is a list of scheduled gate applications. Input order is
// arbitrary; execution order is ascending position with stable ties.
type Circuit []Element

// Sorted returns a copy of the circuit in execution order.
func (c Circuit) Sorted() Circuit {
	out := append(Circuit(nil), c...)
	slices.SortStableFunc(out, func(a, b Element) int {
		return a.Position - b.Position
	})
	return out
}

// placedGate is the wire form of one circuit element.
type placedGate struct {
	GateName     string `json:"gateName"`
	Position     int    `json:"position"`
	TargetQubits []int  `json:"targetQubits"`
}

// circuitFile is the JSON exchange format for a placed circuit.
type circuitFile struct {
	NumQubits int          `json:"numQubits"`
	Gates     []placedGate `json:"gates"`
}

// EncodeCircuit writes the circuit to w in the JSON exchange format:
// {"numQubits": n, "gates": [{"gateName", "position", "targetQubits"}]}.
func EncodeCircuit(w io.Writer, numQubits int, c Circuit) error {
	if numQubits < MinQubits || numQubits > MaxQubits {
		return fmt.Errorf("%w: got %d, want %d..%d", ErrInvalidQubitCount, numQubits, MinQubits, MaxQubits)
	}
	file := circuitFile{NumQubits: numQubits, Gates: make([]placedGate, 0, len(c))}
	for _, el := range c {
		file.Gates = append(file.Gates, placedGate{
			GateName:     el.Gate.Name,
			Position:     el.Position,
			TargetQubits: el.Targets,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(file)
}

// DecodeCircuit reads the JSON exchange format from r, resolving gate
// names against the catalog and validating qubit count, target counts
// and qubit index ranges. Invalid input fails loudly; nothing is
// clamped or guessed.
func DecodeCircuit(r io.Reader) (numQubits int, c Circuit, err error) {
	var file circuitFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return 0, nil, fmt.Errorf("decode circuit: %w", err)
	}
	if file.NumQubits < MinQubits || file.NumQubits > MaxQubits {
		return 0, nil, fmt.Errorf("%w: got %d, want %d..%d", ErrInvalidQubitCount, file.NumQubits, MinQubits, MaxQubits)
	}
	c = make(Circuit, 0, len(file.Gates))
	for _, pg := range file.Gates {
		g, err := GateByName(pg.GateName)
		if err != nil {
			return 0, nil, err
		}
		if len(pg.TargetQubits) != g.Arity {
			return 0, nil, fmt.Errorf("%w: %s requires %d target qubit(s), got %d", ErrTargetCountMismatch, g.Name, g.Arity, len(pg.TargetQubits))
		}
		for _, q := range pg.TargetQubits {
			if q < 0 || q >= file.NumQubits {
				return 0, nil, fmt.Errorf("%w: qubit %d, register size %d", ErrIndexOutOfRange, q, file.NumQubits)
			}
		}
		c = append(c, Element{
			Gate:     g,
			Targets:  append([]int(nil), pg.TargetQubits...),
			Position: pg.Position,
		})
	}
	return file.NumQubits, c, nil
}
