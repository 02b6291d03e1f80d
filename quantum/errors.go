package quantum

import "errors"

// Validation errors. All failures in this package are synchronous
// contract violations by the caller; nothing here is retryable.
var (
	// ErrInvalidQubitCount indicates a register size outside [MinQubits, MaxQubits].
	ErrInvalidQubitCount = errors.New("quantum: qubit count outside supported range")

	// ErrDimensionMismatch indicates an amplitude vector whose length is not 2^n.
	ErrDimensionMismatch = errors.New("quantum: amplitude vector length does not match register dimension")

	// ErrZeroState indicates an attempt to normalize an all-zero amplitude vector.
	ErrZeroState = errors.New("quantum: all-zero amplitude vector has no normalization")

	// ErrIndexOutOfRange indicates a basis or qubit index outside its valid bounds.
	ErrIndexOutOfRange = errors.New("quantum: index out of range")

	// ErrGateArityMismatch indicates a gate handed to the wrong application routine.
	ErrGateArityMismatch = errors.New("quantum: gate arity does not match application routine")

	// ErrInvalidQubitPair indicates a two-qubit gate whose control equals its target.
	ErrInvalidQubitPair = errors.New("quantum: control and target qubits must differ")

	// ErrTargetCountMismatch indicates a target list whose length differs from the gate arity.
	ErrTargetCountMismatch = errors.New("quantum: target qubit count does not match gate arity")

	// ErrUnsupportedGateArity indicates a gate of arity other than 1 or 2.
	ErrUnsupportedGateArity = errors.New("quantum: unsupported gate arity")

	// ErrQubitCountMismatch indicates an operation across states of different sizes.
	ErrQubitCountMismatch = errors.New("quantum: states have different qubit counts")

	// ErrUnknownGate indicates a gate name with no catalog entry.
	ErrUnknownGate = errors.New("quantum: unknown gate name")
)
