package core

// These errors are user errors, not internal errors.  A user error is a
// problem with the program being run; an InternalError is a bug in the
// interpreter itself.

// Located is implemented by errors that carry a source location.
type Located interface {
	Location() SourceLocation
}

// StructuralError occurs when discovery or linking finds the program
// itself malformed: no stations at all, zero or several entry stations,
// or a bad placement modifier.  No partial program is returned.
type StructuralError struct {
	Loc SourceLocation
	Msg string
}

func (e *StructuralError) Error() string {
	if e.Loc.None() {
		return "structural error: " + e.Msg
	}
	return "structural error at " + e.Loc.String() + ": " + e.Msg
}

func (e *StructuralError) Location() SourceLocation {
	return e.Loc
}

// IdentifierError occurs when a discovered marker's identifier is not in
// the namespace.
type IdentifierError struct {
	Loc        SourceLocation
	Identifier string
}

func (e *IdentifierError) Error() string {
	return `failed to find station type with identifier "` + e.Identifier + `" at ` + e.Loc.String()
}

func (e *IdentifierError) Location() SourceLocation {
	return e.Loc
}

// OperandError occurs when a station transform receives a pallet it
// cannot handle.  It is fatal to the run but is a property of the
// program's logic; it carries the firing station's location.
type OperandError struct {
	Loc SourceLocation
	Err error
}

func (e *OperandError) Error() string {
	return "operand error at " + e.Loc.String() + ": " + e.Err.Error()
}

func (e *OperandError) Unwrap() error {
	return e.Err
}

func (e *OperandError) Location() SourceLocation {
	return e.Loc
}

// InternalError indicates a bug in the interpreter, such as an output
// bay referencing a station that does not exist.  Unrecoverable, and
// never the user program's fault.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Msg
}
