package btf

import (
	"errors"
	"fmt"
)

// Overflow errors (spec.md §7's SHOULD-enforce overflow taxonomy). The
// reference translator does not check these; this implementation
// returns them as ordinary errors from AddCompileUnit/Finish, since
// exceeding a wire-format limit is a property of the input, not a
// programmer bug.
var (
	ErrTooManyTypes       = errors.New("btf: type count exceeds MaxType")
	ErrNameOffsetOverflow = errors.New("btf: name offset exceeds MaxNameOffset")
	ErrVlenOverflow       = errors.New("btf: vlen exceeds MaxVlen")
)

// PreconditionError reports a programmer error in how the Context's
// construct -> add* -> finish -> emit* protocol was used. spec.md §7
// classifies these as fatal, assertion-reported bugs rather than data
// errors; PreconditionError is the value carried by the panic that
// reports them.
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("btf: precondition violated in %s: %s", e.Op, e.Msg)
}

func violate(op, msg string) {
	panic(&PreconditionError{Op: op, Msg: msg})
}
