package rop

// Coded is implemented by errors that carry a machine readable code and an
// ordered list of human readable messages. Any error in a chain implementing
// it is treated as recoverable and becomes a Failure envelope.
type Coded interface {
	error
	// ErrorCode returns the machine readable code, e.g. NOT_FOUND
	ErrorCode() string
	// ErrorMessages returns the ordered, non-empty message list
	ErrorMessages() []string
}

// Outcome is the read side shared by every Envelope instantiation.
type Outcome interface {
	OK() bool
	Code() string
	Errors() []string
}

var (
	_ Coded   = (*Error)(nil)
	_ Outcome = Envelope[any]{}
)
