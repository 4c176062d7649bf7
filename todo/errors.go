package todo

import "strings"

// Kind classifies an [Error]. The set of kinds is closed.
type Kind uint8

const (
	// KindValidation means the input was missing or malformed. The request
	// was rejected before any mutation.
	KindValidation Kind = iota + 1

	// KindStorage means the primary store failed, a record was missing when
	// it was expected, or a record could not be decoded.
	KindStorage

	// KindPublish means a domain event could not be emitted. Publish errors
	// are logged and never surfaced to the caller.
	KindPublish
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindStorage:
		return "storage error"
	case KindPublish:
		return "publish error"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by the command handlers and the counter.
//
// errors.Is matches an Error against a target Error by Kind, then by Message
// and Attribute when the target sets them, so the sentinels below can be used
// to test for a whole kind or for one specific failure.
type Error struct {
	Kind Kind

	// Message is the caller-visible description (e.g. "missing list id").
	Message string

	// Attribute names the offending record attribute for decode errors.
	Attribute string

	// Err is the underlying cause, if any. It is never shown to callers.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("todo: ")
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Attribute != "" {
		b.WriteString(" ")
		b.WriteString(e.Attribute)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Message != "" && t.Message != e.Message {
		return false
	}
	if t.Attribute != "" && t.Attribute != e.Attribute {
		return false
	}
	return true
}

var (
	// ErrValidation matches every validation error.
	ErrValidation = &Error{Kind: KindValidation}

	// ErrStorage matches every storage error.
	ErrStorage = &Error{Kind: KindStorage}

	// ErrPublish matches every publish error.
	ErrPublish = &Error{Kind: KindPublish}

	// ErrMissingListID is returned when the list id path parameter is absent or empty.
	ErrMissingListID = &Error{Kind: KindValidation, Message: "missing list id"}

	// ErrMissingItemID is returned when the item id path parameter is absent or empty.
	ErrMissingItemID = &Error{Kind: KindValidation, Message: "missing item id"}

	// ErrInvalidBody is returned when a create body is not a JSON object with
	// string title and description.
	ErrInvalidBody = &Error{Kind: KindValidation, Message: "invalid body"}

	// ErrUnknownEventType is returned by the counter for an event it does not handle.
	ErrUnknownEventType = &Error{Kind: KindValidation, Message: "unknown event type"}

	// ErrInconsistentState is returned when deleting an item the store does not hold.
	ErrInconsistentState = &Error{Kind: KindStorage, Message: "inconsistent state"}

	// ErrMalformedRecord is returned when a deleted record cannot be decoded.
	ErrMalformedRecord = &Error{Kind: KindStorage, Message: "malformed record"}

	// ErrMissingAttribute is returned by the decode step when a required attribute is absent.
	ErrMissingAttribute = &Error{Kind: KindStorage, Message: "missing attribute"}

	// ErrInvalidAttributeType is returned by the decode step when an attribute
	// is present but not a string.
	ErrInvalidAttributeType = &Error{Kind: KindStorage, Message: "invalid attribute type"}
)

func validationError(sentinel *Error) *Error {
	return &Error{Kind: KindValidation, Message: sentinel.Message}
}

func storageError(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}
