package export

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies export failures.
type Kind string

const (
	KindRecordNotFound      Kind = "RecordNotFound"
	KindNoGeometryFound     Kind = "NoGeometryFound"
	KindResolutionDeadEnd   Kind = "ResolutionDeadEnd"
	KindConversionFailed    Kind = "ConversionFailed"
	KindConversionTimeout   Kind = "ConversionTimeout"
	KindAttachmentSkipped   Kind = "AttachmentSkipped"
	KindEmptyAssemblyResult Kind = "EmptyAssemblyResult"
	KindInternal            Kind = "Internal"
)

// HTTPStatus maps the kind onto a response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindRecordNotFound:
		return http.StatusNotFound
	case KindNoGeometryFound, KindEmptyAssemblyResult:
		return http.StatusUnprocessableEntity
	case KindConversionTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified export failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
