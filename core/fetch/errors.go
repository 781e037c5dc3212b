package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindHTTP is a network error or a non-2xx response.
	KindHTTP Kind = iota
	// KindTimeout is a fetch that hit its deadline.
	KindTimeout
	// KindNavigation is a browser that could not load or render the page.
	KindNavigation
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrHTTP       = errors.New("http error")
	ErrTimeout    = errors.New("timeout")
	ErrNavigation = errors.New("navigation error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindTimeout:
		return ErrTimeout
	case KindNavigation:
		return ErrNavigation
	default:
		return ErrHTTP
	}
}

// Error is a typed fetch failure for one URL.
type Error struct {
	Kind   Kind
	URL    string
	Status int // HTTP status when Kind is KindHTTP and a response arrived
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindTimeout:
		return fmt.Sprintf("timed out loading %s", e.URL)
	case e.Kind == KindHTTP && e.Status != 0:
		return fmt.Sprintf("unexpected status %d for %s", e.Status, e.URL)
	case e.Err != nil:
		return fmt.Sprintf("%v loading %s: %v", e.Kind.sentinel(), e.URL, e.Err)
	default:
		return fmt.Sprintf("%v loading %s", e.Kind.sentinel(), e.URL)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTimeout) and friends match by kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// wrap converts err into an *Error, promoting deadline and network
// timeouts to KindTimeout.
func wrap(kind Kind, url string, err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	if isTimeout(err) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, URL: url, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
