package relay

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired    = errors.New("API key required")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrInvalidInput    = errors.New("invalid generation input")
)

// UpstreamError is a vendor failure: a non-2xx response, a transport error or
// an error event inside the stream.
type UpstreamError struct {
	Provider   Provider
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream error"
	}
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s upstream error: %v", e.Provider, e.Err)
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s upstream error: status=%d body=%s", e.Provider, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s upstream error: status=%d", e.Provider, e.StatusCode)
	default:
		return fmt.Sprintf("%s upstream error: %s", e.Provider, e.Body)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
