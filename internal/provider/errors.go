package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Provider failure taxonomy. The orchestrator treats every one of these as
// "this provider contributed zero candidates this round"; none of them abort
// a level or an acquisition.
var (
	ErrTimeout     = errors.New("provider: timeout")
	ErrRateLimited = errors.New("provider: rate limited upstream")
	ErrMalformed   = errors.New("provider: malformed response")
	ErrTransport   = errors.New("provider: transport failure")
)

// statusCoder is implemented by the pkg clients' StatusError types.
type statusCoder interface {
	error
	StatusCode() int
}

// Classify maps a raw client error onto the provider taxonomy so the
// orchestrator can log failures uniformly. Errors already carrying a taxonomy
// sentinel pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrMalformed) || errors.Is(err, ErrTransport) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s", ErrTimeout, err)
	}

	var statusErr statusCoder
	if errors.As(err, &statusErr) {
		switch code := statusErr.StatusCode(); {
		case code == 429:
			return fmt.Errorf("%w: %s", ErrRateLimited, err)
		case code >= 500 || code == 408:
			return fmt.Errorf("%w: %s", ErrTransport, err)
		default:
			return fmt.Errorf("%w: %s", ErrMalformed, err)
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return fmt.Errorf("%w: %s", ErrTransport, err)
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
	} {
		if strings.Contains(msg, p) {
			return fmt.Errorf("%w: %s", ErrTransport, err)
		}
	}

	return fmt.Errorf("%w: %s", ErrTransport, err)
}
