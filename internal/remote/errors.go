package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkUnreachable covers transport failures and timeouts. The
	// remote side may or may not have seen the request.
	ErrNetworkUnreachable = errors.New("network unreachable")

	// ErrMalformedResponse means the authority declared success but the
	// expected body field was absent, or the body could not be decoded.
	ErrMalformedResponse = errors.New("malformed server response")
)

// RejectionError is an authoritative business-rule rejection (bad
// credentials, insufficient funds, unknown recipient). Its message is shown
// to the user verbatim, never reinterpreted.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("rejected by server: %s", e.Message)
}

// IsRejection reports whether err carries a server-side rejection and
// returns it when so.
func IsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
