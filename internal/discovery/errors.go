package discovery

import "errors"

var (
	ErrInvalidURL   = errors.New("invalid server URL")
	ErrUnauthorized = errors.New("credentials rejected by server")
	ErrNetwork      = errors.New("server unreachable")
	ErrProtocol     = errors.New("unexpected response from server")
)

// FailureMessage is the single notice shown for every discovery failure.
const FailureMessage = "Failed to connect! Please check the URL, username, and password."

// Kind names the failure class of a Discover error for logging.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	default:
		return "unknown"
	}
}
