package domain

import (
	"errors"
	"fmt"
)

var (
	// No active instance or stored configuration for (tenant, template).
	ErrConfigurationMissing = errors.New("integration configuration missing")

	// Protocol client construction failed; nothing was cached.
	ErrConnectionFailure = errors.New("connection failure")

	// Token acquisition failed; token cache stays empty.
	ErrAuthenticationFailure = errors.New("authentication failure")

	// The remote call failed in transport or the vendor reported a
	// non-success status.
	ErrRemoteInvocation = errors.New("remote invocation error")

	// Payload shape was unexpected. Not a remote failure for
	// usage-tracking purposes.
	ErrParse = errors.New("response parse error")
)

// VendorError carries the status code and message a vendor returned
// alongside a non-success Status field.
type VendorError struct {
	Code    string
	Message string
}

func (e *VendorError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vendor returned status %s", e.Code)
	}
	return fmt.Sprintf("vendor returned status %s: %s", e.Code, e.Message)
}

func (e *VendorError) Unwrap() error {
	return ErrRemoteInvocation
}

// ErrorStatusCode extracts a machine-readable status code from an error
// chain for the envelope's StatusCode field.
func ErrorStatusCode(err error) string {
	var ve *VendorError
	if errors.As(err, &ve) {
		return ve.Code
	}

	switch {
	case errors.Is(err, ErrConfigurationMissing):
		return "CONFIG_MISSING"
	case errors.Is(err, ErrConnectionFailure):
		return "CONNECTION_FAILURE"
	case errors.Is(err, ErrAuthenticationFailure):
		return "AUTH_FAILURE"
	case errors.Is(err, ErrParse):
		return "PARSE_ERROR"
	case errors.Is(err, ErrRemoteInvocation):
		return "REMOTE_ERROR"
	}
	return ""
}
