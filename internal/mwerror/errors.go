// Package mwerror defines the error types surfaced by the MoneyWorks client.
// Every type unwraps to one of the sentinel errors so callers can branch with
// errors.Is without caring about the concrete type.
package mwerror

import (
	"errors"
	"fmt"
)

var (
	ErrConfig          = errors.New("configuration error")
	ErrTransport       = errors.New("transport error")
	ErrDecode          = errors.New("decode error")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ConfigError is returned when the configuration file is missing, unreadable
// or lacks a required option.
type ConfigError struct {
	Path   string
	Option string
	Err    error
}

func (e *ConfigError) Error() string {
	prefix := "config"
	if e.Path != "" {
		prefix += " " + e.Path
	}
	switch {
	case e.Option != "" && e.Err != nil:
		return fmt.Sprintf("%s: option %s: %v", prefix, e.Option, e.Err)
	case e.Option != "":
		return fmt.Sprintf("%s: missing required option %s", prefix, e.Option)
	default:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfig}
	}
	return []error{ErrConfig, e.Err}
}

// TransportError reports a failed request: either the server answered with a
// non-2xx status (StatusCode set) or the request never completed (Err set).
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// DecodeError reports malformed export XML or a date/time field that does not
// match its layout.
type DecodeError struct {
	Field string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode: field %s='%s': %v", e.Field, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}

// InvalidArgumentError is returned when a caller hands the transaction builder
// a value it cannot format.
type InvalidArgumentError struct {
	Key    string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Key, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// StatusCode extracts the HTTP status from a TransportError anywhere in err's
// chain. It returns 0 when there is none.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
