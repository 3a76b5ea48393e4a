// Package errors provides structured error handling for ethkit.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input or caller configuration
	ExitData     = 3 // Corrupted or undecodable data
	ExitNotFound = 4 // Resource not found
	ExitNetwork  = 5 // Remote node or transport failure
)

// Error is the structured error type for ethkit.
type Error struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *Error) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for Error.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &Error{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &Error{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &Error{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	// Codec errors.
	ErrDataCorrupted = &Error{
		Code:     "DATA_CORRUPTED",
		Message:  "data corrupted",
		ExitCode: ExitData,
	}

	ErrIncompatibleToEncode = &Error{
		Code:     "INCOMPATIBLE_TO_ENCODE",
		Message:  "value is incompatible to encode",
		ExitCode: ExitInput,
	}

	ErrUnknownType = &Error{
		Code:     "UNKNOWN_TYPE",
		Message:  "unknown ABI type",
		ExitCode: ExitInput,
	}

	// Entity errors.
	ErrInvalidAddress = &Error{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidChecksum = &Error{
		Code:     "INVALID_CHECKSUM",
		Message:  "invalid address checksum",
		ExitCode: ExitInput,
	}

	ErrInvalidHash = &Error{
		Code:     "INVALID_HASH",
		Message:  "invalid hash format",
		ExitCode: ExitInput,
	}

	ErrInvalidHex = &Error{
		Code:     "INVALID_HEX",
		Message:  "invalid hex string",
		ExitCode: ExitInput,
	}

	// Signing errors.
	ErrInvalidPrivateKey = &Error{
		Code:     "INVALID_PRIVATE_KEY",
		Message:  "invalid private key",
		ExitCode: ExitInput,
	}

	ErrInvalidSignature = &Error{
		Code:     "INVALID_SIGNATURE",
		Message:  "invalid signature",
		ExitCode: ExitInput,
	}

	ErrInvalidChainID = &Error{
		Code:     "INVALID_CHAIN_ID",
		Message:  "chain ID cannot be nil or negative",
		ExitCode: ExitInput,
	}

	ErrTxTypeNotSupported = &Error{
		Code:     "TX_TYPE_NOT_SUPPORTED",
		Message:  "transaction type not supported by signer",
		ExitCode: ExitInput,
	}

	ErrInvalidTransactionOptions = &Error{
		Code:     "INVALID_TRANSACTION_OPTIONS",
		Message:  "invalid transaction options",
		ExitCode: ExitInput,
	}

	// Transport errors.
	ErrRPCError = &Error{
		Code:     "RPC_ERROR",
		Message:  "node returned an error",
		ExitCode: ExitNetwork,
	}

	ErrInvalidResponse = &Error{
		Code:     "RPC_INVALID_RESPONSE",
		Message:  "invalid RPC response",
		ExitCode: ExitNetwork,
	}

	ErrNetworkError = &Error{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitNetwork,
	}

	// Config-specific errors.
	ErrConfigNotFound = &Error{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &Error{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}
)

// New creates a new Error with the given code and message.
func New(code, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// DataCorrupted reports a decode that needed more 32-byte slots than were available.
func DataCorrupted(required, received int) error {
	return WithDetails(ErrDataCorrupted, map[string]string{
		"required": strconv.Itoa(required),
		"received": strconv.Itoa(received),
	})
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var se *Error
	if errors.As(err, &se) {
		return &Error{
			Code:       se.Code,
			Message:    fmt.Sprintf("%s: %s", msg, se.Message),
			Details:    se.Details,
			Suggestion: se.Suggestion,
			Cause:      err,
			ExitCode:   se.ExitCode,
		}
	}

	return &Error{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return &Error{
			Code:       se.Code,
			Message:    se.Message,
			Details:    details,
			Suggestion: se.Suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &Error{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return &Error{
			Code:       se.Code,
			Message:    se.Message,
			Details:    se.Details,
			Suggestion: suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &Error{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var se *Error
	if errors.As(err, &se) {
		return se.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return "GENERAL_ERROR"
}

// Details returns the details attached to an error, or nil.
func Details(err error) map[string]string {
	var se *Error
	if errors.As(err, &se) {
		return se.Details
	}
	return nil
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
