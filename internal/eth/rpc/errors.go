package rpc

import (
	"fmt"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// Error is an error object returned by the node.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match kiterr.ErrRPCError.
func (e *Error) Unwrap() error {
	return kiterr.ErrRPCError
}

// InvalidResponseError is a reply that carried neither a result nor an error
// object. Raw holds the body as received.
type InvalidResponseError struct {
	Raw string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid RPC response: %s", e.Raw)
}

// Unwrap lets errors.Is match kiterr.ErrInvalidResponse.
func (e *InvalidResponseError) Unwrap() error {
	return kiterr.ErrInvalidResponse
}

func invalidResponse(raw []byte) error {
	return &InvalidResponseError{Raw: string(raw)}
}
