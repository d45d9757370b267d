package rpc

import "errors"

// Errors
var (
	ErrWireType   = errors.New("unexpected wire type")
	ErrNotMessage = errors.New("value is not an rpc message")
)
