// File: iomgr/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Typed error hierarchy for the io manager runtime.

package iomgr

import "github.com/momentics/iomgr/api"

// Error codes specific to the io manager runtime, layered on top of api.ErrorCode.
const (
	ErrCodeConfiguration api.ErrorCode = 100 + iota
	ErrCodeInitialization
	ErrCodeCapacityExhausted
	ErrCodeDeliveryFailure
	ErrCodeMulticastZeroTargets
)

// NewConfigurationError reports a call made in an invalid manager state or
// with an invalid parameter (e.g. an unmatched thread_regex).
func NewConfigurationError(msg string) *api.Error {
	return api.NewError(ErrCodeConfiguration, msg)
}

// NewInitializationFailure reports a fatal failure to bring up the polled
// environment or the worker reactor set.
func NewInitializationFailure(msg string) *api.Error {
	return api.NewError(ErrCodeInitialization, msg)
}

// NewCapacityExhaustedError reports that the thread-index reserver has no
// free slots left under max_io_threads.
func NewCapacityExhaustedError(msg string) *api.Error {
	return api.NewError(ErrCodeCapacityExhausted, msg)
}

// NewDeliveryFailureError reports a send_msg that found no live recipient.
func NewDeliveryFailureError(msg string) *api.Error {
	return api.NewError(ErrCodeDeliveryFailure, msg)
}

// NewMulticastZeroTargetsError reports a multicast_msg that matched no
// io_thread at all.
func NewMulticastZeroTargetsError(msg string) *api.Error {
	return api.NewError(ErrCodeMulticastZeroTargets, msg)
}
