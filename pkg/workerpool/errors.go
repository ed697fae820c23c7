package workerpool

import "errors"

var (
	// ErrAdmissionTimeout is returned when no slot frees up within the admission timeout.
	ErrAdmissionTimeout = errors.New("workerpool: admission timed out")
)
