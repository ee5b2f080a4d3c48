package collector

import "errors"

// ErrAlreadyRunning is returned when Start is called on a running scheduler.
var ErrAlreadyRunning = errors.New("collector: scheduler already running")
