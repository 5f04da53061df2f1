package metrics

import (
	"errors"
)

// Sentinel error kinds for the metrics manager.
var (
	ErrObserveFailed = errors.New("metrics observe failed")
)
