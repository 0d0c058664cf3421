package checkin

import "errors"

var (
	ErrStepsIncomplete  = errors.New("required check-in steps not completed")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
