package engine

import "errors"

// ErrEmptySelection is returned when a full selector scan admits nothing,
// either because every candidate was rejected or because there were no
// candidates at all. It is a terminal condition, not a crash; callers report
// it and stop.
var ErrEmptySelection = errors.New("no candidates admitted")
