package merge

import "errors"

// ErrConcatFailed indicates the external encoder could not join the chunk
// files. Callers fall back to raw concatenation; this error is logged, not
// surfaced.
var ErrConcatFailed = errors.New("audio concat failed")
