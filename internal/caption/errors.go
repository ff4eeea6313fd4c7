package caption

import "errors"

// ErrUnknownStyle indicates an unsupported subtitle output style.
var ErrUnknownStyle = errors.New("unknown caption style")

// ErrMismatchedTimeline indicates the number of timeline spans does not match
// the number of caption entries.
var ErrMismatchedTimeline = errors.New("timeline does not match caption entries")
