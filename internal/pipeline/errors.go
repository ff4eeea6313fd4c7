package pipeline

import "errors"

// ErrEmptyNarration indicates the request carried no usable narration text.
// Rejected before any synthesis work is performed.
var ErrEmptyNarration = errors.New("narration text is empty")

// ErrInternal wraps an unexpected panic caught at the pipeline boundary.
var ErrInternal = errors.New("internal pipeline failure")
