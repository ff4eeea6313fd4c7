package chunk

import "errors"

// ErrBudgetTooSmall indicates the requested byte budget is below the minimum
// the chunker can honor while keeping multi-byte runes intact.
var ErrBudgetTooSmall = errors.New("byte budget too small")
