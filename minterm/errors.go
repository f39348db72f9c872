package minterm

import "errors"

// ErrTooManyAP is returned when 2^|AP| would overflow the index space the
// powerset/bitset machinery relies on (spec.md §7 "Too many AP").
var ErrTooManyAP = errors.New("minterm: too many atomic propositions")
