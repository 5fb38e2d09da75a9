package tinylog

import "errors"

// Sentinel errors for the conditions the core spec calls out by name.
// Wrap these with fmt.Errorf("...: %w", ErrX) or utils.WrapError at the
// call site so errors.Is still matches while the message stays
// descriptive.
var (
	// ErrOutOfRange is returned by Get when seq is outside
	// (anchor_seq, front_seq].
	ErrOutOfRange = errors.New("tinylog: sequence out of range")

	// ErrEnded is returned by Append/AppendBytes/AppendBlob when the
	// feed was already terminated by a contdas packet.
	ErrEnded = errors.New("tinylog: feed has ended")

	// ErrHeaderInvalid is returned by Open when the file size disagrees
	// with the header, the header cannot be parsed, or the mids chain
	// fails to verify.
	ErrHeaderInvalid = errors.New("tinylog: header invalid")
)
