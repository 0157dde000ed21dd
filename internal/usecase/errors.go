package usecase

import "fmt"

// TrimFailure marks a segment whose clip could not be cut. In skip mode it
// becomes a warning and the segment drops out of concatenation; in abort
// mode it ends the run.
type TrimFailure struct {
	Segment int
	Err     error
}

func (e TrimFailure) Error() string { return fmt.Sprintf("trim segment %d: %v", e.Segment, e.Err) }
func (e TrimFailure) Unwrap() error { return e.Err }

// ConcatenationError is fatal: with no joined video there is nothing to pad
// or mix.
type ConcatenationError struct {
	Valid int
	Err   error
}

func (e ConcatenationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("concatenate %d clips: %v", e.Valid, e.Err)
	}
	return "no valid clips to concatenate"
}

func (e ConcatenationError) Unwrap() error { return e.Err }

// OutroSynthesisFailure never aborts a run; the unpadded video ships with a
// warning instead.
type OutroSynthesisFailure struct {
	Err error
}

func (e OutroSynthesisFailure) Error() string { return fmt.Sprintf("outro synthesis: %v", e.Err) }
func (e OutroSynthesisFailure) Unwrap() error { return e.Err }

// AudioMixError is fatal: the deliverable failed to materialize. Transcoder
// diagnostics ride along in Err.
type AudioMixError struct {
	Err error
}

func (e AudioMixError) Error() string { return fmt.Sprintf("audio mix: %v", e.Err) }
func (e AudioMixError) Unwrap() error { return e.Err }
