package format

import "errors"

// ReportedError wraps an error that has already been shown to the user,
// typically through PrintTotalFailureSummary. main only maps it to an exit code.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }

// Reported marks err as printed. A nil err stays nil.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &ReportedError{Err: err}
}

// IsReported reports whether err was already printed.
func IsReported(err error) bool {
	var r *ReportedError
	return errors.As(err, &r)
}
