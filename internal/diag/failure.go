package diag

import (
	"errors"
	"fmt"
)

var (
	// ErrFilesystemAccess matches failures caused by the workspace tree being
	// unreadable or the descriptor being unwritable.
	ErrFilesystemAccess = errors.New("filesystem access error")
	// ErrMalformedConfig matches failures caused by invalid configuration.
	ErrMalformedConfig = errors.New("malformed configuration")
)

// Failure is a fatal, coded error. It unwraps to the underlying cause and
// matches one of the taxonomy sentinels via errors.Is.
type Failure struct {
	Code Code
	Path string
	Msg  string
	Err  error
}

// Fail builds a Failure.
func Fail(code Code, path, msg string, err error) *Failure {
	return &Failure{Code: code, Path: path, Msg: msg, Err: err}
}

func (f *Failure) Error() string {
	msg := f.Msg
	if msg == "" {
		msg = f.Code.Title()
	}
	if f.Path != "" {
		msg = fmt.Sprintf("%s %q", msg, f.Path)
	}
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", msg, f.Err)
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) Is(target error) bool {
	switch target {
	case ErrFilesystemAccess:
		return f.Code >= FsInfo && f.Code < DiscoverInfo
	case ErrMalformedConfig:
		return f.Code >= ConfigInfo && f.Code < 4000
	}
	return false
}

// Diagnostic converts the failure into an error-severity diagnostic.
func (f *Failure) Diagnostic() Diagnostic {
	d := Diagnostic{Severity: SevError, Code: f.Code, Message: f.Msg, Path: f.Path}
	if d.Message == "" {
		d.Message = f.Code.Title()
	}
	if f.Err != nil {
		d = d.WithNote("", f.Err.Error())
	}
	return d
}

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
