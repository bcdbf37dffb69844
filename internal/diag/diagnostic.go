package diag

// Note adds secondary context to a diagnostic, optionally bound to a path.
type Note struct {
	Path string
	Msg  string
}

// Diagnostic is a single finding produced by a pipeline stage.
// Path is relative to the workspace root (slash separated) or empty when the
// finding concerns the workspace as a whole.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Notes    []Note
}

// WithNote returns a copy of d with an extra note appended.
func (d Diagnostic) WithNote(path, msg string) Diagnostic {
	notes := make([]Note, 0, len(d.Notes)+1)
	notes = append(notes, d.Notes...)
	d.Notes = append(notes, Note{Path: path, Msg: msg})
	return d
}
