package diag

// Reporter: минимальный контракт получения диагностик от стадий.
// Реализации: BagReporter (кладёт в Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, path string, msg string, notes []Note)
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, path, msg string) {
	if r != nil {
		r.Report(code, SevError, path, msg, nil)
	}
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, path, msg string) {
	if r != nil {
		r.Report(code, SevWarning, path, msg, nil)
	}
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, path, msg string) {
	if r != nil {
		r.Report(code, SevInfo, path, msg, nil)
	}
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, path string, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Path: path, Notes: notes,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, string, string, []Note) {}
