package diag

import "ormsynth/internal/source"

// Reporter - минимальный контракт получения диагностик.
// BagReporter складывает их в Bag, DedupReporter отсекает повторы.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// Emit forwards d to r. A nil reporter drops it.
func Emit(r Reporter, d Diagnostic) {
	if r == nil {
		return
	}
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}

// BagReporter writes into Bag; a nil Bag drops everything.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
	}
}
