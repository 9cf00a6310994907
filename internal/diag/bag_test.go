package diag

import (
	"testing"

	"ormsynth/internal/source"
)

func TestBagSortAndLimit(t *testing.T) {
	bag := NewBag(3)
	late := source.Span{File: 1, Line: 9, Col: 1}
	early := source.Span{File: 1, Line: 2, Col: 4}

	bag.Add(NewError(SemaRegistryMiss, late, "late"))
	bag.Add(New(SevWarning, SemaUnresolvedName, early, "warn"))
	bag.Add(NewError(SemaBoundNameNotFound, early, "error"))
	if bag.Add(NewError(SemaBoundNameNotFound, early, "overflow")) {
		t.Fatalf("expected bag to refuse diagnostics past its limit")
	}
	if bag.Dropped() != 1 {
		t.Fatalf("Dropped = %d, want 1", bag.Dropped())
	}

	bag.Sort()
	items := bag.Items()
	if items[0].Message != "error" || items[1].Message != "warn" || items[2].Message != "late" {
		t.Fatalf("unexpected order: %q %q %q", items[0].Message, items[1].Message, items[2].Message)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
	if got := bag.Count(SemaBoundNameNotFound); got != 1 {
		t.Fatalf("expected 1 bound-name diagnostic, got %d", got)
	}
}

func TestDedupReporterSuppressesRepeats(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	span := source.Span{File: 2, Line: 1, Col: 1}

	for range 3 {
		Emit(r, NewError(SemaIncompleteDefinition, span, "Q is incomplete"))
	}
	Emit(r, NewError(SemaIncompleteDefinition, span, "M is incomplete"))

	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	if got := SemaRegistryMiss.ID(); got != "SEM3003" {
		t.Fatalf("unexpected id %q", got)
	}
	if got := CfgInvalid.ID(); got != "CFG5001" {
		t.Fatalf("unexpected id %q", got)
	}
}

func TestWithNoteCopies(t *testing.T) {
	base := NewError(SemaIterationLimit, source.Span{}, "stuck").WithNote(source.Span{File: 1}, "a")
	x := base.WithNote(source.Span{File: 2}, "b")
	y := base.WithNote(source.Span{File: 3}, "c")
	if len(base.Notes) != 1 || x.Notes[1].Msg != "b" || y.Notes[1].Msg != "c" {
		t.Fatalf("notes aliased: base=%v x=%v y=%v", base.Notes, x.Notes, y.Notes)
	}
	if SevWarning.String() != "WARNING" || Severity(9).String() != "UNKNOWN" {
		t.Fatalf("unexpected severity names")
	}
}
