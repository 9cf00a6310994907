package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// Bag collects a program's diagnostics up to a limit and counts what it had
// to refuse.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped reports how many diagnostics Add refused.
func (b *Bag) Dropped() int { return b.dropped }

// HasErrors: есть ли среди принятых диагностик хотя бы одна ошибка
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает read-only slice диагностик.
func (b *Bag) Items() []Diagnostic { return b.items }

// Count returns how many diagnostics carry code.
func (b *Bag) Count(code Code) int {
	n := 0
	for i := range b.items {
		if b.items[i].Code == code {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by position, then severity (desc), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		switch {
		case x.Primary != y.Primary:
			if x.Primary.Before(y.Primary) {
				return -1
			}
			return 1
		case x.Severity != y.Severity:
			return cmp.Compare(y.Severity, x.Severity)
		}
		return cmp.Compare(x.Code, y.Code)
	})
}
