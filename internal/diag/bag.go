package diag

import (
	"cmp"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Bag collects diagnostics of one input. The cap only limits what is kept
// for display; Add still counts what it drops, so error queries see every
// diagnostic ever reported.
type Bag struct {
	items   []Diagnostic
	max     uint16 // 0: без ограничения
	dropped [SevError + 1]int
}

// NewBag creates a bag holding at most limit diagnostics. limit <= 0 means
// no limit; values above uint16 are clamped.
func NewBag(limit int) *Bag {
	var capped uint16
	if limit > 0 {
		var err error
		if capped, err = safecast.Conv[uint16](limit); err != nil {
			capped = ^uint16(0)
		}
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max(limit, 0), 64)),
		max:   capped,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не сохранена (достигнут лимит);
// такая диагностика всё равно учитывается в HasErrors/CountErrors.
func (b *Bag) Add(d Diagnostic) bool {
	if b.full() {
		b.dropped[min(d.Severity, SevError)]++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) full() bool {
	return b.max != 0 && len(b.items) >= int(b.max)
}

// Cap returns the display limit, 0 when unlimited.
func (b *Bag) Cap() uint16 {
	return b.max
}

// Dropped returns how many diagnostics did not fit under the cap.
func (b *Bag) Dropped() int {
	n := 0
	for _, c := range b.dropped {
		n += c
	}
	return n
}

// HasErrors возвращает true, если была хотя бы одна диагностика с Severity >= Error,
// включая отброшенные лимитом.
func (b *Bag) HasErrors() bool {
	return b.CountErrors() > 0
}

// HasWarnings возвращает true, если была хотя бы одна диагностика с Severity >= Warning.
func (b *Bag) HasWarnings() bool {
	return b.dropped[SevWarning] > 0 || b.dropped[SevError] > 0 ||
		slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevWarning })
}

// CountErrors returns the number of SevError diagnostics reported,
// kept or dropped.
func (b *Bag) CountErrors() int {
	n := b.dropped[SevError]
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			n++
		}
	}
	return n
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for sev, n := range other.dropped {
		b.dropped[sev] += n
	}
	total := len(b.items) + len(other.items)
	if b.max != 0 && total > int(b.max) {
		if limit, err := safecast.Conv[uint16](total); err == nil {
			b.max = limit
		} else {
			b.max = ^uint16(0)
		}
	}
	keep := len(other.items)
	if b.max != 0 {
		keep = min(int(b.max)-len(b.items), keep)
	}
	b.items = append(b.items, other.items[:keep]...)
	for _, d := range other.items[keep:] {
		b.dropped[min(d.Severity, SevError)]++
	}
}

// Sort сортирует диагностики по: path, file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(di, dj Diagnostic) int {
		return cmp.Or(
			cmp.Compare(di.Path, dj.Path),
			cmp.Compare(di.Primary.File, dj.Primary.File),
			cmp.Compare(di.Primary.Start, dj.Primary.Start),
			cmp.Compare(di.Primary.End, dj.Primary.End),
			cmp.Compare(dj.Severity, di.Severity),
			cmp.Compare(di.Code, dj.Code),
		)
	})
}

// простая дедупликация (по Code+Primary+Path)
func (b *Bag) Dedup() {
	seen := make(map[string]struct{}, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), d.Primary, d.Path)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	b.items = out
}
