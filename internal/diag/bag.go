package diag

// Bag keeps diagnostics in the order stages reported them. Once limit is
// reached further diagnostics are dropped.
type Bag struct {
	items []Diagnostic
	limit int
}

// NewBag returns a Bag holding at most limit diagnostics; limit <= 0 means
// no limit.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

// Add reports false when the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.limit > 0 && len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) worst() (Severity, bool) {
	if len(b.items) == 0 {
		return 0, false
	}
	w := b.items[0].Severity
	for i := 1; i < len(b.items); i++ {
		w = max(w, b.items[i].Severity)
	}
	return w, true
}

func (b *Bag) HasErrors() bool {
	w, ok := b.worst()
	return ok && w.Fails()
}

func (b *Bag) HasWarnings() bool {
	w, ok := b.worst()
	return ok && w >= SevWarning
}

func (b *Bag) Len() int { return len(b.items) }

// Items shares the backing array; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }
