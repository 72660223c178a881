package source

// PathTable hands out one shared string per distinct file path so that a
// log with many diagnostics in the same file does not hold a copy per
// diagnostic. Not safe for concurrent use.
type PathTable struct {
	index map[string]string
}

func NewPathTable() *PathTable {
	return &PathTable{index: make(map[string]string)}
}

// Intern returns the normalised, shared form of raw.
func (t *PathTable) Intern(raw []byte) string {
	// the map lookup with string(raw) does not allocate
	if p, ok := t.index[string(raw)]; ok {
		return p
	}
	key := string(raw)
	p := NormalizePath(key)
	t.index[key] = p
	return p
}

// Len returns the number of distinct raw paths seen.
func (t *PathTable) Len() int {
	return len(t.index)
}

// InternString is Intern for a string key.
func (t *PathTable) InternString(raw string) string {
	if p, ok := t.index[raw]; ok {
		return p
	}
	p := NormalizePath(raw)
	t.index[raw] = p
	return p
}
