package baseline

// Set counts baseline fingerprints. A fingerprint recorded n times hides at
// most n matching findings, so a second identical finding in the same
// function is still reported.
type Set struct {
	counts map[string]int
	size   int
}

func NewSet(entries []Entry) *Set {
	s := &Set{counts: make(map[string]int, len(entries)), size: len(entries)}
	for _, e := range entries {
		s.counts[e.Fingerprint()]++
	}
	return s
}

func (s *Set) Len() int {
	return s.size
}

// Matcher returns a single-use matcher; each Match consumes one occurrence.
func (s *Set) Matcher() *Matcher {
	remaining := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		remaining[k] = v
	}
	return &Matcher{remaining: remaining}
}

type Matcher struct {
	remaining map[string]int
}

// Match reports whether e is covered by the baseline.
func (m *Matcher) Match(e Entry) bool {
	key := e.Fingerprint()
	if m.remaining[key] <= 0 {
		return false
	}
	m.remaining[key]--
	return true
}
