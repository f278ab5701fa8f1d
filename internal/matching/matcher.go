package matching

import (
	"strings"

	"checkin-importer/internal/models"
)

type MatchMethod string

const (
	MethodNone              MatchMethod = "none"
	MethodExactEmail        MatchMethod = "exact-email"
	MethodFullName          MatchMethod = "full-name"
	MethodHonorificStripped MatchMethod = "honorific-stripped-name"
	MethodTokenMajority     MatchMethod = "token-majority"
)

// Match is the outcome of entity resolution. Person is nil iff Method is MethodNone.
type Match struct {
	Person *models.Person
	Method MatchMethod
}

func (m Match) Found() bool {
	return m.Person != nil
}

var noMatch = Match{Method: MethodNone}

type Matcher struct {
	index *PersonIndex
}

func NewMatcher(index *PersonIndex) *Matcher {
	return &Matcher{index: index}
}

// Resolve runs the tiers in order and stops at the first hit:
// email, full name, honorific-stripped name, token majority.
func (m *Matcher) Resolve(email, name string) Match {
	if p, ok := m.index.ByEmail(email); ok {
		return Match{Person: p, Method: MethodExactEmail}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return noMatch
	}

	if match, ok := m.byName(NormalizeFullName(name)); ok {
		return match
	}

	if stripped := m.index.Honorifics().Strip(name); stripped != strings.Join(strings.Fields(name), " ") {
		if match, ok := m.byName(NormalizeFullName(stripped)); ok {
			match.Method = MethodHonorificStripped
			return match
		}
	}

	if p, ok := m.tokenMajority(name); ok {
		return Match{Person: p, Method: MethodTokenMajority}
	}
	return noMatch
}

// byName tries the full-name index, then the names that lost an honorific
// when the registry was indexed.
func (m *Matcher) byName(key string) (Match, bool) {
	if p, ok := m.index.ByFullName(key); ok {
		return Match{Person: p, Method: MethodFullName}, true
	}
	if p, ok := m.index.ByStrippedName(key); ok {
		return Match{Person: p, Method: MethodHonorificStripped}, true
	}
	return noMatch, false
}

func (m *Matcher) ResolveName(name string) Match {
	return m.Resolve("", name)
}

// tokenMajority accepts the top scorer only when it strictly beats the runner-up.
func (m *Matcher) tokenMajority(name string) (*models.Person, bool) {
	votes := make(map[uint32]int)
	seen := make(map[string]struct{})
	for _, tok := range m.index.Honorifics().Tokens(name) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		bm := m.index.postings(tok)
		if bm == nil {
			continue
		}
		it := bm.Iterator()
		for it.HasNext() {
			votes[it.Next()]++
		}
	}

	var best uint32
	top, runnerUp := 0, 0
	for ord, n := range votes {
		switch {
		case n > top:
			runnerUp = top
			top, best = n, ord
		case n > runnerUp:
			runnerUp = n
		}
	}
	if top == 0 || top == runnerUp {
		return nil, false
	}
	return m.index.person(best), true
}
