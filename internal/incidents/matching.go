package incidents

import (
	"strings"

	"golang.org/x/text/cases"
)

// Vocabulary is a fixed list of category labels. Matching returns the declared
// label, so callers always group under the canonical spelling.
type Vocabulary struct {
	labels        []string
	index         map[string]int
	caseSensitive bool
}

// NewVocabulary builds a vocabulary matched case-insensitively (Unicode case folding)
func NewVocabulary(labels ...string) Vocabulary {
	return newVocabulary(false, labels)
}

// NewExactVocabulary builds a vocabulary matched by exact string equality
func NewExactVocabulary(labels ...string) Vocabulary {
	return newVocabulary(true, labels)
}

func newVocabulary(caseSensitive bool, labels []string) Vocabulary {
	v := Vocabulary{
		labels:        append([]string(nil), labels...),
		index:         make(map[string]int, len(labels)),
		caseSensitive: caseSensitive,
	}
	for i, l := range labels {
		v.index[v.key(l)] = i
	}
	return v
}

func (v Vocabulary) key(s string) string {
	if v.caseSensitive {
		return s
	}
	return foldKey(s)
}

// Canonical returns the declared label matching value
func (v Vocabulary) Canonical(value string) (string, bool) {
	i, ok := v.index[v.key(value)]
	if !ok {
		return "", false
	}
	return v.labels[i], true
}

// Contains reports whether value matches a label
func (v Vocabulary) Contains(value string) bool {
	_, ok := v.index[v.key(value)]
	return ok
}

// Labels returns the labels in declaration order
func (v Vocabulary) Labels() []string {
	return append([]string(nil), v.labels...)
}

// FoldEqual is the case-insensitive equality used at every matching boundary
func FoldEqual(a, b string) bool {
	return foldKey(a) == foldKey(b)
}

// foldKey trims and case-folds s. A Caser keeps state, so one is made per call.
func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

var (
	// SpeciesOfInterest is the species whitelist, in presentation order
	SpeciesOfInterest = NewVocabulary("White shark", "Bull shark", "Tiger shark", "Mako shark", "Grey reef")

	// AttackTypes is the attack type whitelist for the age-by-type table
	AttackTypes = NewExactVocabulary("Watercraft", "Sea Disaster", "Provoked", "Unprovoked")

	// FatalityFlags are the accepted values of the fatal column
	FatalityFlags = NewVocabulary("N", "Y")
)
