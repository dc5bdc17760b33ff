package identity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// Similarity scores two names from 0 to 100, ignoring case, punctuation, and token order.
//
// The score is the better of two indel ratios: one over the sorted tokens, and one
// over the shared tokens against each side's full token set, so an added middle
// name or second surname does not count against an otherwise identical name.
// Apostrophes are dropped inside a token ("O'Brien" reads as "obrien").
func Similarity(a, b string) int {
	return score(prepare(a), prepare(b))
}

// prepared is a name reduced to its comparison forms.
type prepared struct {
	sorted string   // sorted tokens joined by single spaces
	set    []string // sorted distinct tokens
}

func prepare(s string) prepared {
	folded := cases.Fold().String(s)
	folded = strings.Map(func(r rune) rune {
		if isApostrophe(r) {
			return -1
		}
		return r
	}, folded)

	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)

	set := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if i == 0 || tok != tokens[i-1] {
			set = append(set, tok)
		}
	}
	return prepared{sorted: strings.Join(tokens, " "), set: set}
}

func isApostrophe(r rune) bool {
	switch r {
	case '\'', '’', '‘', '`':
		return true
	}
	return false
}

// score compares two prepared names.
func score(a, b prepared) int {
	if a.sorted == "" || b.sorted == "" {
		return 0
	}
	if a.sorted == b.sorted {
		return 100
	}
	return max(ratio(a.sorted, b.sorted), tokenSetRatio(a.set, b.set))
}

// tokenSetRatio splits both token sets into the shared tokens and each side's
// remainder, then takes the best ratio among the shared part and the two
// recombined forms. A name whose tokens are a subset of the other's scores 100.
func tokenSetRatio(a, b []string) int {
	var shared, onlyA, onlyB []string
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			onlyA = append(onlyA, a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			onlyB = append(onlyB, b[j])
			j++
		default:
			shared = append(shared, a[i])
			i++
			j++
		}
	}

	sect := strings.Join(shared, " ")
	withA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(ratio(sect, withA), ratio(sect, withB), ratio(withA, withB))
}

// ratio is the indel similarity of a and b: the share of runes that survive
// when only insertions and deletions are allowed, rounded to 0-100.
func ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	common := 2 * lcsLength(ra, rb)
	return int(math.Round(100 * float64(common) / float64(total)))
}

// lcsLength returns the length of the longest common subsequence of a and b.
func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for _, ra := range a {
		for j, rb := range b {
			switch {
			case ra == rb:
				curr[j+1] = prev[j] + 1
			case prev[j+1] >= curr[j]:
				curr[j+1] = prev[j+1]
			default:
				curr[j+1] = curr[j]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// editDistance breaks ties between candidates with the same score, preferring
// the candidate whose sorted form needs the fewest edits.
func editDistance(a, b prepared) int {
	return levenshtein.ComputeDistance(a.sorted, b.sorted)
}
