// Package matcher compiles the user-supplied patterns gradesync accepts:
// regular expressions that recognize assignment labels and doublestar globs
// that select export files.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind selects how a pattern source is interpreted.
type Kind int

const (
	Glob Kind = iota
	Regex
	// Auto picks Regex when the source uses regex syntax, Glob otherwise.
	Auto
)

func (k Kind) String() string {
	switch k {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	}
	return "unknown"
}

// Options tune compilation.
type Options struct {
	CaseInsensitive bool
	// Anchored makes a regex match only at the start of the input.
	Anchored bool
}

// Pattern is a compiled pattern. It is immutable and safe for concurrent use.
type Pattern struct {
	source string
	kind   Kind
	fold   bool
	re     *regexp.Regexp
	glob   string
}

// Compile compiles source as kind.
func Compile(kind Kind, source string, opts Options) (*Pattern, error) {
	if kind == Auto {
		kind = Detect(source)
	}
	p := &Pattern{source: source, kind: kind, fold: opts.CaseInsensitive}

	switch kind {
	case Glob:
		p.glob = source
		if p.fold {
			p.glob = strings.ToLower(source)
		}
		if !doublestar.ValidatePattern(p.glob) {
			return nil, fmt.Errorf("invalid glob pattern %q", source)
		}
	case Regex:
		expr := source
		if opts.Anchored && !strings.HasPrefix(expr, "^") {
			expr = "^(?:" + expr + ")"
		}
		if p.fold {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", source, err)
		}
		p.re = re
	default:
		return nil, fmt.Errorf("unsupported pattern kind %v", kind)
	}
	return p, nil
}

// MustCompile is Compile for patterns known to be valid.
func MustCompile(kind Kind, source string, opts Options) *Pattern {
	p, err := Compile(kind, source, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// Find returns the leftmost regex match, or the whole input when a glob
// matches it.
func (p *Pattern) Find(input string) (string, bool) {
	if p.kind == Glob {
		s := input
		if p.fold {
			s = strings.ToLower(s)
		}
		if ok, _ := doublestar.Match(p.glob, s); ok {
			return input, true
		}
		return "", false
	}
	loc := p.re.FindStringIndex(input)
	if loc == nil {
		return "", false
	}
	return input[loc[0]:loc[1]], true
}

// Match reports whether Find succeeds.
func (p *Pattern) Match(input string) bool {
	_, ok := p.Find(input)
	return ok
}

// Filter keeps the inputs that match, in order.
func (p *Pattern) Filter(inputs ...string) []string {
	var out []string
	for _, in := range inputs {
		if p.Match(in) {
			out = append(out, in)
		}
	}
	return out
}

// Kind is the resolved kind, never Auto.
func (p *Pattern) Kind() Kind { return p.kind }

func (p *Pattern) String() string { return p.source }

// Detect guesses the kind of an unlabeled pattern.
func Detect(source string) Kind {
	for _, tell := range []string{"^", "$", `\d`, `\w`, `\s`, `\D`, `\W`, `\S`, "(?", "+", "|", "(", ")"} {
		if strings.Contains(source, tell) {
			return Regex
		}
	}
	return Glob
}

// Set is an ordered list of patterns; the first match wins.
type Set []*Pattern

// CompileSet compiles every source as kind.
func CompileSet(kind Kind, sources []string, opts Options) (Set, error) {
	set := make(Set, 0, len(sources))
	for _, src := range sources {
		p, err := Compile(kind, src, opts)
		if err != nil {
			return nil, err
		}
		set = append(set, p)
	}
	return set, nil
}

// Find returns the match of the first pattern that matches input.
func (s Set) Find(input string) (string, bool) {
	for _, p := range s {
		if found, ok := p.Find(input); ok {
			return found, true
		}
	}
	return "", false
}

// Match reports whether any pattern matches.
func (s Set) Match(input string) bool {
	_, ok := s.Find(input)
	return ok
}

// Sources returns the pattern sources in evaluation order.
func (s Set) Sources() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.source
	}
	return out
}
