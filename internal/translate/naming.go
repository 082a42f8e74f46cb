// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package translate

import (
	"fmt"
	"strconv"
	"strings"
)

// Casing is an identifier casing rule.
type Casing string

// Supported casings. CasingDefault lets each translator pick its own.
const (
	CasingDefault  Casing = ""
	CasingPreserve Casing = "preserve"
	CasingCamel    Casing = "camel"
	CasingSnake    Casing = "snake"
	CasingPascal   Casing = "pascal"
)

// ParseCasing validates a casing name.
func ParseCasing(s string) (Casing, error) {
	switch c := Casing(strings.ToLower(s)); c {
	case CasingDefault, CasingPreserve, CasingCamel, CasingSnake, CasingPascal:
		return c, nil
	}
	return "", fmt.Errorf("unknown casing %q (want preserve, camel, snake or pascal)", s)
}

// Apply converts s using c, or fallback when c is CasingDefault.
// The result is always a valid identifier in C-like languages.
func (c Casing) Apply(s string, fallback Casing) string {
	if c == CasingDefault {
		c = fallback
	}
	var out string
	switch c {
	case CasingCamel:
		out = ToCamelCase(s)
	case CasingSnake:
		out = ToSnakeCase(s)
	case CasingPascal:
		out = ToPascalCase(s)
	default:
		out = Sanitize(s)
	}
	return SafeIdent(out)
}

func isWordRune(r byte) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isUpper(r byte) bool { return r >= 'A' && r <= 'Z' }
func isLower(r byte) bool { return r >= 'a' && r <= 'z' }

// Words splits s into words on separators, lower-to-upper transitions and
// the end of acronyms ("HTTPServer" -> "HTTP", "Server"). Digits stay with
// the preceding word. Non-ASCII characters act as separators.
func Words(s string) []string {
	var words []string
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, s[start:end])
		}
		start = -1
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isWordRune(c) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := s[i-1]
		switch {
		case isUpper(c) && isLower(prev):
			flush(i)
			start = i
		case isUpper(c) && isUpper(prev) && i+1 < len(s) && isLower(s[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(s))
	return words
}

func hasLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if isLower(s[i]) {
			return true
		}
	}
	return false
}

func capitalize(w string, lowerRest bool) string {
	if w == "" {
		return w
	}
	rest := w[1:]
	if lowerRest {
		rest = strings.ToLower(rest)
	}
	return strings.ToUpper(w[:1]) + rest
}

// ToPascalCase converts s to PascalCase. Acronyms inside mixed-case input
// are kept ("userID" -> "UserID"); all-caps input is normalized
// ("HELLO_WORLD" -> "HelloWorld").
func ToPascalCase(s string) string {
	lowerRest := !hasLower(s)
	var sb strings.Builder
	for _, w := range Words(s) {
		sb.WriteString(capitalize(w, lowerRest))
	}
	return sb.String()
}

// ToCamelCase converts s to camelCase.
func ToCamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	lowerRest := !hasLower(s)
	var sb strings.Builder
	sb.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		sb.WriteString(capitalize(w, lowerRest))
	}
	return sb.String()
}

// ToSnakeCase converts s to snake_case.
func ToSnakeCase(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// ToScreamingSnakeCase converts s to SCREAMING_SNAKE_CASE.
func ToScreamingSnakeCase(s string) string {
	return strings.ToUpper(ToSnakeCase(s))
}

// Sanitize replaces every character that is not an ASCII letter, digit or
// underscore with an underscore.
func Sanitize(s string) string {
	b := []byte(s)
	for i, c := range b {
		if !isWordRune(c) && c != '_' {
			b[i] = '_'
		}
	}
	return string(b)
}

// SafeIdent makes s usable as an identifier: empty input becomes "_" and a
// leading digit gets an underscore prefix.
func SafeIdent(s string) string {
	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		return "_" + s
	}
	return s
}

// IsIdentifier reports whether s is a plain ASCII identifier.
func IsIdentifier(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWordRune(s[i]) && s[i] != '_' && s[i] != '$' {
			return false
		}
	}
	return true
}

// Keywords is a set of reserved identifiers.
type Keywords map[string]bool

// NewKeywords builds a keyword set.
func NewKeywords(words ...string) Keywords {
	k := make(Keywords, len(words))
	for _, w := range words {
		k[w] = true
	}
	return k
}

// Escape appends an underscore to reserved identifiers.
func (k Keywords) Escape(s string) string {
	if k[s] {
		return s + "_"
	}
	return s
}

// Namer hands out identifiers that are unique within one scope, adding a
// numeric suffix on collision. With fold set, names differing only in case
// collide too.
type Namer struct {
	taken map[string]bool
	fold  bool
}

// NewNamer creates a Namer with the given names already taken.
func NewNamer(fold bool, taken ...string) *Namer {
	n := &Namer{taken: make(map[string]bool), fold: fold}
	for _, t := range taken {
		n.taken[n.key(t)] = true
	}
	return n
}

func (n *Namer) key(s string) string {
	if n.fold {
		return strings.ToLower(s)
	}
	return s
}

// Name returns base, or base followed by the smallest suffix from 2 up
// that is still free, and marks the result taken.
func (n *Namer) Name(base string) string {
	name := base
	for i := 2; n.taken[n.key(name)]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.taken[n.key(name)] = true
	return name
}
