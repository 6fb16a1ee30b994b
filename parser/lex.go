package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/neta767/asm24/isa"
)

// Sentinel errors returned by ParseIntList; the caller (first pass)
// turns these into positioned diagnostics with the surrounding
// directive context.
var (
	errEmptyList     = errors.New("no values given")
	errLeadingComma  = errors.New("leading comma")
	errTrailingComma = errors.New("trailing comma")
	errDoubleComma   = errors.New("missing value between commas")
	errBadInteger    = errors.New("invalid integer")
)

// TrimWhitespace trims leading and trailing whitespace, mirroring the
// original assembler's trim_whitespace helper.
func TrimWhitespace(s string) string {
	return strings.TrimSpace(s)
}

// ContainsWhitespace reports whether s has any interior whitespace
// once leading/trailing space is trimmed — i.e. whether it is more
// than one word.
func ContainsWhitespace(s string) bool {
	return strings.IndexFunc(strings.TrimSpace(s), unicode.IsSpace) != -1
}

// FirstWord returns the first whitespace-delimited token of s and the
// remainder of the line starting right after it, with leading spaces
// and tabs removed (trailing whitespace is kept).
func FirstWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i == -1 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

// IsStandaloneWord reports whether trimmed starts with word as its
// entire first token — i.e. word appears, and is followed only by
// whitespace or end of line (so "mcroend" matches but "mcroendx"
// does not).
func IsStandaloneWord(trimmed, word string) bool {
	if !strings.HasPrefix(trimmed, word) {
		return false
	}
	rest := trimmed[len(word):]
	if rest == "" {
		return true
	}
	return unicode.IsSpace(rune(rest[0]))
}

// NameKind selects which collision/length rules ValidName applies.
type NameKind int

const (
	KindLabel NameKind = iota
	KindMacro
	KindEntry
	KindOperand
)

// validNameShape reports whether name satisfies the bare shape rules:
// 1..31 chars, first alphabetic, rest alphanumeric (plus underscore
// for macro names).
func validNameShape(name string, kind NameKind) bool {
	if name == "" || len(name) > isa.MaxNameLength+1 {
		return false
	}
	r := []rune(name)
	if !unicode.IsLetter(r[0]) {
		return false
	}
	for _, c := range r[1:] {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			continue
		}
		if kind == KindMacro && c == '_' {
			continue
		}
		return false
	}
	return true
}

// ValidName checks that name is shaped like a legal identifier and is
// not a reserved word (opcode, register, directive or macro keyword).
// It does not check for collisions against the symbol or macro
// tables — callers do that with the specific error message each
// collision case requires.
func ValidName(name string, kind NameKind) bool {
	if !validNameShape(name, kind) {
		return false
	}
	if isa.IsReservedWord(name) {
		return false
	}
	return true
}

// ParseIntList parses a comma-separated list of signed integers,
// rejecting a leading comma, a trailing comma, a doubled comma, and
// any token that isn't a valid integer. Whitespace around each token
// is ignored.
func ParseIntList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errEmptyList
	}
	if strings.HasPrefix(s, ",") {
		return nil, errLeadingComma
	}
	if strings.HasSuffix(s, ",") {
		return nil, errTrailingComma
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		tok := strings.TrimSpace(p)
		if tok == "" {
			return nil, errDoubleComma
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, errBadInteger
		}
		out = append(out, n)
	}
	return out, nil
}
