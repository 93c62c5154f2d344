// Package strip removes line and block comments from C-family source text
// without a language parser.
//
// Stripping runs in three passes:
//
//  1. Protect: every single- or double-quoted literal is swapped for an
//     index-tagged placeholder so comment markers inside strings survive.
//  2. Strip: trailing // comments and /* */ blocks are removed, whitespace-only
//     lines are blanked, leading blank lines dropped and runs of blank lines
//     collapsed to one.
//  3. Restore: placeholders are replaced with the original literal text.
//
// Quote matching is not escape-aware: a literal such as "a\"b" closes at the
// escaped quote. Regular expressions (which contain quotes but are not string
// literals) are not recognized either.
package strip

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholder delimits protected literal indices in the intermediate text.
// It is the ASCII "end of medium" control character, which does not occur in
// ordinary source files.
const Placeholder = '\x19'

var (
	lineComment    = regexp.MustCompile(`\s*//[^\r\n]*`)
	blockComment   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	spacesOnlyLine = regexp.MustCompile(`(?m)^ +$`)
	leadingBlank   = regexp.MustCompile(`\A\n+`)
	blankRun       = regexp.MustCompile(`\n{3,}`)
	placeholderRef = regexp.MustCompile("\x19([0-9]+)\x19")
)

// Comments returns text with comments removed and quoted literals untouched.
func Comments(text string) string {
	protected, literals := protect(text)

	out := lineComment.ReplaceAllString(protected, "")
	out = blockComment.ReplaceAllString(out, "")
	out = spacesOnlyLine.ReplaceAllString(out, "")
	out = leadingBlank.ReplaceAllString(out, "")
	out = blankRun.ReplaceAllString(out, "\n\n")

	return restore(out, literals)
}

// protect replaces quoted literals with placeholders and returns the literals
// indexed by placeholder number.
//
// A literal opens at ' or " and closes at the next occurrence of the same
// character on the same line. A quote without a partner on its line is left
// as ordinary text and scanning resumes right after it.
func protect(text string) (string, []string) {
	var (
		b        strings.Builder
		literals []string
	)
	b.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]
		if c != '"' && c != '\'' {
			b.WriteByte(c)
			i++
			continue
		}

		end := closingQuote(text, i)
		if end < 0 {
			b.WriteByte(c)
			i++
			continue
		}

		b.WriteByte(Placeholder)
		b.WriteString(strconv.Itoa(len(literals)))
		b.WriteByte(Placeholder)
		literals = append(literals, text[i:end+1])
		i = end + 1
	}

	return b.String(), literals
}

// closingQuote returns the index of the quote closing the literal that opens
// at start, or -1 when the line ends first.
func closingQuote(text string, start int) int {
	q := text[start]
	for j := start + 1; j < len(text); j++ {
		switch text[j] {
		case q:
			return j
		case '\n':
			return -1
		}
	}
	return -1
}

// restore swaps placeholders back for their literals. Placeholders whose
// literal was removed together with a comment simply no longer appear.
func restore(text string, literals []string) string {
	if len(literals) == 0 {
		return text
	}
	return placeholderRef.ReplaceAllStringFunc(text, func(m string) string {
		idx, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || idx >= len(literals) {
			return m
		}
		return literals[idx]
	})
}
