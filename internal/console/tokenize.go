package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Split breaks a command line into words. Single and double quotes group
// words; a backslash escapes the next character inside double quotes or
// outside any quote.
func Split(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, fmt.Errorf("dangling escape at end of line")
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

// Fields separates key=value words from positional ones.
func Fields(words []string) (map[string]string, []string) {
	fields := make(map[string]string)
	var rest []string
	for _, w := range words {
		if k, v, ok := strings.Cut(w, "="); ok && k != "" {
			fields[k] = v
			continue
		}
		rest = append(rest, w)
	}
	return fields, rest
}

// ParseRow converts a 1-based row number to a 0-based index.
func ParseRow(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("row must be a positive number, got %q", s)
	}
	return n - 1, nil
}

// ParseRows accepts "1,3,5-7" and returns sorted, de-duplicated 0-based
// indexes.
func ParseRows(spec string) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			hi = lo
		}
		a, err := ParseRow(lo)
		if err != nil {
			return nil, err
		}
		b, err := ParseRow(hi)
		if err != nil {
			return nil, err
		}
		if b < a {
			return nil, fmt.Errorf("bad row range %q", part)
		}
		for i := a; i <= b; i++ {
			seen[i] = true
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("no rows selected")
	}
	rows := make([]int, 0, len(seen))
	for i := range seen {
		rows = append(rows, i)
	}
	sort.Ints(rows)
	return rows, nil
}
