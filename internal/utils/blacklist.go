package utils

import (
	"bufio"
	"os"
	"strings"
)

// Blacklist holds title terms that should never be imported, e.g. watchlist
// items tracked elsewhere. One term per line, '#' starts a comment.
type Blacklist struct {
	terms []string
}

// LoadBlacklist loads blacklist terms from a file. A missing file yields an
// empty blacklist.
func LoadBlacklist(path string) (*Blacklist, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Blacklist{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var terms []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term != "" && !strings.HasPrefix(term, "#") {
			terms = append(terms, term)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Blacklist{terms: terms}, nil
}

// Match returns the first term contained in the title, or "" if none
func (b *Blacklist) Match(title string) string {
	titleLower := strings.ToLower(title)
	for _, term := range b.terms {
		if strings.Contains(titleLower, strings.ToLower(term)) {
			return term
		}
	}
	return ""
}
