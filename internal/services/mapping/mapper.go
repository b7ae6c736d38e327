package mapping

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"MorningScan/internal/domain/models"
	domsvc "MorningScan/internal/domain/service"
)

// TickerMapper recognizes listed companies in Swedish news text and maps
// them to their exchange ticker. Matching runs in three stages: exact name,
// known alias, then fuzzy token matching to absorb inflections and typos
// ("Ericssons", "Eriksson"). Immutable after construction.
type TickerMapper struct {
	entries []matcherEntry
}

type matcherEntry struct {
	name      string
	ticker    string
	lowered   string
	firstWord string // fuzzy matching compares against the leading name word
	aliases   []string
}

func NewTickerMapper() *TickerMapper {
	entries := make([]matcherEntry, len(companyTable))
	for i, c := range companyTable {
		lowered := strings.ToLower(c.name)
		first := lowered
		if idx := strings.IndexByte(lowered, ' '); idx > 0 {
			first = lowered[:idx]
		}
		aliases := make([]string, len(c.aliases))
		for j, a := range c.aliases {
			aliases[j] = strings.ToLower(a)
		}
		entries[i] = matcherEntry{
			name:      c.name,
			ticker:    c.ticker,
			lowered:   lowered,
			firstWord: first,
			aliases:   aliases,
		}
	}
	return &TickerMapper{entries: entries}
}

// Map finds the first recognized company in text. The table scan order is
// fixed, so results are deterministic for a given input.
func (m *TickerMapper) Map(text string) (company, ticker string, ok bool) {
	lowered := strings.ToLower(text)
	if strings.TrimSpace(lowered) == "" {
		return "", "", false
	}

	words := make(map[string]bool)
	for _, w := range tokenize(lowered) {
		words[w] = true
	}

	for _, e := range m.entries {
		if containsName(lowered, words, e.lowered) {
			return e.name, e.ticker, true
		}
		for _, a := range e.aliases {
			if containsName(lowered, words, a) {
				return e.name, e.ticker, true
			}
		}
	}

	return m.fuzzyMap(lowered)
}

// fuzzyMap compares each word of the text against the leading word of each
// company name. The allowed edit distance scales with word length so short
// tickers like SKF never fuzzy-match random tokens.
func (m *TickerMapper) fuzzyMap(lowered string) (string, string, bool) {
	bestDist := -1
	var best *matcherEntry

	for _, word := range tokenize(lowered) {
		if len(word) < 5 {
			continue
		}
		for i := range m.entries {
			e := &m.entries[i]
			if len(e.firstWord) < 5 {
				continue
			}
			dist := fuzzy.LevenshteinDistance(word, e.firstWord)
			if dist > maxDistance(len(e.firstWord)) {
				continue
			}
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				best = e
			}
		}
	}
	if best == nil {
		return "", "", false
	}
	return best.name, best.ticker, true
}

// containsName checks for the name as a substring, except that short names
// like SEB or SCA must stand as their own word to avoid matching inside
// unrelated words ("Sebastian").
func containsName(lowered string, words map[string]bool, name string) bool {
	if len(name) <= 4 && !strings.ContainsAny(name, "& .-") {
		return words[name]
	}
	return strings.Contains(lowered, name)
}

func maxDistance(nameLen int) int {
	if nameLen >= 8 {
		return 2
	}
	return 1
}

// MapArticle fills in the article's Company and Ticker from its title and
// snippet. Articles with no recognized company are left untouched.
func (m *TickerMapper) MapArticle(a *models.Article) bool {
	if a == nil {
		return false
	}
	company, ticker, ok := m.Map(a.Title + " " + a.Snippet)
	if !ok {
		return false
	}
	a.Company = company
	a.Ticker = ticker
	return true
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var _ domsvc.CompanyMapper = (*TickerMapper)(nil)
