package rss

import (
	"regexp"
	"strings"
)

var (
	cdataRe    = regexp.MustCompile(`<!\[CDATA\[|\]\]>`)
	innerTagRe = regexp.MustCompile(`<[^>]+>`)
)

// The decode table is deliberately narrow: exactly the five entities the
// feeds in scope emit. Anything else passes through untouched.
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&#39;", "'",
)

// ExtractField returns the decoded inner text of the first occurrence of
// tag within fragment, or "" when the tag is absent or unclosed. Attributes
// on the opening tag are ignored; matching is case-insensitive.
func ExtractField(fragment, tag string) string {
	re := regexp.MustCompile(`(?is)<` + regexp.QuoteMeta(tag) + `[^>]*>(.*?)</` + regexp.QuoteMeta(tag) + `>`)
	m := re.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}

	text := cdataRe.ReplaceAllString(m[1], "")
	text = innerTagRe.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	return strings.TrimSpace(text)
}
