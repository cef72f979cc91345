package sanitizer

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// authorNameRegex matches Atom-style <name> tags.
var authorNameRegex = regexp.MustCompile(`<name>([^<]+)</name>`)

// SanitizeAuthor cleans XML/HTML tags that leak into author fields. Atom
// feeds sometimes nest structure like <name>Jane Doe</name><uri>...</uri>;
// the <name> content wins. Anything else with tags is reduced to its text.
func SanitizeAuthor(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return ""
	}

	if !strings.Contains(author, "<") {
		return author
	}

	if strings.Contains(author, "<name>") {
		if matches := authorNameRegex.FindStringSubmatch(author); len(matches) > 1 {
			return strings.TrimSpace(matches[1])
		}
	}

	return StripTags(author)
}

// StripTags removes all HTML/XML tags from the input, keeping only text
// nodes. Content cleanup only; not an XSS defense.
func StripTags(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	tokenizer := html.NewTokenizer(strings.NewReader(input))
	var buf strings.Builder

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			return ""
		}

		if tt == html.TextToken {
			buf.WriteString(tokenizer.Token().Data)
		}
	}

	return strings.TrimSpace(buf.String())
}
