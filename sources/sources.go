// Package sources holds the per-source scraper plugins: one implementation of
// scraper.Source per Brazilian government data provider. Each plugin owns its
// endpoint, query encoding, headers and payload field extraction; pagination,
// retries and aggregation live in the scraper engine.
package sources

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// resultsPerPage is what the HTML search frontends serve; the CNJ API is
// asked for cnjPageSize instead.
const resultsPerPage = 10

// pageCount converts a result total into a page count.
func pageCount(results, perPage int) int {
	return (results + perPage - 1) / perPage
}

// newDoc parses an HTML payload.
func newDoc(payload []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(payload))
}

// cleanText trims a scraped string and collapses its inner whitespace.
var innerWhitespace = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

// firstInt extracts the first integer in a string, or 0.
var digits = regexp.MustCompile(`\d+`)

func firstInt(s string) int {
	m := digits.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
