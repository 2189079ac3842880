// Package query expands user search specifications into the atomic terms a
// scraper actually sends to a source. A specification is either one term, an
// ordered list of terms, or a boolean search expression; expansion is
// deterministic and order-preserving, and duplicate terms are kept.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidQuery indicates a malformed search specification. It is always
// detected before any network activity.
var ErrInvalidQuery = errors.New("invalid search query")

// AtomicQuery is one resolved search term together with the user-supplied
// sub-expression it came from. Immutable once produced.
type AtomicQuery struct {
	Term   string
	Origin string
}

// Spec is a search specification: a single term or an ordered sequence of
// terms. Each term may itself contain an OR combinator or a parenthesized
// boolean expression.
type Spec struct {
	terms []string
}

// Term builds a specification from a single search term.
func Term(s string) Spec {
	return Spec{terms: []string{s}}
}

// Terms builds a specification from an ordered list of search terms.
func Terms(ss ...string) Spec {
	return Spec{terms: ss}
}

// Values returns the raw terms of the specification, in input order.
func (s Spec) Values() []string {
	return s.terms
}

var whitespace = regexp.MustCompile(`\s+`)

// Expand resolves a specification into its atomic queries, in input order.
// Terms containing an OR combinator split into one query per alternative;
// terms containing parentheses or the E operator are treated as boolean
// expressions (OU = union, E = combination). Every query produced from the
// same input term carries that term as its origin.
func Expand(spec Spec) ([]AtomicQuery, error) {
	if len(spec.terms) == 0 {
		return nil, fmt.Errorf("%w: empty specification", ErrInvalidQuery)
	}

	var queries []AtomicQuery
	for _, raw := range spec.terms {
		term := strings.TrimSpace(whitespace.ReplaceAllString(raw, " "))
		if term == "" {
			return nil, fmt.Errorf("%w: blank term", ErrInvalidQuery)
		}

		expanded, err := expandTerm(term)
		if err != nil {
			return nil, err
		}
		for _, t := range expanded {
			queries = append(queries, AtomicQuery{Term: t, Origin: raw})
		}
	}
	return queries, nil
}

func expandTerm(term string) ([]string, error) {
	if isExpression(term) {
		return expandExpression(term)
	}
	return splitAlternatives(term)
}

// isExpression reports whether the term uses the boolean expression syntax
// rather than the plain OR combinator.
func isExpression(term string) bool {
	if strings.ContainsAny(term, "()") {
		return true
	}
	for _, tok := range strings.Fields(term) {
		if isAndToken(tok) {
			return true
		}
	}
	return false
}

// splitAlternatives splits "A OR B" into its alternatives. The OR token is
// case-insensitive; OU is recognized too but only in uppercase, since "ou" is
// an ordinary word in Portuguese search terms.
func splitAlternatives(term string) ([]string, error) {
	var (
		alts    []string
		current []string
	)
	flush := func() error {
		if len(current) == 0 {
			return fmt.Errorf("%w: empty alternative in %q", ErrInvalidQuery, term)
		}
		alts = append(alts, strings.Join(current, " "))
		current = nil
		return nil
	}

	for _, tok := range strings.Fields(term) {
		if isOrToken(tok) {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		current = append(current, tok)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return alts, nil
}

func isOrToken(tok string) bool {
	return strings.EqualFold(tok, "OR") || tok == "OU"
}

func isAndToken(tok string) bool {
	return strings.EqualFold(tok, "AND") || tok == "E"
}
