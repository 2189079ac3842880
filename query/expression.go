package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Boolean search expressions combine alternatives with OU/OR and required
// co-occurring terms with E/AND, grouped by parentheses:
//
//	((doença OU doenças) E (rara OU raras)) OU (medicamento E órfão)
//
// expands to the terms "doença rara", "doença raras", "doenças rara",
// "doenças raras" and "medicamento órfão", fetched independently. OU is a
// union; E combines every left term with every right term, space-joined.
// Results keep left-to-right parse order.

var emptyParens = regexp.MustCompile(`\(\s*\)`)

func expandExpression(expr string) ([]string, error) {
	if emptyParens.MatchString(expr) {
		return nil, fmt.Errorf("%w: empty parentheses in %q", ErrInvalidQuery, expr)
	}
	if strings.Count(expr, "(") != strings.Count(expr, ")") {
		return nil, fmt.Errorf("%w: unbalanced parentheses in %q", ErrInvalidQuery, expr)
	}

	p := &exprParser{tokens: tokenize(expr), expr: expr}
	terms, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidQuery, p.tokens[p.pos], expr)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: expression %q yields no terms", ErrInvalidQuery, expr)
	}
	return terms, nil
}

var parens = regexp.MustCompile(`([()])`)

// tokenize splits an expression into terms, operators and parentheses.
func tokenize(expr string) []string {
	return strings.Fields(parens.ReplaceAllString(expr, " $1 "))
}

type exprParser struct {
	tokens []string
	expr   string
	pos    int
}

func (p *exprParser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *exprParser) parseOr() ([]string, error) {
	terms, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || !isOrToken(tok) {
			return terms, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right...)
	}
}

func (p *exprParser) parseAnd() ([]string, error) {
	terms, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || !isAndToken(tok) {
			return terms, nil
		}
		p.pos++
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		combined := make([]string, 0, len(terms)*len(right))
		for _, l := range terms {
			for _, r := range right {
				combined = append(combined, l+" "+r)
			}
		}
		terms = combined
	}
}

func (p *exprParser) parsePrimary() ([]string, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: expected term in %q", ErrInvalidQuery, p.expr)
	}

	if tok == "(" {
		p.pos++
		terms, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		tok, ok := p.peek()
		if !ok || tok != ")" {
			return nil, fmt.Errorf("%w: missing closing parenthesis in %q", ErrInvalidQuery, p.expr)
		}
		p.pos++
		return terms, nil
	}

	if tok == ")" || isOrToken(tok) || isAndToken(tok) {
		return nil, fmt.Errorf("%w: expected term, got %q in %q", ErrInvalidQuery, tok, p.expr)
	}

	// Adjacent plain words form one multi-word term.
	words := []string{tok}
	p.pos++
	for {
		tok, ok := p.peek()
		if !ok || tok == "(" || tok == ")" || isOrToken(tok) || isAndToken(tok) {
			break
		}
		words = append(words, tok)
		p.pos++
	}
	return []string{strings.Join(words, " ")}, nil
}
