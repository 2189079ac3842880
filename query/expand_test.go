package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSingleTerm(t *testing.T) {
	queries, err := Expand(Term("mudança climática"))
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "mudança climática", queries[0].Term)
	assert.Equal(t, "mudança climática", queries[0].Origin)
}

func TestExpandAlternatives(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{
			name: "simple or",
			term: "educação OR saúde OR saneamento",
			want: []string{"educação", "saúde", "saneamento"},
		},
		{
			name: "lowercase or",
			term: "educação or saúde",
			want: []string{"educação", "saúde"},
		},
		{
			name: "uppercase ou",
			term: "lei OU decreto",
			want: []string{"lei", "decreto"},
		},
		{
			name: "multi-word alternatives",
			term: "saneamento básico OR esgotamento sanitário",
			want: []string{"saneamento básico", "esgotamento sanitário"},
		},
		{
			name: "lowercase ou is an ordinary word",
			term: "vida ou morte",
			want: []string{"vida ou morte"},
		},
		{
			name: "lowercase e is an ordinary word",
			term: "pesquisa e desenvolvimento",
			want: []string{"pesquisa e desenvolvimento"},
		},
		{
			name: "extra whitespace",
			term: "  lei   OR   decreto ",
			want: []string{"lei", "decreto"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queries, err := Expand(Term(tt.term))
			require.NoError(t, err)

			got := make([]string, len(queries))
			for i, q := range queries {
				got[i] = q.Term
				assert.Equal(t, tt.term, q.Origin)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandExpressions(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{
			name: "bare combination",
			term: "medicamento E órfão",
			want: []string{"medicamento órfão"},
		},
		{
			name: "and keyword",
			term: "medicamento AND órfão",
			want: []string{"medicamento órfão"},
		},
		{
			name: "or of groups times group",
			term: "(doença OU doenças) E (rara OU raras)",
			want: []string{"doença rara", "doença raras", "doenças rara", "doenças raras"},
		},
		{
			name: "nested groups",
			term: "((doença OU doenças) E (rara OU raras)) OU (medicamento E órfão)",
			want: []string{"doença rara", "doença raras", "doenças rara", "doenças raras", "medicamento órfão"},
		},
		{
			name: "multi-word inside group",
			term: "(política nacional) E (meio ambiente OU clima)",
			want: []string{"política nacional meio ambiente", "política nacional clima"},
		},
		{
			name: "redundant parentheses",
			term: "(lei OU decreto)",
			want: []string{"lei", "decreto"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queries, err := Expand(Term(tt.term))
			require.NoError(t, err)

			got := make([]string, len(queries))
			for i, q := range queries {
				got[i] = q.Term
				assert.Equal(t, tt.term, q.Origin)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandTermList(t *testing.T) {
	queries, err := Expand(Terms("lei OU decreto", "portaria"))
	require.NoError(t, err)
	require.Len(t, queries, 3)

	assert.Equal(t, "lei", queries[0].Term)
	assert.Equal(t, "decreto", queries[1].Term)
	assert.Equal(t, "portaria", queries[2].Term)

	assert.Equal(t, "lei OU decreto", queries[0].Origin)
	assert.Equal(t, "lei OU decreto", queries[1].Origin)
	assert.Equal(t, "portaria", queries[2].Origin)
}

func TestExpandKeepsDuplicates(t *testing.T) {
	queries, err := Expand(Terms("lei", "lei"))
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, queries[0].Term, queries[1].Term)
}

func TestExpandInvalid(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"empty specification", Terms()},
		{"empty term", Term("")},
		{"blank term", Term("   ")},
		{"trailing or", Term("lei OR")},
		{"leading or", Term("OR lei")},
		{"double or", Term("lei OR OR decreto")},
		{"trailing and", Term("lei E")},
		{"empty parentheses", Term("()")},
		{"unbalanced open", Term("(lei OU decreto")},
		{"unbalanced close", Term("lei OU decreto)")},
		{"operator inside group", Term("(OU lei)")},
		{"blank term in list", Terms("lei", " ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(tt.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidQuery), "want ErrInvalidQuery, got %v", err)
		})
	}
}
