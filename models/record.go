package models

// SearchTermColumn is the provenance column injected into records when a
// search expanded to more than one atomic term.
const SearchTermColumn = "termo_busca"

// Record is a single scraped row, field name to scalar value. The field set
// is defined by the source that produced it, not fixed globally.
type Record map[string]string

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// TermStatus is the terminal state of one atomic term inside a scrape call.
type TermStatus string

const (
	// StatusPending means fetching for the term has not started.
	StatusPending TermStatus = "pending"
	// StatusFetching means the term's page loop is in progress.
	StatusFetching TermStatus = "fetching"
	// StatusExhausted means every available page of the term was fetched.
	StatusExhausted TermStatus = "exhausted"
	// StatusAbandoned means fetching stopped early after repeated failures;
	// records collected before the failure are kept.
	StatusAbandoned TermStatus = "abandoned"
)

// TermResult is the per-term audit entry of a scrape call. A term that
// partially failed is distinguishable from one that fully succeeded by its
// Status and Err fields.
type TermResult struct {
	Term   string
	Origin string
	Status TermStatus
	Pages  int
	Rows   int
	Err    error
}

// ResultSet is the tabular output of a scrape call. Rows are in fetch order:
// term order outer, page order inner. Ownership passes to the caller.
type ResultSet struct {
	Columns []string
	Rows    []Record
	Terms   []TermResult
}

// Abandoned reports whether any term was abandoned before exhausting its pages.
func (rs *ResultSet) Abandoned() bool {
	for _, t := range rs.Terms {
		if t.Status == StatusAbandoned {
			return true
		}
	}
	return false
}
