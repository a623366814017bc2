// Package search provides Bleve full-text search over stored examples.
package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/pkg/utils"
)

// ErrEmptyQuery is returned when a search query has no terms.
var ErrEmptyQuery = errors.New("empty query")

const (
	// DefaultLimit caps results when the caller does not ask for a limit.
	DefaultLimit = 20
	// SnippetLength bounds the text excerpt attached to each hit.
	SnippetLength = 120
	// fuzzyMinTermLength keeps fuzzy matching away from short terms, where
	// an edit distance of 2 would match almost anything.
	fuzzyMinTermLength = 4
	fuzziness          = 2
	deleteBatchSize    = 500
)

// Hit is a single search match.
type Hit struct {
	ID      string  `json:"id"`
	Text    string  `json:"text"`
	Intent  string  `json:"intent,omitempty"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}

// Result is a search response. DidYouMean carries a corrected query when
// some query term is absent from the index and a close term exists.
type Result struct {
	Query      string `json:"query"`
	Hits       []Hit  `json:"hits"`
	Total      uint64 `json:"total"`
	Fuzzy      bool   `json:"fuzzy,omitempty"`
	DidYouMean string `json:"did_you_mean,omitempty"`
}

// Options narrows a search. Nil means no filters and DefaultLimit.
type Options struct {
	// DatasetID restricts hits to one dataset.
	DatasetID string
	// Intent restricts hits to examples labeled with the given intent.
	Intent string
	// Limit caps the number of hits. Values <= 0 mean DefaultLimit.
	Limit int
}

// document is the indexed shape of an example. Field names follow the json
// tags, which the index mapping refers to.
type document struct {
	Text      string `json:"text"`
	Intent    string `json:"intent"`
	DatasetID string `json:"dataset_id"`
}

// Index is a Bleve index over examples.
type Index struct {
	index bleve.Index
	spell *SpellChecker
}

// NewIndex creates or opens a Bleve index at path. An existing index is
// opened and reused so restarts do not force a re-index; if the mapping
// changes in code, remove the index directory to rebuild it.
func NewIndex(path string) (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textField := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so the term
	// dictionary holds the words users actually typed.
	textField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textField)
	keywordField := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("intent", keywordField)
	docMapping.AddFieldMappingsAt("dataset_id", keywordField)
	im.AddDocumentMapping("example", docMapping)
	im.DefaultType = "example"
	im.DefaultMapping = docMapping

	var index bleve.Index
	if _, err := os.Stat(path); err == nil {
		index, err = bleve.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open search index: %w", err)
		}
	} else {
		var err error
		index, err = bleve.New(path, im)
		if err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
	}

	ix := &Index{index: index}
	ix.spell = NewSpellChecker(ix)
	return ix, nil
}

// Index adds or replaces one example in the index.
func (ix *Index) Index(ctx context.Context, ex *models.Example) error {
	if err := ix.index.Index(ex.ID, document{Text: ex.Text, Intent: ex.Intent, DatasetID: ex.DatasetID}); err != nil {
		return err
	}
	ix.spell.Invalidate()
	return nil
}

// IndexBatch adds or replaces a batch of examples.
func (ix *Index) IndexBatch(ctx context.Context, examples []models.Example) error {
	if len(examples) == 0 {
		return nil
	}
	batch := ix.index.NewBatch()
	for i := range examples {
		ex := &examples[i]
		if err := batch.Index(ex.ID, document{Text: ex.Text, Intent: ex.Intent, DatasetID: ex.DatasetID}); err != nil {
			return err
		}
	}
	if err := ix.index.Batch(batch); err != nil {
		return err
	}
	ix.spell.Invalidate()
	return nil
}

// Delete removes one example from the index.
func (ix *Index) Delete(ctx context.Context, id string) error {
	if err := ix.index.Delete(id); err != nil {
		return err
	}
	ix.spell.Invalidate()
	return nil
}

// DeleteDataset removes every indexed example of a dataset and reports how
// many documents were removed.
func (ix *Index) DeleteDataset(ctx context.Context, datasetID string) (int, error) {
	tq := bleve.NewTermQuery(datasetID)
	tq.SetField("dataset_id")

	deleted := 0
	for {
		req := bleve.NewSearchRequest(tq)
		req.Size = deleteBatchSize
		res, err := ix.index.Search(req)
		if err != nil {
			return deleted, fmt.Errorf("search failed: %w", err)
		}
		if len(res.Hits) == 0 {
			return deleted, nil
		}
		batch := ix.index.NewBatch()
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}
		if err := ix.index.Batch(batch); err != nil {
			return deleted, err
		}
		deleted += len(res.Hits)
		ix.spell.Invalidate()
	}
}

// Search runs a match query over example text, falling back to fuzzy
// matching when nothing matches and the query carries terms long enough
// for it. Filters from opts are applied as a conjunction.
func (ix *Index) Search(ctx context.Context, query string, opts *Options) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	limit := DefaultLimit
	datasetID, intent := "", ""
	if opts != nil {
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		datasetID = opts.DatasetID
		intent = utils.NormalizeLabel(opts.Intent)
	}

	hits, total, err := ix.run(ix.withFilters(ix.matchQuery(query), datasetID, intent), limit)
	if err != nil {
		return nil, err
	}

	result := &Result{Query: query, Hits: hits, Total: total}
	if len(hits) == 0 {
		if fq, ok := ix.fuzzyQuery(query); ok {
			hits, total, err = ix.run(ix.withFilters(fq, datasetID, intent), limit)
			if err != nil {
				return nil, err
			}
			result.Hits = hits
			result.Total = total
			result.Fuzzy = len(hits) > 0
		}
	}

	if check, err := ix.spell.Check(query); err == nil && check.HasCorrections {
		result.DidYouMean = check.Corrected
	}
	return result, nil
}

func (ix *Index) matchQuery(query string) blevequery.Query {
	mq := bleve.NewMatchQuery(query)
	mq.SetField("text")
	return mq
}

// fuzzyQuery builds a disjunction of per-term fuzzy queries. Terms shorter
// than fuzzyMinTermLength are skipped; ok is false when no term qualifies.
func (ix *Index) fuzzyQuery(query string) (blevequery.Query, bool) {
	var queries []blevequery.Query
	for _, term := range queryTerms(query) {
		if len([]rune(term)) < fuzzyMinTermLength {
			continue
		}
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField("text")
		queries = append(queries, fq)
	}
	if len(queries) == 0 {
		return nil, false
	}
	if len(queries) == 1 {
		return queries[0], true
	}
	return bleve.NewDisjunctionQuery(queries...), true
}

func (ix *Index) withFilters(q blevequery.Query, datasetID, intent string) blevequery.Query {
	filters := []blevequery.Query{q}
	if datasetID != "" {
		tq := bleve.NewTermQuery(datasetID)
		tq.SetField("dataset_id")
		filters = append(filters, tq)
	}
	if intent != "" {
		tq := bleve.NewTermQuery(intent)
		tq.SetField("intent")
		filters = append(filters, tq)
	}
	if len(filters) == 1 {
		return q
	}
	return bleve.NewConjunctionQuery(filters...)
}

func (ix *Index) run(q blevequery.Query, limit int) ([]Hit, uint64, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"text", "intent"}
	res, err := ix.index.Search(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if text, ok := h.Fields["text"].(string); ok {
			hit.Text = text
			hit.Snippet = utils.Truncate(text, SnippetLength)
		}
		if intent, ok := h.Fields["intent"].(string); ok {
			hit.Intent = intent
		}
		hits = append(hits, hit)
	}
	return hits, res.Total, nil
}

// DocCount returns the number of indexed examples.
func (ix *Index) DocCount() (uint64, error) {
	return ix.index.DocCount()
}

// Close closes the underlying Bleve index.
func (ix *Index) Close() error {
	return ix.index.Close()
}

// Terms walks the text field dictionary and returns every indexed term with
// its document frequency. This feeds the spell checker.
func (ix *Index) Terms() ([]TermEntry, error) {
	dict, err := ix.index.FieldDict("text")
	if err != nil {
		return nil, fmt.Errorf("failed to open term dictionary: %w", err)
	}
	defer dict.Close()

	var terms []TermEntry
	for {
		entry, err := dict.Next()
		if err != nil || entry == nil {
			break
		}
		terms = append(terms, TermEntry{Term: entry.Term, Count: int(entry.Count)})
	}
	return terms, nil
}

// queryTerms splits a query into lowercase terms.
func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}
