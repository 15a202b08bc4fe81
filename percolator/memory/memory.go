// Package memory implements percolation-based set matching on an in-process
// bleve index. Set queries are parsed once at registration time and each
// submitted record is indexed into a throwaway mem-only index and evaluated
// against all stored queries. The implementation mirrors the semantics of
// the elasticsearch store and is intended for tests and single-node
// deployments.
package memory

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/search/query"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/mycok/setmatch/oaiset"
	"github.com/mycok/setmatch/setquery"
)

// Static and compile-time checks to ensure InMemoryPercolator implements the
// oaiset interfaces.
var (
	_ oaiset.Registry = (*InMemoryPercolator)(nil)
	_ oaiset.Matcher  = (*InMemoryPercolator)(nil)
)

// StaticSetSource should be implemented by objects that can list the specs
// of all pattern-free sets.
type StaticSetSource interface {
	// StaticSets returns the specs of all sets without a search pattern.
	StaticSets() ([]string, error)
}

// Config defines configurations for the in-memory percolator.
type Config struct {
	// Resolver maps a record to its content index and document body.
	Resolver oaiset.Resolver

	// Bindings lists the static sets a record is already bound to.
	Bindings oaiset.BindingFetcher

	// StaticSets is the process-wide cache of pattern-free set specs.
	StaticSets StaticSetSource

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.Resolver == nil {
		err = multierror.Append(err, fmt.Errorf("record resolver not provided"))
	}

	if config.Bindings == nil {
		err = multierror.Append(err, fmt.Errorf("static binding fetcher not provided"))
	}

	if config.StaticSets == nil {
		err = multierror.Append(err, fmt.Errorf("static set source not provided"))
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}

// InMemoryPercolator stores one parsed query per pattern-based set and
// content index and matches records against them in process.
type InMemoryPercolator struct {
	config Config

	mu sync.RWMutex
	// Parsed set queries keyed by content index, then by set spec.
	queries map[string]map[string]query.Query
}

// NewInMemoryPercolator creates and returns a fully configured in-memory
// percolator.
func NewInMemoryPercolator(config Config) (*InMemoryPercolator, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("in-memory percolator: config validation failed: %w", err)
	}

	return &InMemoryPercolator{
		config:  config,
		queries: make(map[string]map[string]query.Query),
	}, nil
}

// UpsertPercolator parses the set's search pattern and stores (create or
// replace) the resulting query. An empty pattern is a no-op since static
// sets carry no stored query.
func (p *InMemoryPercolator) UpsertPercolator(spec, pattern, contentIndex string) error {
	if pattern == "" {
		return nil
	}

	q, err := setquery.Parse(pattern)
	if err != nil {
		return fmt.Errorf("upsert percolator: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	indexQueries, exists := p.queries[contentIndex]
	if !exists {
		indexQueries = make(map[string]query.Query)
		p.queries[contentIndex] = indexQueries
	}

	indexQueries[spec] = q

	return nil
}

// DeletePercolator removes the set's stored query. Deleting a query that was
// never stored is not an error.
func (p *InMemoryPercolator) DeletePercolator(spec, contentIndex string) error {
	if spec == "" {
		return nil
	}

	p.mu.Lock()
	if indexQueries, exists := p.queries[contentIndex]; exists {
		delete(indexQueries, spec)
	}
	p.mu.Unlock()

	return nil
}

// MatchSets returns an iterator over the specs of all sets the record
// belongs to.
func (p *InMemoryPercolator) MatchSets(record *oaiset.Record) (oaiset.SetIterator, error) {
	specs, err := p.matchStatic(record)
	if err != nil {
		return nil, fmt.Errorf("match sets: %w", err)
	}

	contentIndex, doc, err := p.config.Resolver.Resolve(record)
	if err != nil {
		return nil, fmt.Errorf("match sets: %w", err)
	}

	matches, err := p.percolate(
		contentIndex, []map[string]interface{}{doc}, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("match sets: %w", err)
	}

	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		seen[spec] = true
	}

	for _, spec := range matches[0] {
		if seen[spec] {
			continue
		}

		seen[spec] = true
		specs = append(specs, spec)
	}

	return &setIterator{specs: specs}, nil
}

// MatchSetsBatch classifies a batch of records against all stored queries in
// one pass per content index and returns one entry per record keyed by
// record ID.
func (p *InMemoryPercolator) MatchSetsBatch(
	records []*oaiset.Record,
) (map[uuid.UUID][]string, error) {

	results := make(map[uuid.UUID][]string, len(records))

	type indexGroup struct {
		docs    []map[string]interface{}
		records []*oaiset.Record
	}

	groups := make(map[string]*indexGroup)
	order := make([]string, 0)

	for _, record := range records {
		specs, err := p.matchStatic(record)
		if err != nil {
			return nil, fmt.Errorf("match sets batch: %w", err)
		}

		results[record.ID] = specs

		contentIndex, doc, err := p.config.Resolver.Resolve(record)
		if err != nil {
			return nil, fmt.Errorf("match sets batch: %w", err)
		}

		group, exists := groups[contentIndex]
		if !exists {
			group = &indexGroup{}
			groups[contentIndex] = group
			order = append(order, contentIndex)
		}

		group.docs = append(group.docs, doc)
		group.records = append(group.records, record)
	}

	for _, contentIndex := range order {
		group := groups[contentIndex]

		matches, err := p.percolate(contentIndex, group.docs, nil)
		if err != nil {
			return nil, fmt.Errorf("match sets batch: %w", err)
		}

		for slot, specs := range matches {
			recordID := group.records[slot].ID
			results[recordID] = append(results[recordID], specs...)
		}
	}

	return results, nil
}

// IsInSet reports whether the record belongs to the set with the given spec.
// Only that set's stored query is evaluated.
func (p *InMemoryPercolator) IsInSet(record *oaiset.Record, spec string) (bool, error) {
	staticSpecs, err := p.matchStatic(record)
	if err != nil {
		return false, fmt.Errorf("is in set: %w", err)
	}

	for _, staticSpec := range staticSpecs {
		if staticSpec == spec {
			return true, nil
		}
	}

	contentIndex, doc, err := p.config.Resolver.Resolve(record)
	if err != nil {
		return false, fmt.Errorf("is in set: %w", err)
	}

	matches, err := p.percolate(
		contentIndex, []map[string]interface{}{doc}, []string{spec},
	)
	if err != nil {
		return false, fmt.Errorf("is in set: %w", err)
	}

	return len(matches[0]) > 0, nil
}

// matchStatic yields the specs of exactly those static sets the record is
// already explicitly bound to.
func (p *InMemoryPercolator) matchStatic(record *oaiset.Record) ([]string, error) {
	staticSpecs, err := p.config.StaticSets.StaticSets()
	if err != nil {
		return nil, err
	}

	bindings, err := p.config.Bindings.StaticBindings(record)
	if err != nil {
		return nil, err
	}

	bound := make(map[string]bool, len(bindings))
	for _, spec := range bindings {
		bound[spec] = true
	}

	matched := make([]string, 0)

	for _, spec := range staticSpecs {
		if bound[spec] {
			matched = append(matched, spec)
		}
	}

	return matched, nil
}

// percolate indexes the submitted documents into a throwaway mem-only index
// and evaluates the stored queries for the content index against it. The
// returned mapping lists the matched specs per document position. When
// onlySpecs is non-nil, evaluation is scoped to those stored queries.
func (p *InMemoryPercolator) percolate(
	contentIndex string, docs []map[string]interface{}, onlySpecs []string,
) (map[int][]string, error) {

	matches := make(map[int][]string, len(docs))
	for slot := range docs {
		matches[slot] = make([]string, 0)
	}

	queries := p.snapshotQueries(contentIndex, onlySpecs)
	if len(queries) == 0 {
		return matches, nil
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", oaiset.ErrIndexUnavailable, err)
	}
	defer func() {
		_ = idx.Close()
	}()

	for slot, doc := range docs {
		if err = idx.Index(strconv.Itoa(slot), doc); err != nil {
			return nil, fmt.Errorf("%w: %v", oaiset.ErrMatchQuery, err)
		}
	}

	for spec, q := range queries {
		searchReq := bleve.NewSearchRequest(q)
		searchReq.Size = len(docs)

		searchRes, err := idx.Search(searchReq)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", oaiset.ErrMatchQuery, err)
		}

		for _, hit := range searchRes.Hits {
			slot, err := strconv.Atoi(hit.ID)
			if err != nil {
				continue
			}

			matches[slot] = append(matches[slot], spec)
		}
	}

	return matches, nil
}

// snapshotQueries clones the stored query map for a content index so
// percolation never holds the lock while searching.
func (p *InMemoryPercolator) snapshotQueries(
	contentIndex string, onlySpecs []string,
) map[string]query.Query {

	p.mu.RLock()
	defer p.mu.RUnlock()

	indexQueries := p.queries[contentIndex]
	if len(indexQueries) == 0 {
		return nil
	}

	snapshot := make(map[string]query.Query, len(indexQueries))

	if onlySpecs != nil {
		for _, spec := range onlySpecs {
			if q, exists := indexQueries[spec]; exists {
				snapshot[spec] = q
			}
		}

		return snapshot
	}

	for spec, q := range indexQueries {
		snapshot[spec] = q
	}

	return snapshot
}
