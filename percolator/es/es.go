// Package es implements percolation-based set matching on top of an
// elasticsearch cluster: set queries are stored as percolator documents in a
// side index and incoming records are matched against all of them in a
// single search round trip.
package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/mycok/setmatch/oaiset"
	"github.com/mycok/setmatch/setquery"
)

// Static and compile-time checks to ensure the concrete types implement the
// oaiset interfaces.
var (
	_ oaiset.Registry = (*QueryRegistry)(nil)
	_ oaiset.Matcher  = (*Matcher)(nil)
)

// Suffix appended to a content index name to derive its percolator index
// name under ProfileSideIndex.
const percolatorIndexSuffix = "-percolators"

// Percolator indices hold one stored query per set, so a single result page
// covers any realistic number of set definitions.
const maxMatchedQueries = 10000

// Profile selects how the engine version at hand stores percolator queries.
// The variant is chosen once at configuration time and dispatched on
// explicitly, never through scattered version conditionals.
type Profile uint8

const (
	// ProfileSideIndex stores percolator documents in a dedicated side
	// index named after the content index plus a fixed suffix. This is
	// the layout for elasticsearch 7 and later.
	ProfileSideIndex Profile = iota

	// ProfileInline stores percolator documents in the content index's
	// own mapping (empty index suffix). This is the layout for engine
	// versions that model percolators as a plain mapping field of the
	// content index.
	ProfileInline
)

// Mapping fragment declaring the field that stores reverse-search queries.
var percolatorMapping = map[string]interface{}{
	"query": map[string]interface{}{
		"type": "percolator",
	},
}

// MappingProvider should be implemented by objects that can supply the field
// mapping of a content index. Stored queries are validated by the engine
// against this mapping, so the percolator index must mirror it.
type MappingProvider interface {
	// Mapping returns the mappings object of the content index.
	Mapping(ctx context.Context, contentIndex string) (map[string]interface{}, error)
}

// StaticSetSource should be implemented by objects that can list the specs
// of all pattern-free sets.
type StaticSetSource interface {
	// StaticSets returns the specs of all sets without a search pattern.
	StaticSets() ([]string, error)
}

type esSearchRes struct {
	Hits esSearchResHits `json:"hits"`
}

type esSearchResHits struct {
	HitList []esHit `json:"hits"`
}

type esHit struct {
	ID     string      `json:"_id"`
	Fields esHitFields `json:"fields"`
}

type esHitFields struct {
	// Positions of the submitted documents matched by this stored query.
	Slots []int `json:"_percolator_document_slot"`
}

type esErrorRes struct {
	Error esError `json:"error"`
}

type esError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (e esError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Reason)
}

// IndexManager ensures that the percolator index for a content index exists
// before any write or match operation runs against it.
type IndexManager struct {
	client   *elasticsearch.Client
	profile  Profile
	mappings MappingProvider
}

// NewIndexManager connects to the provided elasticsearch nodes and returns an
// index manager for the given capability profile. When mappings is nil, the
// content index mappings are discovered live from the cluster.
func NewIndexManager(
	esNodes []string, profile Profile, mappings MappingProvider,
) (*IndexManager, error) {

	cfg := elasticsearch.Config{
		Addresses: esNodes,
	}

	c, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	if mappings == nil {
		mappings = &liveMappingProvider{client: c}
	}

	return &IndexManager{
		client:   c,
		profile:  profile,
		mappings: mappings,
	}, nil
}

// IndexName derives the percolator index name for a content index. The
// transform is deterministic: a fixed suffix under ProfileSideIndex and the
// content index name itself under ProfileInline.
func (m *IndexManager) IndexName(contentIndex string) string {
	if m.profile == ProfileInline {
		return contentIndex
	}

	return contentIndex + percolatorIndexSuffix
}

// EnsureIndex guarantees that the percolator index for the content index
// exists with a mapping that mirrors the content fields and declares the
// stored-query field. The call is idempotent: "already exists" is treated as
// success, which also makes concurrent creation attempts safe.
func (m *IndexManager) EnsureIndex(ctx context.Context, contentIndex string) error {
	var err error

	switch m.profile {
	case ProfileInline:
		err = m.putPercolatorMapping(ctx, contentIndex)
	default:
		err = m.createSideIndex(ctx, contentIndex)
	}

	if err != nil {
		return fmt.Errorf("%w: %v", oaiset.ErrIndexUnavailable, err)
	}

	return nil
}

// createSideIndex issues a single guarded create for the side percolator
// index rather than a racy exists-then-create sequence.
func (m *IndexManager) createSideIndex(ctx context.Context, contentIndex string) error {
	mapping, err := m.mappings.Mapping(ctx, contentIndex)
	if err != nil {
		return err
	}

	properties, ok := mapping["properties"].(map[string]interface{})
	if !ok {
		properties = make(map[string]interface{})
		mapping["properties"] = properties
	}

	for field, fieldMapping := range percolatorMapping {
		properties[field] = fieldMapping
	}

	var buf bytes.Buffer
	if err = json.NewEncoder(&buf).Encode(
		map[string]interface{}{"mappings": mapping},
	); err != nil {
		return err
	}

	res, err := m.client.Indices.Create(
		m.IndexName(contentIndex),
		m.client.Indices.Create.WithBody(&buf),
		m.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return err
	}

	if res.IsError() {
		err = unmarshalError(res)

		esErr, ok := err.(esError)
		if ok && esErr.Type == "resource_already_exists_exception" {
			return nil
		}

		return err
	}

	return discardResponse(res)
}

// putPercolatorMapping extends the content index's own mapping with the
// stored-query field. Re-applying an identical mapping is a no-op on the
// engine side, so the call stays idempotent.
func (m *IndexManager) putPercolatorMapping(ctx context.Context, contentIndex string) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(
		map[string]interface{}{"properties": percolatorMapping},
	); err != nil {
		return err
	}

	res, err := m.client.Indices.PutMapping(
		[]string{contentIndex},
		&buf,
		m.client.Indices.PutMapping.WithContext(ctx),
	)
	if err != nil {
		return err
	}

	if res.IsError() {
		return unmarshalError(res)
	}

	return discardResponse(res)
}

// liveMappingProvider reads content index mappings from the cluster itself.
type liveMappingProvider struct {
	client *elasticsearch.Client
}

func (p *liveMappingProvider) Mapping(
	ctx context.Context, contentIndex string,
) (map[string]interface{}, error) {

	res, err := p.client.Indices.GetMapping(
		p.client.Indices.GetMapping.WithIndex(contentIndex),
		p.client.Indices.GetMapping.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}

	var mappingRes map[string]struct {
		Mappings map[string]interface{} `json:"mappings"`
	}

	if err = unmarshalResponse(res, &mappingRes); err != nil {
		return nil, err
	}

	entry, exists := mappingRes[contentIndex]
	if !exists {
		return nil, fmt.Errorf("no mapping found for index %q", contentIndex)
	}

	return entry.Mappings, nil
}

// QueryRegistry maintains one percolator document per pattern-based set,
// keyed by the deterministic id derived from the set's spec.
type QueryRegistry struct {
	manager     *IndexManager
	refreshOpts func(*esapi.IndexRequest)
}

// NewQueryRegistry returns a registry writing through the provided index
// manager. When shouldSyncUpdates is set, every write forces a synchronous
// refresh; otherwise writes become visible to match queries after the
// engine's own refresh interval (bounded, documented propagation delay).
func NewQueryRegistry(manager *IndexManager, shouldSyncUpdates bool) *QueryRegistry {
	refreshOpts := manager.client.Index.WithRefresh("false")

	if shouldSyncUpdates {
		refreshOpts = manager.client.Index.WithRefresh("true")
	}

	return &QueryRegistry{
		manager:     manager,
		refreshOpts: refreshOpts,
	}
}

// UpsertPercolator translates the set's search pattern and writes (create or
// replace) its percolator document. Static sets have no percolator document,
// so an empty pattern is a no-op. Writes are full-replace upserts: concurrent
// writers for the same set converge to last write wins.
func (r *QueryRegistry) UpsertPercolator(spec, pattern, contentIndex string) error {
	if pattern == "" {
		return nil
	}

	query, err := setquery.Translate(pattern)
	if err != nil {
		return fmt.Errorf("upsert percolator: %w", err)
	}

	ctx := context.Background()

	if err = r.manager.EnsureIndex(ctx, contentIndex); err != nil {
		return fmt.Errorf("upsert percolator: %w", err)
	}

	var buf bytes.Buffer
	if err = json.NewEncoder(&buf).Encode(
		map[string]interface{}{"query": query},
	); err != nil {
		return fmt.Errorf("upsert percolator: %w", err)
	}

	res, err := r.manager.client.Index(
		r.manager.IndexName(contentIndex),
		&buf,
		r.manager.client.Index.WithDocumentID(oaiset.PercolatorID(spec)),
		r.manager.client.Index.WithContext(ctx),
		r.refreshOpts,
	)
	if err != nil {
		return fmt.Errorf("upsert percolator: %w", err)
	}

	if res.IsError() {
		return fmt.Errorf("upsert percolator: %w", unmarshalError(res))
	}

	return discardResponse(res)
}

// DeletePercolator removes the set's percolator document. The delete is
// idempotent: a missing document is treated as success and never surfaced.
func (r *QueryRegistry) DeletePercolator(spec, contentIndex string) error {
	if spec == "" {
		return nil
	}

	ctx := context.Background()

	// Ensure the index exists first so deletion against a missing index
	// is well defined.
	if err := r.manager.EnsureIndex(ctx, contentIndex); err != nil {
		return fmt.Errorf("delete percolator: %w", err)
	}

	res, err := r.manager.client.Delete(
		r.manager.IndexName(contentIndex),
		oaiset.PercolatorID(spec),
		r.manager.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete percolator: %w", err)
	}

	if res.IsError() {
		if res.StatusCode == 404 {
			return discardResponse(res)
		}

		return fmt.Errorf("delete percolator: %w", unmarshalError(res))
	}

	return discardResponse(res)
}

// MatcherConfig defines configurations for the elasticsearch match engine.
type MatcherConfig struct {
	// Manager for the percolator indices.
	Manager *IndexManager

	// Resolver maps a record to its content index and document body.
	Resolver oaiset.Resolver

	// Bindings lists the static sets a record is already bound to.
	Bindings oaiset.BindingFetcher

	// StaticSets is the process-wide cache of pattern-free set specs.
	StaticSets StaticSetSource
}

func (config *MatcherConfig) validate() error {
	var err error

	if config.Manager == nil {
		err = multierror.Append(err, fmt.Errorf("index manager not provided"))
	}

	if config.Resolver == nil {
		err = multierror.Append(err, fmt.Errorf("record resolver not provided"))
	}

	if config.Bindings == nil {
		err = multierror.Append(err, fmt.Errorf("static binding fetcher not provided"))
	}

	if config.StaticSets == nil {
		err = multierror.Append(err, fmt.Errorf("static set source not provided"))
	}

	return err
}

// Matcher classifies records against all known sets: static sets via the
// record's explicit bindings and pattern-based sets via a percolate query.
type Matcher struct {
	config MatcherConfig
}

// NewMatcher creates and returns a fully configured elasticsearch match
// engine.
func NewMatcher(config MatcherConfig) (*Matcher, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("es matcher: config validation failed: %w", err)
	}

	return &Matcher{config: config}, nil
}

// MatchSets returns an iterator over the specs of all sets the record
// belongs to.
func (m *Matcher) MatchSets(record *oaiset.Record) (oaiset.SetIterator, error) {
	specs, err := m.matchStatic(record)
	if err != nil {
		return nil, fmt.Errorf("match sets: %w", err)
	}

	contentIndex, doc, err := m.config.Resolver.Resolve(record)
	if err != nil {
		return nil, fmt.Errorf("match sets: %w", err)
	}

	hits, err := m.percolate(contentIndex, percolateRequest{
		documents: []map[string]interface{}{doc},
	})
	if err != nil {
		return nil, fmt.Errorf("match sets: %w", err)
	}

	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		seen[spec] = true
	}

	for _, hit := range hits {
		spec, ok := oaiset.SpecFromPercolatorID(hit.ID)
		if !ok || seen[spec] {
			continue
		}

		seen[spec] = true
		specs = append(specs, spec)
	}

	return &setIterator{specs: specs}, nil
}

// MatchSetsBatch classifies a batch of records using a single multi-document
// percolate request per content index and demultiplexes the results by
// document position. The returned mapping holds exactly one entry per input
// record.
func (m *Matcher) MatchSetsBatch(
	records []*oaiset.Record,
) (map[uuid.UUID][]string, error) {

	results := make(map[uuid.UUID][]string, len(records))

	// Records may resolve to different content indices; group them so
	// each index gets a single round trip.
	type indexGroup struct {
		docs    []map[string]interface{}
		records []*oaiset.Record
	}

	groups := make(map[string]*indexGroup)
	order := make([]string, 0)

	for _, record := range records {
		specs, err := m.matchStatic(record)
		if err != nil {
			return nil, fmt.Errorf("match sets batch: %w", err)
		}

		results[record.ID] = specs

		contentIndex, doc, err := m.config.Resolver.Resolve(record)
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

		hits, err := m.percolate(contentIndex, percolateRequest{
			documents: group.docs,
		})
		if err != nil {
			return nil, fmt.Errorf("match sets batch: %w", err)
		}

		for _, hit := range hits {
			spec, ok := oaiset.SpecFromPercolatorID(hit.ID)
			if !ok {
				continue
			}

			for _, slot := range hit.Fields.Slots {
				if slot < 0 || slot >= len(group.records) {
					continue
				}

				recordID := group.records[slot].ID
				results[recordID] = append(results[recordID], spec)
			}
		}
	}

	return results, nil
}

// IsInSet reports whether the record belongs to the set with the given spec.
// The percolate request is scoped to that set's stored query only, so the
// engine evaluates a single percolator document.
func (m *Matcher) IsInSet(record *oaiset.Record, spec string) (bool, error) {
	staticSpecs, err := m.matchStatic(record)
	if err != nil {
		return false, fmt.Errorf("is in set: %w", err)
	}

	for _, staticSpec := range staticSpecs {
		if staticSpec == spec {
			return true, nil
		}
	}

	contentIndex, doc, err := m.config.Resolver.Resolve(record)
	if err != nil {
		return false, fmt.Errorf("is in set: %w", err)
	}

	hits, err := m.percolate(contentIndex, percolateRequest{
		documents: []map[string]interface{}{doc},
		ids:       []string{oaiset.PercolatorID(spec)},
	})
	if err != nil {
		return false, fmt.Errorf("is in set: %w", err)
	}

	return len(hits) > 0, nil
}

// MatchIndexed matches documents already stored in a content index against
// the sets defined for it. Documents are addressed by explicit index/id
// references; this input variant is never interchangeable with the inline
// document variant used by MatchSets.
func (m *Matcher) MatchIndexed(
	contentIndex string, refs []DocRef,
) (oaiset.SetIterator, error) {

	hits, err := m.percolate(contentIndex, percolateRequest{refs: refs})
	if err != nil {
		return nil, fmt.Errorf("match indexed: %w", err)
	}

	specs := make([]string, 0, len(hits))

	for _, hit := range hits {
		if spec, ok := oaiset.SpecFromPercolatorID(hit.ID); ok {
			specs = append(specs, spec)
		}
	}

	return &setIterator{specs: specs}, nil
}

// matchStatic yields the specs of exactly those static sets the record is
// already explicitly bound to: the intersection of the record's own bindings
// with the cached pattern-free set specs.
func (m *Matcher) matchStatic(record *oaiset.Record) ([]string, error) {
	staticSpecs, err := m.config.StaticSets.StaticSets()
	if err != nil {
		return nil, err
	}

	bindings, err := m.config.Bindings.StaticBindings(record)
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

func (m *Matcher) percolate(
	contentIndex string, req percolateRequest,
) ([]esHit, error) {

	ctx := context.Background()

	if err := m.config.Manager.EnsureIndex(ctx, contentIndex); err != nil {
		return nil, err
	}

	query, err := req.build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", oaiset.ErrMatchQuery, err)
	}

	var buf bytes.Buffer
	if err = json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("%w: %v", oaiset.ErrMatchQuery, err)
	}

	client := m.config.Manager.client

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(m.config.Manager.IndexName(contentIndex)),
		client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", oaiset.ErrMatchQuery, err)
	}

	var searchRes esSearchRes
	if err = unmarshalResponse(res, &searchRes); err != nil {
		return nil, fmt.Errorf("%w: %v", oaiset.ErrMatchQuery, err)
	}

	return searchRes.Hits.HitList, nil
}

func unmarshalError(res *esapi.Response) error {
	return unmarshalResponse(res, nil)
}

func unmarshalResponse(res *esapi.Response, into interface{}) error {
	defer func() {
		res.Body.Close()
	}()

	if res.IsError() {
		var errRes esErrorRes
		if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil {
			return err
		}

		return errRes.Error
	}

	if into == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(into)
}

func discardResponse(res *esapi.Response) error {
	defer func() {
		res.Body.Close()
	}()

	_, err := io.Copy(io.Discard, res.Body)

	return err
}
