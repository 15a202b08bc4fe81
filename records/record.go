// Package records provides the default record resolution collaborators used
// by the match engines: a document builder that maps a record to its content
// index and percolate document body, and a binding fetcher that reads the
// record's own static set bindings.
package records

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mycok/setmatch/oaiset"
)

// Static and compile-time checks to ensure the concrete types implement the
// oaiset collaborator interfaces.
var (
	_ oaiset.Resolver       = (*DocBuilder)(nil)
	_ oaiset.BindingFetcher = StaticBindings{}
)

var repeatedSpaceRegex = regexp.MustCompile(`\s+`)

// DocBuilder resolves a record to the content index it belongs to and
// serializes its metadata into a document suitable for percolation. Free-text
// string fields are stripped of HTML markup so stored queries match on the
// visible text rather than on tags.
type DocBuilder struct {
	indexPrefix string
	policyPool  sync.Pool
}

// NewDocBuilder returns a document builder that routes records to
// "<indexPrefix>-<record source>" content indices. An empty prefix routes to
// the record source name as is.
func NewDocBuilder(indexPrefix string) *DocBuilder {
	return &DocBuilder{
		indexPrefix: indexPrefix,
		policyPool: sync.Pool{
			New: func() interface{} {
				return bluemonday.StrictPolicy()
			},
		},
	}
}

// Resolve returns the content index name for a record together with the
// record's serialized document body.
func (b *DocBuilder) Resolve(
	record *oaiset.Record,
) (string, map[string]interface{}, error) {

	if record == nil || record.ID == uuid.Nil {
		return "", nil, fmt.Errorf("resolve record: missing record id")
	}

	if record.Source == "" {
		return "", nil, fmt.Errorf("resolve record: missing record source")
	}

	contentIndex := record.Source
	if b.indexPrefix != "" {
		contentIndex = b.indexPrefix + "-" + record.Source
	}

	policy := b.policyPool.Get().(*bluemonday.Policy)
	defer b.policyPool.Put(policy)

	doc := make(map[string]interface{}, len(record.Fields))

	for field, value := range record.Fields {
		doc[field] = b.sanitizeValue(policy, value)
	}

	return contentIndex, doc, nil
}

func (b *DocBuilder) sanitizeValue(
	policy *bluemonday.Policy, value interface{},
) interface{} {

	switch v := value.(type) {
	case string:
		return sanitizeText(policy, v)
	case []string:
		clean := make([]string, len(v))
		for i, item := range v {
			clean[i] = sanitizeText(policy, item)
		}

		return clean
	case []interface{}:
		clean := make([]interface{}, len(v))
		for i, item := range v {
			clean[i] = b.sanitizeValue(policy, item)
		}

		return clean
	default:
		return value
	}
}

func sanitizeText(policy *bluemonday.Policy, text string) string {
	clean := repeatedSpaceRegex.ReplaceAllString(policy.Sanitize(text), " ")

	return strings.TrimSpace(html.UnescapeString(clean))
}

// StaticBindings implements oaiset.BindingFetcher by reading the static set
// specs carried on the record itself.
type StaticBindings struct{}

// StaticBindings returns the specs of the static sets the record is bound to.
func (StaticBindings) StaticBindings(record *oaiset.Record) ([]string, error) {
	if record == nil {
		return nil, fmt.Errorf("static bindings: missing record")
	}

	specs := make([]string, len(record.Sets))
	copy(specs, record.Sets)

	return specs, nil
}
