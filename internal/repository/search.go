package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"collegeequity-workers/internal/models"
)

const defaultSearchSize = 20

// ElasticsearchUniversities searches and indexes university records in one index.
type ElasticsearchUniversities struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchUniversities(client *elasticsearch.Client, index string) *ElasticsearchUniversities {
	return &ElasticsearchUniversities{client: client, index: index}
}

func buildNameQuery(term string, size int) map[string]interface{} {
	return map[string]interface{}{
		"size":    size,
		"_source": []string{"name"},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"match_phrase_prefix": map[string]interface{}{
							"name": map[string]interface{}{"query": term, "boost": 2},
						},
					},
					map[string]interface{}{
						"match": map[string]interface{}{
							"name": map[string]interface{}{"query": term, "fuzziness": "AUTO"},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchNames returns the names of the best matching universities, most relevant first.
func (e *ElasticsearchUniversities) SearchNames(ctx context.Context, term string, size int) ([]string, error) {
	if size < 1 || size > 100 {
		size = defaultSearchSize
	}

	body, err := json.Marshal(buildNameQuery(term, size))
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", e.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", e.index, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	names := make([]string, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		if h.Source.Name != "" {
			names = append(names, h.Source.Name)
		}
	}
	return names, nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// IndexUniversities upserts every record, keyed by name, and refreshes the index.
func (e *ElasticsearchUniversities) IndexUniversities(ctx context.Context, universities []models.InstitutionRecord) (int, error) {
	if len(universities) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, u := range universities {
		meta := map[string]interface{}{"index": map[string]interface{}{"_id": u.Name}}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(u); err != nil {
			return 0, err
		}
	}

	res, err := e.client.Bulk(&buf,
		e.client.Bulk.WithContext(ctx),
		e.client.Bulk.WithIndex(e.index),
		e.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk index %s: %w", e.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk index %s: %s", e.index, res.String())
	}

	var r bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}

	indexed := 0
	var failures []string
	for _, item := range r.Items {
		for _, result := range item {
			if result.Error != nil {
				failures = append(failures, fmt.Sprintf("%s: %s", result.ID, result.Error.Reason))
				continue
			}
			indexed++
		}
	}
	if r.Errors && len(failures) > 0 {
		return indexed, fmt.Errorf("bulk index %s: %s", e.index, strings.Join(failures, "; "))
	}
	return indexed, nil
}
