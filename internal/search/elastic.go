package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticConfig configures the Elasticsearch engine. Every collection lives
// in its own index named <IndexPrefix>-<collection>.
type ElasticConfig struct {
	Addresses   []string
	Username    string
	Password    string
	IndexPrefix string
	Transport   http.RoundTripper
}

// ElasticEngine is an Engine backed by Elasticsearch.
type ElasticEngine struct {
	client *elasticsearch.Client
	prefix string
}

func NewElasticEngine(cfg ElasticConfig) (*ElasticEngine, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticEngine{client: client, prefix: cfg.IndexPrefix}, nil
}

func (e *ElasticEngine) index(c Collection) string {
	if e.prefix == "" {
		return string(c)
	}
	return e.prefix + "-" + string(c)
}

func (e *ElasticEngine) collection(index string) Collection {
	return Collection(strings.TrimPrefix(index, e.prefix+"-"))
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Index  string          `json:"_index"`
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func multiMatch(query string) map[string]interface{} {
	return map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":  query,
			"fields": []string{"*"},
		},
	}
}

func (e *ElasticEngine) Search(ctx context.Context, query string, collections []Collection) ([]Hit, error) {
	if len(collections) == 0 {
		collections = AllCollections
	}
	indices := make([]string, len(collections))
	for i, c := range collections {
		indices[i] = e.index(c)
	}
	return e.search(ctx, indices, map[string]interface{}{"query": multiMatch(query)})
}

func (e *ElasticEngine) SearchWithin(ctx context.Context, query string, collection Collection, ids []string) ([]Hit, error) {
	if len(ids) == 0 {
		return []Hit{}, nil
	}
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   []interface{}{multiMatch(query)},
				"filter": []interface{}{map[string]interface{}{"ids": map[string]interface{}{"values": ids}}},
			},
		},
	}
	return e.search(ctx, []string{e.index(collection)}, body)
}

func (e *ElasticEngine) search(ctx context.Context, indices []string, body map[string]interface{}) ([]Hit, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(indices...),
		e.client.Search.WithBody(bytes.NewReader(payload)),
		e.client.Search.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError("search", res)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{Collection: e.collection(h.Index), ID: h.ID, Data: h.Source})
	}
	return hits, nil
}

func (e *ElasticEngine) Index(ctx context.Context, collection Collection, id string, doc interface{}) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	res, err := e.client.Index(
		e.index(collection),
		bytes.NewReader(payload),
		e.client.Index.WithDocumentID(id),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

func (e *ElasticEngine) Delete(ctx context.Context, collection Collection, id string) error {
	res, err := e.client.Delete(e.index(collection), id, e.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return responseError("delete", res)
	}
	return nil
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s returned %s", ErrUnavailable, op, res.Status())
	}
	return fmt.Errorf("elasticsearch %s failed: %s: %s", op, res.Status(), body)
}
