package pinecone

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/poiesic/indexit/core"
	"github.com/poiesic/indexit/vectorstore"
)

type wireVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []wireVector `json:"vectors"`
	Namespace string       `json:"namespace,omitempty"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type queryRequest struct {
	Namespace       string         `json:"namespace,omitempty"`
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	Filter          map[string]any `json:"filter,omitempty"`
	IncludeMetadata bool           `json:"includeMetadata"`
	IncludeValues   bool           `json:"includeValues"`
}

type wireMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type queryResponse struct {
	Matches []wireMatch `json:"matches"`
}

type deleteRequest struct {
	IDs       []string       `json:"ids,omitempty"`
	DeleteAll bool           `json:"deleteAll,omitempty"`
	Filter    map[string]any `json:"filter,omitempty"`
	Namespace string         `json:"namespace,omitempty"`
}

type fetchResponse struct {
	Vectors map[string]wireVector `json:"vectors"`
}

type namespaceSummary struct {
	VectorCount int `json:"vectorCount"`
}

type statsResponse struct {
	Namespaces       map[string]namespaceSummary `json:"namespaces"`
	Dimension        int                         `json:"dimension"`
	TotalVectorCount int                         `json:"totalVectorCount"`
}

// Upsert writes records in batches of the configured size and returns the
// total count the index reports back.
func (c *Client) Upsert(ctx context.Context, records []core.VectorRecord, namespace string) (int, error) {
	total := 0
	for start := 0; start < len(records); start += c.batchSize {
		end := min(start+c.batchSize, len(records))
		batch := records[start:end]

		request := upsertRequest{
			Vectors:   make([]wireVector, len(batch)),
			Namespace: namespace,
		}
		for i, record := range batch {
			request.Vectors[i] = wireVector{
				ID:       record.ID,
				Values:   record.Values,
				Metadata: record.Metadata,
			}
		}

		var response upsertResponse
		if err := c.do(ctx, http.MethodPost, "/vectors/upsert", request, &response); err != nil {
			return total, fmt.Errorf("failed to upsert vectors: %w", err)
		}
		total += response.UpsertedCount
		c.logger.Debug("vector batch upserted",
			"count", response.UpsertedCount, "namespace", namespace)
	}

	c.logger.Info("vectors upserted", "count", total, "namespace", namespace)
	return total, nil
}

// Fetch returns the stored records for the given ids. Unknown ids are
// absent from the result.
func (c *Client) Fetch(ctx context.Context, ids []string, namespace string) (map[string]core.VectorRecord, error) {
	records := make(map[string]core.VectorRecord, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("ids", id)
	}
	if namespace != "" {
		params.Set("namespace", namespace)
	}

	var response fetchResponse
	if err := c.do(ctx, http.MethodGet, "/vectors/fetch?"+params.Encode(), nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch vectors: %w", err)
	}

	for id, vector := range response.Vectors {
		records[id] = core.VectorRecord{
			ID:       vector.ID,
			Values:   vector.Values,
			Metadata: vector.Metadata,
		}
	}
	return records, nil
}

// Query returns the topK closest records, metadata included.
func (c *Client) Query(ctx context.Context, vector []float32, topK int, filter map[string]any, namespace string) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = vectorstore.DefaultTopK
	}

	request := queryRequest{
		Namespace:       namespace,
		Vector:          vector,
		TopK:            topK,
		Filter:          filter,
		IncludeMetadata: true,
	}

	var response queryResponse
	if err := c.do(ctx, http.MethodPost, "/query", request, &response); err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	matches := make([]vectorstore.Match, len(response.Matches))
	for i, match := range response.Matches {
		matches[i] = vectorstore.Match{
			ID:       match.ID,
			Score:    match.Score,
			Metadata: match.Metadata,
		}
	}

	c.logger.Info("query returned matches", "count", len(matches), "namespace", namespace)
	return matches, nil
}

// DeleteByIDs removes the given records. An empty id list is a no-op.
func (c *Client) DeleteByIDs(ctx context.Context, ids []string, namespace string) error {
	if len(ids) == 0 {
		return nil
	}

	request := deleteRequest{IDs: ids, Namespace: namespace}
	if err := c.do(ctx, http.MethodPost, "/vectors/delete", request, nil); err != nil {
		return fmt.Errorf("failed to delete vectors: %w", err)
	}

	c.logger.Info("vectors deleted", "count", len(ids), "namespace", namespace)
	return nil
}

// DeleteByFilter removes records matching the metadata filter. A nil
// filter clears the whole namespace.
func (c *Client) DeleteByFilter(ctx context.Context, filter map[string]any, namespace string) error {
	request := deleteRequest{Namespace: namespace}
	if filter == nil {
		request.DeleteAll = true
	} else {
		request.Filter = filter
	}

	if err := c.do(ctx, http.MethodPost, "/vectors/delete", request, nil); err != nil {
		return fmt.Errorf("failed to delete vectors by filter: %w", err)
	}

	c.logger.Info("vectors deleted by filter",
		"namespace", namespace, "delete_all", request.DeleteAll)
	return nil
}

// Stats reports the index dimension and per-namespace counts.
func (c *Client) Stats(ctx context.Context) (*vectorstore.Stats, error) {
	var response statsResponse
	if err := c.do(ctx, http.MethodPost, "/describe_index_stats", struct{}{}, &response); err != nil {
		return nil, fmt.Errorf("failed to describe index: %w", err)
	}

	stats := &vectorstore.Stats{
		Dimension:  response.Dimension,
		TotalCount: response.TotalVectorCount,
		Namespaces: make(map[string]int, len(response.Namespaces)),
	}
	for name, summary := range response.Namespaces {
		stats.Namespaces[name] = summary.VectorCount
	}
	return stats, nil
}
