package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/mbelyaev/taskboard/internal/models"
)

// TaskIndexer mirrors task writes into a search index. The ES-backed
// implementation lives here; services depend on the interface so unit
// tests can stub it out.
type TaskIndexer interface {
	Index(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uint) error
}

type ESIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewESIndex(es *elasticsearch.Client, index string) *ESIndex {
	return &ESIndex{ES: es, IndexName: index}
}

func (s *ESIndex) Index(ctx context.Context, task *models.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("search: marshal task: %w", err)
	}

	res, err := s.ES.Index(
		s.IndexName,
		bytes.NewReader(data),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(strconv.FormatUint(uint64(task.ID), 10)),
		s.ES.Index.WithRefresh("false"),
	)
	if err != nil {
		return fmt.Errorf("search: index task: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index task: %s", res.Status())
	}
	return nil
}

func (s *ESIndex) Delete(ctx context.Context, id uint) error {
	res, err := s.ES.Delete(
		s.IndexName,
		strconv.FormatUint(uint64(id), 10),
		s.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete task: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete task: %s", res.Status())
	}
	return nil
}

func (s *ESIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Task, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.IndexName),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: query: %s", strings.TrimSpace(res.Status()))
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Task `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	tasks := make([]models.Task, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		tasks[i] = hit.Source
	}
	return r.Hits.Total.Value, tasks, nil
}
