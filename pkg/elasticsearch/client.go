package elasticsearch

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
	pkglogger "github.com/ourmemory/ourmemory-backend/pkg/logger"
	"github.com/tidwall/gjson"
)

// Config Elasticsearch 접속 설정
type Config struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
}

// Client is an Elasticsearch client bound to a single index
type Client struct {
	es    *elasticsearch.Client
	index string
}

// NewClient creates a client and checks connectivity
func NewClient(cfg Config) (*Client, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("elasticsearch index is required")
	}
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation failed: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch connection failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	pkglogger.GetLogger().Info().Str("index", cfg.Index).Msg("connected to Elasticsearch")
	return &Client{es: es, index: cfg.Index}, nil
}

// Index returns the bound index name
func (c *Client) Index() string { return c.index }

// EnsureIndex creates the index with mapping when it does not exist yet
func (c *Client) EnsureIndex(ctx context.Context, mapping map[string]interface{}) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := encode(mapping)
	if err != nil {
		return err
	}
	res, err = c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithBody(body),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		// 다른 인스턴스가 먼저 만든 경우
		if strings.Contains(string(raw), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("create index [%s]: %s", res.Status(), raw)
	}
	return nil
}

// Put indexes (creates or replaces) one document
func (c *Client) Put(ctx context.Context, id string, doc interface{}) error {
	body, err := encode(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: id,
		Body:       body,
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index document %s [%s]: %s", id, res.Status(), raw)
	}
	return nil
}

// Remove deletes one document; a missing document is not an error
func (c *Client) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      c.index,
		DocumentID: id,
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		raw, _ := io.ReadAll(res.Body)
		return fmt.Errorf("delete document %s [%s]: %s", id, res.Status(), raw)
	}
	return nil
}

// SearchIDs runs query and returns matching document ids in score order
func (c *Client) SearchIDs(ctx context.Context, query map[string]interface{}, size int) ([]string, int64, error) {
	body, err := encode(query)
	if err != nil {
		return nil, 0, err
	}
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(body),
		c.es.Search.WithSize(size),
		c.es.Search.WithSource("false"),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, err
	}
	if res.IsError() {
		return nil, 0, fmt.Errorf("search [%s]: %s", res.Status(), raw)
	}

	ids, total := parseHits(raw)
	return ids, total, nil
}

func parseHits(raw []byte) ([]string, int64) {
	result := gjson.ParseBytes(raw)
	hits := result.Get("hits.hits.#._id").Array()
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.String())
	}
	return ids, result.Get("hits.total.value").Int()
}

func encode(v interface{}) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return &buf, nil
}
