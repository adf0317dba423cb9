// Package datagokr talks to the public medical institution services
// published on data.go.kr (pharmacies, hospitals, emergency rooms).
package datagokr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
	"github.com/aicaremanager/backend/pkg/config"
	apperrors "github.com/aicaremanager/backend/pkg/errors"
)

const (
	defaultBaseURL     = "http://apis.data.go.kr/B552657"
	defaultHTTPTimeout = 8 * time.Second
	pageNo             = "1"
	numOfRows          = "100"
	maxBodyBytes       = 8 << 20
)

var operationPaths = map[entities.FacilityKind]string{
	entities.FacilityKindPharmacy:  "/ErmctInsttInfoInqireService/getParmacyListInfoInqire",
	entities.FacilityKindHospital:  "/HsptlAsembySearchService/getHsptlMdcncListInfoInqire",
	entities.FacilityKindEmergency: "/ErmctInsttInfoInqireService/getEgytListInfoInqire",
}

// Client fetches raw institution records. It performs exactly one request
// per call and never retries.
type Client struct {
	serviceKey string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewClient creates a client from configuration
func NewClient(cfg *config.DataGoKrConfig, metrics *observability.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return NewClientWithOptions(cfg.ServiceKey, cfg.BaseURL, &http.Client{Timeout: timeout}, metrics)
}

// NewClientWithOptions allows overriding base URL and HTTP client (used for tests).
func NewClientWithOptions(serviceKey, baseURL string, httpClient *http.Client, metrics *observability.Metrics) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		serviceKey: serviceKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		metrics:    metrics,
	}
}

var _ providers.FacilitySource = (*Client)(nil)

// FetchRecords calls the operation for kind with the region scope.
// Transport failures and non-2xx answers are EXTERNAL errors, undecodable
// bodies are MALFORMED errors.
func (c *Client) FetchRecords(ctx context.Context, kind entities.FacilityKind, scope entities.RegionScope) ([]entities.RawRecord, error) {
	path, ok := operationPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown facility kind %q", kind)
	}

	ctx, span := observability.StartSpan(ctx, "datagokr.fetch."+string(kind))
	defer span.End()

	start := time.Now()
	records, err := c.fetch(ctx, path, scope)
	observability.RecordUpstreamMetric(ctx, c.metrics, string(kind), err == nil, time.Since(start))
	observability.RecordError(span, err)

	if err != nil {
		return nil, err
	}
	observability.LoggerFromContext(ctx).Debug().
		Str("kind", string(kind)).
		Str("q0", scope.Province).
		Str("q1", scope.District).
		Int("records", len(records)).
		Msg("fetched data.go.kr records")
	return records, nil
}

func (c *Client) fetch(ctx context.Context, path string, scope entities.RegionScope) ([]entities.RawRecord, error) {
	params := url.Values{}
	params.Set("serviceKey", c.serviceKey)
	params.Set("Q0", scope.Province)
	if scope.District != "" {
		params.Set("Q1", scope.District)
	}
	params.Set("pageNo", pageNo)
	params.Set("numOfRows", numOfRows)
	params.Set("_type", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to build data.go.kr request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("data.go.kr request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(fmt.Sprintf("data.go.kr returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read data.go.kr response", err)
	}

	return DecodeEnvelope(body)
}

// DecodeEnvelope extracts response.body.items.item from a data.go.kr JSON
// answer. An absent, empty-string or null item list is an empty slice; a
// single object becomes a one-element slice. Number literals are kept as
// json.Number so "0900"-style fields are never reformatted.
func DecodeEnvelope(body []byte) ([]entities.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, apperrors.NewMalformedError("data.go.kr response is not JSON", err)
	}

	itemsNode := lookup(root, "response", "body", "items")
	var itemNode interface{}
	switch items := itemsNode.(type) {
	case map[string]interface{}:
		itemNode = items["item"]
	case []interface{}:
		itemNode = items
	default:
		// absent, null or ""
		return []entities.RawRecord{}, nil
	}

	switch item := itemNode.(type) {
	case map[string]interface{}:
		return []entities.RawRecord{entities.RawRecord(item)}, nil
	case []interface{}:
		records := make([]entities.RawRecord, 0, len(item))
		for _, entry := range item {
			if obj, ok := entry.(map[string]interface{}); ok {
				records = append(records, entities.RawRecord(obj))
			}
		}
		return records, nil
	default:
		return []entities.RawRecord{}, nil
	}
}

func lookup(node interface{}, path ...string) interface{} {
	for _, key := range path {
		obj, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}
		node = obj[key]
	}
	return node
}
