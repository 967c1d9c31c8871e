// Package rakuten provides a small SDK for the Rakuten Ichiba Item Search API.
//
// The client performs exactly one GET per search: no retries, no pagination
// beyond the first page and no reaction to 429 responses. Outbound requests
// are paced by a token-bucket limiter so that a single applicationId stays
// within the documented request rate.
//
// Usage pattern:
//   - pkg/rakuten - SDK (sort tokens, envelope types, result window)
//   - pkg/agent   - thin tool wrappers for LLM function calling
package rakuten

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ilkoid/rakuten-agent/pkg/config"
	"github.com/ilkoid/rakuten-agent/pkg/utils"
	"golang.org/x/time/rate"
)

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Позволяет мокировать HTTP клиент в тестах.
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client — клиент поиска товаров Rakuten Ichiba.
type Client struct {
	appID      string
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
	window     Window
}

// NewFromConfig создает новый клиент из конфигурации.
//
// Пустой app_id не является ошибкой: API вернёт отказ в авторизации
// при первом запросе.
func NewFromConfig(cfg config.RakutenConfig) (*Client, error) {
	cfg = cfg.GetDefaults()

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid rakuten.timeout format: %w", err)
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid rakuten.base_url: %w", err)
	}

	return &Client{
		appID:   cfg.AppID,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.BurstLimit),
		window:  WindowFromConfig(cfg),
	}, nil
}

// WithHTTPClient подменяет HTTP клиент (для тестов и кастомного транспорта).
func (c *Client) WithHTTPClient(h HTTPClient) *Client {
	c.httpClient = h
	return c
}

// SearchURL собирает URL запроса ровно с тремя параметрами:
// applicationId, keyword, sort.
func (c *Client) SearchURL(keyword string, sort int) string {
	q := strings.Join([]string{
		"applicationId=" + url.QueryEscape(c.appID),
		"keyword=" + escapeKeyword(keyword),
		"sort=" + url.QueryEscape(ResolveSort(sort)),
	}, "&")
	return c.baseURL + "?" + q
}

// escapeKeyword кодирует ключевое слово, пробелы передаются как %20.
func escapeKeyword(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SearchRaw выполняет один GET и возвращает разобранный конверт ответа.
func (c *Client) SearchRaw(ctx context.Context, keyword string, sort int) (*SearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(keyword, sort), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			apiErr.Code = er.Error
			apiErr.Description = er.ErrorDescription
		} else {
			apiErr.Body = string(body)
		}
		return nil, apiErr
	}

	var out SearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if out.Items == nil {
		return nil, fmt.Errorf("%w: Items array is missing", ErrUnexpectedShape)
	}

	return &out, nil
}

// Search ищет товары и возвращает их проекцию для промпта.
//
// Алгоритм:
//  1. Один запрос к API (SearchRaw)
//  2. Окно выдачи (Window.Apply)
//  3. Проекция каждого товара на ShapedItem
//
// Пустой результат — не ошибка.
func (c *Client) Search(ctx context.Context, keyword string, sort int) ([]ShapedItem, error) {
	startTime := time.Now()

	raw, err := c.SearchRaw(ctx, keyword, sort)
	if err != nil {
		utils.Error("Rakuten search failed",
			"keyword", keyword,
			"sort", ResolveSort(sort),
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds())
		return nil, err
	}

	all := *raw.Items
	windowed := Apply(c.window, all)

	items := make([]ShapedItem, 0, len(windowed))
	for _, w := range windowed {
		items = append(items, Shape(w.Item))
	}

	utils.Info("Rakuten search completed",
		"keyword", keyword,
		"sort", ResolveSort(sort),
		"items_count", len(all),
		"window_threshold", c.window.Threshold,
		"kept_count", len(items),
		"duration_ms", time.Since(startTime).Milliseconds())

	return items, nil
}
