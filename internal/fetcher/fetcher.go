package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grantsync/internal/models"
)

const (
	DefaultBaseURL = "https://www.bizinfo.go.kr"
	endpointPath   = "/uss/rss/bizinfoApi.do"
)

var (
	ErrTransport = errors.New("transport failure")
	ErrStatus    = errors.New("unexpected status")
	ErrDecode    = errors.New("decode failure")
)

// Client обращается к API объявлений bizinfo.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	http     *http.Client
}

// NewClient создаёт клиента с фиксированным таймаутом на каждый запрос.
func NewClient(baseURL, apiKey string, pageSize int, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
	}
}

// Fetch запрашивает первую страницу объявлений для кода региона areaCode.
// API игнорирует areaCd и отдаёт данные по всей стране, так что результат нужно фильтровать.
func (c *Client) Fetch(ctx context.Context, areaCode string) ([]models.RawItem, error) {
	q := url.Values{}
	q.Set("crtfcKey", c.apiKey)
	q.Set("dataType", "json")
	q.Set("areaCd", areaCode)
	q.Set("pageIndex", "1")
	q.Set("pageUnit", strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpointPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var body map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Unwrap(body)
}

// Unwrap достаёт объявления из поля jsonArray (или items).
// Поле может быть как списком, так и одиночным объектом.
func Unwrap(body map[string]any) ([]models.RawItem, error) {
	payload, ok := body["jsonArray"]
	if !ok {
		payload = body["items"]
	}

	switch v := payload.(type) {
	case nil:
		return []models.RawItem{}, nil
	case map[string]any:
		return []models.RawItem{v}, nil
	case []any:
		items := make([]models.RawItem, 0, len(v))
		for i, el := range v {
			m, ok := el.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T", ErrDecode, i, el)
			}
			items = append(items, m)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: payload is %T", ErrDecode, payload)
	}
}
