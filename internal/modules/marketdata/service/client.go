package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://www.okx.com"

// Client — публичный REST OKX: свечи и тикеры. Ключи не нужны.
type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

// envelope — обёртка любого ответа OKX v5.
type envelope[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

func getJSON[T any](ctx context.Context, c *Client, path string, q url.Values) (T, error) {
	var zero T

	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return zero, errors.Wrap(err, "build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return zero, errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, errors.Wrapf(err, "read %s", path)
	}
	if resp.StatusCode/100 != 2 {
		return zero, errors.Errorf("GET %s: http %d: %s", path, resp.StatusCode, string(b))
	}

	var env envelope[T]
	if err := sonic.Unmarshal(b, &env); err != nil {
		return zero, errors.Wrapf(err, "decode %s", path)
	}
	if env.Code != "0" {
		return zero, errors.Errorf("okx error: code=%s msg=%s", env.Code, env.Msg)
	}
	return env.Data, nil
}
