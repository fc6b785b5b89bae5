package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"intraday_bot/internal/modules/config"
)

// Client — REST-клиент брокера плюс кэш последних цен из вебсокета.
// Авторизация токеном в заголовке, как у Kite-подобных API.
type Client struct {
	http     *http.Client
	wsDialer *websocket.Dialer

	baseURL     string
	wsURL       string
	apiKey      string
	accessToken string

	mu     sync.RWMutex
	prices map[string]float64
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:        &http.Client{Timeout: 10 * time.Second},
		wsDialer:    &websocket.Dialer{},
		baseURL:     cfg.Broker.BaseURL,
		wsURL:       cfg.Broker.WSURL,
		apiKey:      cfg.Broker.APIKey,
		accessToken: cfg.Broker.AccessToken,
		prices:      make(map[string]float64),
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.apiKey, c.accessToken))
	req.Header.Set("X-Client-Version", "3")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// apiEnvelope — общий конверт ответов брокера.
type apiEnvelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	ErrorType string          `json:"error_type"`
	Data      json.RawMessage `json:"data"`
}

// do выполняет запрос и разворачивает конверт. Не-2xx и status!="success"
// превращаются в ошибку с телом ответа.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(rb))
	}

	var env apiEnvelope
	if err := json.Unmarshal(rb, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w; body=%s", err, string(rb))
	}
	if env.Status != "success" {
		return nil, fmt.Errorf("broker error: type=%s msg=%s", env.ErrorType, env.Message)
	}
	return env.Data, nil
}

func (c *Client) setPrice(symbol string, price float64) {
	c.mu.Lock()
	c.prices[symbol] = price
	c.mu.Unlock()
}

func (c *Client) cachedPrice(symbol string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prices[symbol]
}
