package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// LastPrice — последняя цена: сперва кэш из вебсокета,
// при холодном кэше — REST-запрос котировки.
func (c *Client) LastPrice(ctx context.Context, symbol string) (float64, error) {
	if px := c.cachedPrice(symbol); px > 0 {
		return px, nil
	}

	path := "/quote/ltp?i=" + url.QueryEscape(symbol)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, fmt.Errorf("LastPrice new request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("LastPrice: %w", err)
	}

	var payload map[string]struct {
		LastPrice float64 `json:"last_price"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("LastPrice decode: %w", err)
	}

	q, ok := payload[symbol]
	if !ok || q.LastPrice <= 0 {
		return 0, fmt.Errorf("LastPrice: no quote for %s", symbol)
	}
	c.setPrice(symbol, q.LastPrice)
	return q.LastPrice, nil
}
