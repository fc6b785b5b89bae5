package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AvailableCapital — свободные средства на счёте (equity для сайзинга).
func (c *Client) AvailableCapital(ctx context.Context) (float64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/user/margins/equity", nil)
	if err != nil {
		return 0, fmt.Errorf("AvailableCapital new request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("AvailableCapital: %w", err)
	}

	var r struct {
		Net       float64 `json:"net"`
		Available struct {
			Cash float64 `json:"cash"`
		} `json:"available"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return 0, fmt.Errorf("AvailableCapital decode: %w", err)
	}

	capital := r.Available.Cash
	if capital <= 0 {
		capital = r.Net
	}
	if capital <= 0 {
		return 0, fmt.Errorf("AvailableCapital: capital <= 0")
	}
	return capital, nil
}

// CheckAuth — прогрев авторизации на старте. 403 здесь — фатально:
// дальше жить бессмысленно, уведомляем и выходим.
func (c *Client) CheckAuth(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/user/profile", nil)
	if err != nil {
		return fmt.Errorf("CheckAuth new request: %w", err)
	}
	if _, err := c.do(req); err != nil {
		return fmt.Errorf("CheckAuth: %w", err)
	}
	return nil
}
