package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"

	"intraday_bot/internal/models"
)

// GetCandles — исторические свечи за lookbackDays дней.
// Брокер может вернуть меньше, чем просили: история короткая,
// решает вызывающая сторона.
func (c *Client) GetCandles(
	ctx context.Context,
	symbol string,
	interval models.Interval,
	lookbackDays int,
) ([]models.Candle, error) {

	if lookbackDays <= 0 {
		return nil, fmt.Errorf("GetCandles: lookbackDays <= 0")
	}

	path := fmt.Sprintf("/instruments/historical/%s/%s?days=%d",
		url.PathEscape(symbol), interval, lookbackDays)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("GetCandles new request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("GetCandles: %w", err)
	}

	// candles: [[ts, open, high, low, close, volume], ...]
	var payload struct {
		Candles [][]interface{} `json:"candles"`
	}
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("GetCandles decode: %w", err)
	}

	out := make([]models.Candle, 0, len(payload.Candles))
	for _, raw := range payload.Candles {
		if len(raw) < 6 {
			continue
		}
		ts, ok := raw[0].(string)
		if !ok {
			continue
		}
		start, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			continue
		}
		c := models.Candle{Start: start}
		vals := [5]float64{}
		bad := false
		for i := 0; i < 5; i++ {
			f, ok := raw[i+1].(float64)
			if !ok {
				bad = true
				break
			}
			vals[i] = f
		}
		if bad {
			continue
		}
		c.Open, c.High, c.Low, c.Close, c.Volume = vals[0], vals[1], vals[2], vals[3], vals[4]
		switch interval {
		case models.IntervalHour:
			c.End = start.Add(time.Hour)
		default:
			c.End = start.Add(5 * time.Minute)
		}
		out = append(out, c)
	}
	return out, nil
}
