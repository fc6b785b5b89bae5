package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"intraday_bot/internal/models"
)

// OpenPositions — дневные позиции для команды /positions в Telegram.
func (c *Client) OpenPositions(ctx context.Context) ([]models.OpenPosition, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/portfolio/positions", nil)
	if err != nil {
		return nil, fmt.Errorf("OpenPositions new request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenPositions: %w", err)
	}

	var r struct {
		Day []struct {
			Exchange      string  `json:"exchange"`
			Tradingsymbol string  `json:"tradingsymbol"`
			Quantity      float64 `json:"quantity"`
			AveragePrice  float64 `json:"average_price"`
			LastPrice     float64 `json:"last_price"`
			Pnl           float64 `json:"pnl"`
		} `json:"day"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("OpenPositions decode: %w", err)
	}

	res := make([]models.OpenPosition, 0, len(r.Day))
	for _, d := range r.Day {
		if d.Quantity == 0 {
			continue
		}
		side := models.SideBuy
		qty := d.Quantity
		if qty < 0 {
			side = models.SideSell
			qty = -qty
		}
		res = append(res, models.OpenPosition{
			Symbol:        d.Exchange + ":" + d.Tradingsymbol,
			Side:          side,
			Qty:           qty,
			Entry:         d.AveragePrice,
			LastPrice:     d.LastPrice,
			UnrealizedPnl: d.Pnl,
			Updated:       time.Now(),
		})
	}
	return res, nil
}
