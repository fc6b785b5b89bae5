package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"intraday_bot/internal/models"
)

// PlaceTpsl — двухногий GTT-триггер (OCO): стоп и тейк разом.
// Брокер не гарантирует брекет на рыночный ордер, поэтому ноги
// вешаются отдельным запросом best-effort: ошибка здесь не фатальна,
// вход уже состоялся.
func (c *Client) PlaceTpsl(
	ctx context.Context,
	symbol string,
	side models.Side,
	qty int,
	sl, tp float64,
) error {

	if sl <= 0 || tp <= 0 {
		return fmt.Errorf("PlaceTpsl: sl/tp <= 0")
	}

	exchange, tradingsymbol, ok := strings.Cut(symbol, ":")
	if !ok {
		return fmt.Errorf("PlaceTpsl: symbol %q, want EXCHANGE:SYMBOL", symbol)
	}

	// закрывающая сторона противоположна входу
	closeSide := models.SideSell
	if side == models.SideSell {
		closeSide = models.SideBuy
	}

	leg := func(price float64) map[string]any {
		return map[string]any{
			"exchange":         exchange,
			"tradingsymbol":    tradingsymbol,
			"transaction_type": string(closeSide),
			"quantity":         qty,
			"order_type":       "LIMIT",
			"price":            price,
		}
	}

	body := map[string]any{
		"type":           "two-leg",
		"exchange":       exchange,
		"tradingsymbol":  tradingsymbol,
		"trigger_values": []float64{sl, tp},
		"orders":         []map[string]any{leg(sl), leg(tp)},
	}

	payload, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("PlaceTpsl marshal: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/gtt/triggers", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("PlaceTpsl new request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return fmt.Errorf("PlaceTpsl: %w", err)
	}

	var r struct {
		TriggerID int64 `json:"trigger_id"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("PlaceTpsl decode: %w", err)
	}
	if r.TriggerID == 0 {
		return fmt.Errorf("PlaceTpsl: empty trigger_id")
	}
	return nil
}
