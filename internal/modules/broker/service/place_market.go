package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"intraday_bot/internal/models"
)

// ErrOrderRejected — отказ на стороне брокера. Наверху это мягкая
// ошибка цикла: фиксируется в риск-менеджере, процесс живёт дальше.
var ErrOrderRejected = errors.New("order rejected")

// PlaceMarket — рыночный ордер. Возвращает orderId.
func (c *Client) PlaceMarket(
	ctx context.Context,
	symbol string,
	side models.Side,
	qty int,
	product string,
) (string, error) {

	if side != models.SideBuy && side != models.SideSell {
		return "", fmt.Errorf("PlaceMarket: unknown side %q", side)
	}
	if qty <= 0 {
		return "", fmt.Errorf("PlaceMarket: qty <= 0")
	}

	exchange, tradingsymbol, ok := strings.Cut(symbol, ":")
	if !ok {
		return "", fmt.Errorf("PlaceMarket: symbol %q, want EXCHANGE:SYMBOL", symbol)
	}

	body := map[string]any{
		"exchange":         exchange,
		"tradingsymbol":    tradingsymbol,
		"transaction_type": string(side),
		"quantity":         qty,
		"order_type":       "MARKET",
		"product":          product,
		"variety":          "regular",
	}

	payload, err := sonic.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("PlaceMarket marshal: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/orders/regular", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("PlaceMarket new request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("PlaceMarket: %w: %w", ErrOrderRejected, err)
	}

	var r struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("PlaceMarket decode: %w", err)
	}
	if r.OrderID == "" {
		return "", fmt.Errorf("PlaceMarket: %w: empty order_id", ErrOrderRejected)
	}
	return r.OrderID, nil
}
