package service

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const maxDialBackoff = 5 * time.Second

// dialBackoff — линейный рост паузы между дозвонами с потолком.
// Стрим обязан пережить долгий даунтайм брокера, а не сдаваться:
// уходить насовсем ему нельзя, кэш цен иначе не оживёт до рестарта.
func dialBackoff(retry int) time.Duration {
	d := time.Duration(300*retry) * time.Millisecond
	if d > maxDialBackoff {
		return maxDialBackoff
	}
	return d
}

// StreamTicker держит кэш последней цены тёплым через вебсокет.
// Падение коннекта — реконнект с бэкоффом; решающий цикл от стрима
// не зависит, у него есть REST-фолбэк в LastPrice.
func (c *Client) StreamTicker(ctx context.Context, symbol string) {
	if c.wsURL == "" {
		return
	}

	retry := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, _, err := c.wsDialer.Dial(c.wsURL, nil)
		if err != nil {
			retry++
			if retry%8 == 0 {
				log.Printf("[WS] still down after %d dial attempts: %v", retry, err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(dialBackoff(retry)):
			}
			continue
		}
		retry = 0

		_ = conn.WriteJSON(map[string]any{
			"a": "subscribe",
			"v": []string{symbol},
		})

		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(15 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-stopPing:
					return
				case <-ctx.Done():
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"a": "ping"})
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				close(stopPing)
				_ = conn.Close()
				break
			}
			var frame struct {
				Type string `json:"type"`
				Data struct {
					Symbol    string  `json:"symbol"`
					LastPrice float64 `json:"last_price"`
				} `json:"data"`
			}
			if err := json.Unmarshal(msg, &frame); err == nil && frame.Type == "tick" {
				if frame.Data.LastPrice > 0 {
					c.setPrice(frame.Data.Symbol, frame.Data.LastPrice)
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(1 * time.Second)
		}
	}
}
