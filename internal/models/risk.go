package models

import "time"

// RiskState — явное состояние риск-менеджера, а не глобальные счётчики.
// Передаётся и возвращается целиком, чтобы логика оставалась тестируемой.
type RiskState struct {
	TradesToday       int
	ConsecutiveLosses int
	CooldownUntil     time.Time // zero value — кулдауна нет
}

// InCooldown — неблокирующая проверка, никаких sleep.
func (s RiskState) InCooldown(now time.Time) bool {
	return !s.CooldownUntil.IsZero() && now.Before(s.CooldownUntil)
}
