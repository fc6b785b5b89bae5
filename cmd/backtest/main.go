package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"intraday_bot/internal/engine"
	"intraday_bot/internal/models"
)

// Оффлайн-прогон решающего пайплайна по CSV с 5-минутными свечами.
// Часовой таймфрейм агрегируется из тех же баров. Исполнение
// упрощённое: вход по close сигнального бара, выход по SL/TP.

type result struct {
	trades int
	wins   int
	losses int
	pnlPct float64
}

func main() {
	viper.SetConfigName("backtest")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")
	viper.AddConfigPath(".")

	viper.SetDefault("capital", 100000.0)
	viper.SetDefault("stop_loss_pct", 0.2)
	viper.SetDefault("take_profit_pct", 0.5)
	viper.SetDefault("risk_pct", 2.0)
	viper.SetDefault("volume_window", 20)
	viper.SetDefault("volume_multiplier", 1.5)
	viper.SetDefault("min_atr", 20.0)
	viper.SetDefault("min_adx", 20.0)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("read backtest config: %w", err))
		}
	}

	csvPath := viper.GetString("csv")
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	if csvPath == "" {
		fmt.Println("usage: backtest <candles.csv> (или ключ csv в configs/backtest.yaml)")
		os.Exit(2)
	}

	candles, err := loadCandles(csvPath)
	if err != nil {
		panic(err)
	}
	fmt.Printf("загружено %d баров из %s\n", len(candles), csvPath)

	res := replay(candles)
	fmt.Printf("сделок: %d, прибыльных: %d, убыточных: %d, итог: %+.2f%%\n",
		res.trades, res.wins, res.losses, res.pnlPct)
}

// loadCandles читает CSV: timestamp,open,high,low,close,volume.
// Первая строка-заголовок пропускается, если timestamp не парсится.
func loadCandles(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	var candles []models.Candle
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv row")
		}
		if len(rec) < 6 {
			return nil, errors.Errorf("row has %d columns, want 6", len(rec))
		}

		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			if len(candles) == 0 {
				continue // заголовок
			}
			return nil, errors.Wrapf(err, "parse timestamp %q", rec[0])
		}

		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parse column %d", i+1)
			}
			vals[i] = v
		}

		candles = append(candles, models.Candle{
			Start:  ts,
			End:    ts.Add(5 * time.Minute),
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	return candles, nil
}

// aggregateHourly собирает часовые бары из 5-минутных.
func aggregateHourly(fiveMin []models.Candle) []models.Candle {
	var hourly []models.Candle
	for _, c := range fiveMin {
		h := c.Start.Truncate(time.Hour)
		if len(hourly) == 0 || !hourly[len(hourly)-1].Start.Equal(h) {
			hourly = append(hourly, models.Candle{
				Start: h, End: h.Add(time.Hour),
				Open: c.Open, High: c.High, Low: c.Low, Close: c.Close, Volume: c.Volume,
			})
			continue
		}
		last := &hourly[len(hourly)-1]
		last.High = math.Max(last.High, c.High)
		last.Low = math.Min(last.Low, c.Low)
		last.Close = c.Close
		last.Volume += c.Volume
	}
	return hourly
}

func replay(candles []models.Candle) result {
	const warmup = 250

	fcfg := engine.FilterConfig{
		VolumeWindow:     viper.GetInt("volume_window"),
		VolumeMultiplier: viper.GetFloat64("volume_multiplier"),
		MinATR:           viper.GetFloat64("min_atr"),
		MinADX:           viper.GetFloat64("min_adx"),
	}
	slPct := viper.GetFloat64("stop_loss_pct") / 100
	tpPct := viper.GetFloat64("take_profit_pct") / 100

	predictor := engine.NewPredictor()
	var res result

	for i := warmup; i < len(candles)-1; i++ {
		window := candles[:i]
		hourBars := aggregateHourly(window)

		trend := engine.CheckMultiTimeframeTrend(hourBars, window)
		emaTrend := engine.CheckEmaTrend(tailOf(window, 200))

		snap := engine.TakeSnapshot(tailOf(window, 50))
		if !engine.VolumeFilter(window, fcfg).Admit ||
			!engine.VolatilityFilter(snap, fcfg).Admit ||
			emaTrend == models.EmaSideways {
			continue
		}

		x, labels := engine.BuildFeatures(tailOf(window, 200))
		mlSignal, err := predictor.Predict(x, labels)
		if err != nil {
			continue
		}

		var side models.Side
		switch {
		case trend == models.TrendBullish && emaTrend == models.EmaStrongBuy && mlSignal == models.MlBuy:
			side = models.SideBuy
		case trend == models.TrendBearish && emaTrend == models.EmaStrongSell && mlSignal == models.MlSell:
			side = models.SideSell
		default:
			continue
		}

		entry := candles[i-1].Close
		pnl, exitIdx := simulateExit(candles, i, side, entry, slPct, tpPct)
		res.trades++
		res.pnlPct += pnl
		if pnl > 0 {
			res.wins++
		} else {
			res.losses++
		}
		i = exitIdx // одна позиция за раз
	}
	return res
}

// simulateExit гоняет бары вперёд до срабатывания SL или TP.
// Если до конца данных не сработало ни то ни другое — выход по
// последнему close.
func simulateExit(candles []models.Candle, from int, side models.Side, entry, slPct, tpPct float64) (float64, int) {
	var sl, tp float64
	if side == models.SideBuy {
		sl, tp = entry*(1-slPct), entry*(1+tpPct)
	} else {
		sl, tp = entry*(1+slPct), entry*(1-tpPct)
	}

	for i := from; i < len(candles); i++ {
		c := candles[i]
		if side == models.SideBuy {
			if c.Low <= sl {
				return -slPct * 100, i
			}
			if c.High >= tp {
				return tpPct * 100, i
			}
		} else {
			if c.High >= sl {
				return -slPct * 100, i
			}
			if c.Low <= tp {
				return tpPct * 100, i
			}
		}
	}

	last := candles[len(candles)-1].Close
	pnl := (last - entry) / entry * 100
	if side == models.SideSell {
		pnl = -pnl
	}
	return pnl, len(candles) - 1
}

func tailOf(candles []models.Candle, n int) []models.Candle {
	if len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}
