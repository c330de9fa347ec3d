package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"signal_bot/internal/models"
)

// максимум строк за один запрос /market/candles
const candlesPageLimit = 300

// GetCandles — последние length закрытых свечей по возрастанию времени.
// Строка OKX: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm].
func (c *Client) GetCandles(ctx context.Context, instID, timeframe string, length int) ([]models.Candle, error) {
	if length <= 0 {
		length = 100
	}
	bar, err := okxBar(timeframe)
	if err != nil {
		return nil, err
	}

	// +1: последняя свеча обычно ещё не закрыта
	want := length + 1
	rows := make([][]string, 0, want)
	after := ""
	for len(rows) < want {
		q := url.Values{}
		q.Set("instId", instID)
		q.Set("bar", bar)
		q.Set("limit", strconv.Itoa(min(want-len(rows), candlesPageLimit)))
		if after != "" {
			q.Set("after", after)
		}
		page, err := getJSON[[][]string](ctx, c, "/api/v5/market/candles", q)
		if err != nil {
			return nil, errors.Wrapf(err, "candles %s %s", instID, bar)
		}
		if len(page) == 0 {
			break
		}
		rows = append(rows, page...)
		// OKX отдаёт newest-first, следующая страница — старше последней строки
		last := page[len(page)-1]
		if len(last) == 0 || last[0] == after {
			break
		}
		after = last[0]
	}

	out := make([]models.Candle, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		cd, ok := parseCandleRow(rows[i])
		if !ok {
			continue
		}
		out = append(out, cd)
	}
	if len(out) > length {
		out = out[len(out)-length:]
	}
	c.log.Debug("candles fetched",
		zap.String("inst_id", instID),
		zap.String("bar", bar),
		zap.Int("rows", len(out)),
	)
	return out, nil
}

// FetchWindow — источник окон для evaluator.
func (c *Client) FetchWindow(ctx context.Context, symbol, timeframe string, length int) (models.CandleWindow, error) {
	candles, err := c.GetCandles(ctx, symbol, timeframe, length)
	if err != nil {
		return models.CandleWindow{}, err
	}
	if len(candles) == 0 {
		return models.CandleWindow{}, errors.Errorf("no closed candles for %s %s", symbol, timeframe)
	}
	return models.NewCandleWindow(candles), nil
}

func parseCandleRow(row []string) (models.Candle, bool) {
	if len(row) < 6 {
		return models.Candle{}, false
	}
	// confirm=0 — свеча ещё формируется
	if len(row) >= 9 && row[8] == "0" {
		return models.Candle{}, false
	}
	tsMs, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Candle{}, false
	}
	var vals [5]float64
	for i := range vals {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return models.Candle{}, false
		}
		vals[i] = v
	}
	if vals[3] <= 0 {
		return models.Candle{}, false
	}
	return models.Candle{
		Start:  time.UnixMilli(tsMs).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, true
}
