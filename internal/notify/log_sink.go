package notify

import (
	"context"

	"go.uber.org/zap"

	"signal_bot/internal/models"
)

// LogSink пишет сигналы в лог. Работает всегда, даже без Telegram и Postgres.
type LogSink struct{ log *zap.Logger }

func NewLogSink(log *zap.Logger) *LogSink { return &LogSink{log: log} }

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Accept(_ context.Context, sig models.Signal) error {
	fields := []zap.Field{
		zap.String("symbol", sig.Symbol),
		zap.String("strategy", sig.Strategy),
		zap.String("action", string(sig.Action)),
		zap.Float64("confidence", sig.Confidence),
		zap.Float64("price", sig.Price),
		zap.String("reason", sig.Reason),
	}
	if sig.StopLoss != nil && sig.TakeProfit != nil {
		fields = append(fields,
			zap.Float64("stop_loss", *sig.StopLoss),
			zap.Float64("take_profit", *sig.TakeProfit),
			zap.Float64("rr", sig.RiskRewardRatio),
		)
	}
	if sig.IsEntry() {
		s.log.Info("signal", fields...)
	} else {
		s.log.Debug("signal", fields...)
	}
	return nil
}
