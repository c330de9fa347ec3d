package service

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

const createSignalsTable = `
CREATE TABLE IF NOT EXISTS signals (
	id                BIGSERIAL PRIMARY KEY,
	symbol            TEXT        NOT NULL,
	strategy          TEXT        NOT NULL,
	action            TEXT        NOT NULL,
	confidence        DOUBLE PRECISION NOT NULL,
	price             DOUBLE PRECISION NOT NULL,
	stop_loss         DOUBLE PRECISION,
	take_profit       DOUBLE PRECISION,
	risk_reward_ratio DOUBLE PRECISION NOT NULL,
	reason            TEXT        NOT NULL,
	indicators        JSONB,
	created_at        TIMESTAMPTZ NOT NULL
)`

const createSignalsIndex = `
CREATE INDEX IF NOT EXISTS signals_symbol_created_at_idx ON signals (symbol, created_at DESC)`

const insertSignal = `
INSERT INTO signals (symbol, strategy, action, confidence, price, stop_loss, take_profit,
	risk_reward_ratio, reason, indicators, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const selectRecent = `
SELECT symbol, strategy, action, confidence, price, stop_loss, take_profit,
	risk_reward_ratio, reason, indicators, created_at
FROM signals
WHERE symbol = $1
ORDER BY created_at DESC
LIMIT $2`

// SignalStore — журнал сигналов в таблице signals.
type SignalStore struct {
	tx db.TxManager
}

func NewSignalStore(tx db.TxManager) *SignalStore {
	return &SignalStore{tx: tx}
}

func (s *SignalStore) Name() string { return "postgres" }

func (s *SignalStore) EnsureSchema(ctx context.Context) error {
	return s.tx.RunMaster(ctx, func(ctx context.Context, tx db.Transaction) error {
		if _, err := tx.Exec(ctx, createSignalsTable); err != nil {
			return errors.Wrap(err, "create signals table")
		}
		_, err := tx.Exec(ctx, createSignalsIndex)
		return errors.Wrap(err, "create signals index")
	})
}

// Accept пишет сигнал. WAIT тоже пишем: по ним видно, почему не было входа.
func (s *SignalStore) Accept(ctx context.Context, sig models.Signal) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "SignalStore.Accept")
		}
	}()

	// порог уверенности знает только стратегия, здесь проверяем структуру
	if err = sig.Validate(0); err != nil {
		return err
	}

	var indicators []byte
	if len(sig.Indicators) > 0 {
		indicators, err = sonic.Marshal(sig.Indicators)
		if err != nil {
			return err
		}
	}
	return s.tx.RunMaster(ctx, func(ctx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctx, insertSignal,
			sig.Symbol, sig.Strategy, string(sig.Action), sig.Confidence, sig.Price,
			sig.StopLoss, sig.TakeProfit, sig.RiskRewardRatio, sig.Reason, indicators, sig.CreatedAt,
		)
		return err
	})
}

// Recent — последние limit сигналов по символу, свежие первыми.
func (s *SignalStore) Recent(ctx context.Context, symbol string, limit int) (out []models.Signal, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "SignalStore.Recent")
		}
	}()

	err = s.tx.RunMaster(ctx, func(ctx context.Context, tx db.Transaction) error {
		rows, err := tx.Query(ctx, selectRecent, symbol, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				sig        models.Signal
				action     string
				indicators []byte
			)
			if err := rows.Scan(&sig.Symbol, &sig.Strategy, &action, &sig.Confidence, &sig.Price,
				&sig.StopLoss, &sig.TakeProfit, &sig.RiskRewardRatio, &sig.Reason, &indicators, &sig.CreatedAt,
			); err != nil {
				return err
			}
			sig.Action = models.Action(action)
			if len(indicators) > 0 {
				if err := sonic.Unmarshal(indicators, &sig.Indicators); err != nil {
					return err
				}
			}
			out = append(out, sig)
		}
		return rows.Err()
	})
	return out, err
}
