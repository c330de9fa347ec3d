package strategy

import (
	"fmt"

	"github.com/pkg/errors"
)

// ReasonInsufficientData — reason для WAIT, когда окно не прошло проверку.
const ReasonInsufficientData = "insufficient data"

// ErrATRUnavailable — ATR не посчитан (короткое окно), размер считает вызывающий в процентах.
var ErrATRUnavailable = errors.New("atr unavailable")

// InsufficientDataError — окно не прошло валидацию.
type InsufficientDataError struct {
	Cause string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %s", ReasonInsufficientData, e.Cause)
}

// UnknownStrategyError — имени нет в реестре. Это ошибка конфигурации.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q", e.Name)
}

// InvalidRiskParametersError — ATR/множители/цена не дают корректных уровней.
type InvalidRiskParametersError struct {
	Cause string
}

func (e *InvalidRiskParametersError) Error() string {
	return "invalid risk parameters: " + e.Cause
}

func IsUnknownStrategy(err error) bool {
	var target *UnknownStrategyError
	return errors.As(err, &target)
}
