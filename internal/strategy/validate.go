package strategy

import (
	"fmt"

	"signal_bot/internal/models"
)

// MinWindowLen — меньше этого окно не анализируем.
const MinWindowLen = 50

// Validate — проверка окна перед анализом. Никогда не паникует.
func Validate(w models.CandleWindow) bool {
	return CheckWindow(w) == nil
}

// CheckWindow — то же, что Validate, но с причиной.
func CheckWindow(w models.CandleWindow) error {
	for _, col := range models.RequiredColumns {
		if !w.HasColumn(col) {
			return &InsufficientDataError{Cause: fmt.Sprintf("missing column %q", col)}
		}
	}
	if n := w.Len(); n < MinWindowLen {
		return &InsufficientDataError{Cause: fmt.Sprintf("%d rows, need %d", n, MinWindowLen)}
	}
	for _, col := range models.RequiredColumns {
		if w.HasNaN(col) {
			return &InsufficientDataError{Cause: fmt.Sprintf("column %q has missing values", col)}
		}
	}
	return nil
}
