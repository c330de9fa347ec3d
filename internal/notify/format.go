package notify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/models"
)

var actionEmoji = map[models.Action]string{
	models.ActionBuy:  "🟢",
	models.ActionSell: "🔴",
	models.ActionWait: "⏸",
}

// FormatSignal — текст сигнала для чата (Markdown).
func FormatSignal(s models.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s* `%s` @ `%s`\n", actionEmoji[s.Action], s.Action, s.Symbol, fnum(s.Price))
	fmt.Fprintf(&b, "Стратегия: `%s`, уверенность: `%.0f%%`\n", s.Strategy, s.Confidence*100)
	if s.StopLoss != nil && s.TakeProfit != nil {
		fmt.Fprintf(&b, "SL: `%s`  TP: `%s`  RR: `%.2f`\n", fnum(*s.StopLoss), fnum(*s.TakeProfit), s.RiskRewardRatio)
	}
	if s.Reason != "" {
		b.WriteString(tgbot.EscapeText(tgbot.ModeMarkdown, s.Reason))
		b.WriteString("\n")
	}
	if len(s.Indicators) > 0 {
		keys := make([]string, 0, len(s.Indicators))
		for k := range s.Indicators {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+fnum(s.Indicators[k]))
		}
		fmt.Fprintf(&b, "`%s`\n", strings.Join(parts, " "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
