package common

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	return printer.Sprintf("%d", balance)
}

// FormatAmount prefixes a formatted amount with the table currency
func FormatAmount(currency string, amount int64) string {
	if amount < 0 {
		return "-" + currency + FormatBalance(-amount)
	}
	return currency + FormatBalance(amount)
}

// FormatDelta renders a settlement delta with an explicit sign
func FormatDelta(currency string, delta int64) string {
	if delta > 0 {
		return "+" + FormatAmount(currency, delta)
	}
	return FormatAmount(currency, delta)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// DieFace returns the unicode die glyph for a face between 1 and 6
func DieFace(face int) string {
	if face < 1 || face > 6 {
		return "🎲"
	}
	return string(rune('⚀' + face - 1))
}
