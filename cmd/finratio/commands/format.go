package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const keyWidth = 28

// PrintHeader prints a titled block header
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintSection prints a sub-section title
func PrintSection(title string) {
	fmt.Println()
	fmt.Printf("── %s ", title)
	fmt.Println(strings.Repeat("─", max(0, 56-len([]rune(title)))))
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Printf("   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// FormatAmount renders v with two decimals and thousands separators
// Example: 1234567.891 → 1,234,567.89
func FormatAmount(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var result []rune
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, c)
	}
	return sign + string(result) + "." + frac
}

// FormatPercent renders a rate as a percentage with two decimals
// Example: 0.07125 → 7.13%
func FormatPercent(rate float64) string {
	return decimal.NewFromFloat(rate).Shift(2).StringFixed(2) + "%"
}

// FormatSeries renders a series as [a, b, c] with FormatAmount
func FormatSeries(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatAmount(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
