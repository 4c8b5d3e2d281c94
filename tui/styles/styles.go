package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Color palette
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#7C3AED") // Purple
	AccentColor  = lipgloss.Color("#F59E0B") // Amber

	// Status colors
	BuyColor  = lipgloss.Color("#10B981") // Green
	SellColor = lipgloss.Color("#EF4444") // Red

	// Background colors
	BackgroundColor  = lipgloss.Color("#1F2937")
	BorderColor      = lipgloss.Color("#374151")
	FocusBorderColor = lipgloss.Color("#7C3AED")

	// Text colors
	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FocusBorderColor).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondaryColor)

	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(lipgloss.Color("#374151"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)
)

// Text styles
var (
	BuyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BuyColor)

	SellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SellColor)

	PriceUpStyle = lipgloss.NewStyle().
			Foreground(BuyColor)

	PriceDownStyle = lipgloss.NewStyle().
			Foreground(SellColor)

	StepStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	HintStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	HintMutedStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(TextSecondaryColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)
)

// Chart styles
var (
	CandleUpStyle = lipgloss.NewStyle().
			Foreground(BuyColor)

	CandleDownStyle = lipgloss.NewStyle().
			Foreground(SellColor)

	ChartAxisStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	ChartLabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(BackgroundColor).
			Foreground(TextSecondaryColor).
			Padding(0, 1)
)

// RenderTitle renders a title bar for a panel.
func RenderTitle(title string, focused bool) string {
	style := TitleStyle
	if focused {
		style = style.Foreground(FocusBorderColor)
	}
	return style.Render(title)
}

// FormatMoney formats v with the given number of decimals.
func FormatMoney(v decimal.Decimal, decimals int8) string {
	if decimals < 0 {
		decimals = 0
	}
	return v.StringFixed(int32(decimals))
}

// FormatCash formats a cash amount with at least decimals places, widening
// to the amount's own precision so sums of tape prices are never rounded.
func FormatCash(v decimal.Decimal, decimals int8) string {
	if places := -v.Exponent(); places > int32(decimals) {
		return v.StringFixed(places)
	}
	return FormatMoney(v, decimals)
}

// SignedStyle picks the up or down style by the sign of v.
func SignedStyle(v decimal.Decimal) lipgloss.Style {
	switch v.Sign() {
	case 1:
		return PriceUpStyle
	case -1:
		return PriceDownStyle
	default:
		return RowStyle
	}
}
