package utils

import "github.com/pterm/pterm"

func box() *pterm.BoxPrinter {
	return pterm.DefaultBox.WithHorizontalPadding(2)
}

func ErrorPanel(description string) string {
	return box().WithTitle(pterm.LightRed("Error")).WithTitleTopLeft().Sprint(description)
}

func SuccessPanel(title, description string) string {
	return box().WithTitle(pterm.LightGreen(title)).WithTitleTopLeft().Sprint(description)
}

func InfoPanel(title, description string) string {
	return box().WithTitle(pterm.LightCyan(title)).WithTitleTopLeft().Sprint(description)
}

// GoldPanel destaca vitórias: fim de rodada e fim de jogo.
func GoldPanel(title, description string) string {
	return box().WithTopPadding(1).WithBottomPadding(1).
		WithTitle(pterm.LightYellow(title)).WithTitleTopCenter().Sprint(description)
}
