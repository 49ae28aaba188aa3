package desktop

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ── Colour palette ───────────────────────────────────────────────────────────

var (
	colBackground = color.NRGBA{R: 12, G: 12, B: 28, A: 255}
	colSurface    = color.NRGBA{R: 28, G: 26, B: 48, A: 255}
	colDone       = color.NRGBA{R: 20, G: 34, B: 30, A: 255}
	colAccent     = color.NRGBA{R: 129, G: 140, B: 248, A: 255}
	colHighPri    = color.NRGBA{R: 239, G: 68, B: 68, A: 255}
	colMedPri     = color.NRGBA{R: 245, G: 158, B: 11, A: 255}
	colLowPri     = color.NRGBA{R: 100, G: 116, B: 139, A: 255}
	colDoneBar    = color.NRGBA{R: 76, G: 175, B: 80, A: 255}
	colTotalBar   = color.NRGBA{R: 255, G: 152, B: 0, A: 255}
)

// Theme is the planner's night-sky theme.
type Theme struct{}

var _ fyne.Theme = Theme{}

func (Theme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	switch n {
	case theme.ColorNameBackground:
		return colBackground
	case theme.ColorNameButton, theme.ColorNamePrimary:
		return colAccent
	case theme.ColorNameForeground:
		return color.White
	case theme.ColorNameInputBackground:
		return color.NRGBA{R: 38, G: 36, B: 62, A: 255}
	case theme.ColorNameSeparator:
		return color.NRGBA{R: 52, G: 50, B: 80, A: 255}
	}
	return theme.DefaultTheme().Color(n, theme.VariantDark)
}

func (Theme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (Theme) Icon(n fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(n)
}

func (Theme) Size(n fyne.ThemeSizeName) float32 {
	switch n {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameText:
		return 14
	}
	return theme.DefaultTheme().Size(n)
}
