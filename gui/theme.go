//go:build gui

package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Same palette as the terminal UI: red while listening, orange errors.
var palette = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground:      color.RGBA{18, 18, 18, 255},
	theme.ColorNameForeground:      color.RGBA{200, 200, 200, 255},
	theme.ColorNameError:           color.RGBA{255, 135, 0, 255},
	theme.ColorNamePrimary:         color.RGBA{215, 0, 0, 255},
	theme.ColorNameSuccess:         color.RGBA{0, 215, 135, 255},
	theme.ColorNameDisabled:        color.RGBA{68, 68, 68, 255},
	theme.ColorNamePlaceHolder:     color.RGBA{88, 88, 88, 255},
	theme.ColorNameInputBackground: color.RGBA{28, 28, 28, 255},
}

type darkTheme struct{}

func (darkTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

func (darkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Transcript text reads slightly larger than the default body size.
func (darkTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText {
		return 15
	}
	return theme.DefaultTheme().Size(name)
}
