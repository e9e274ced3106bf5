package virtview

import (
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
)

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	PrimitiveBackgroundColor tcell.Color // Main background color for primitives.
	SelectedBackgroundColor  tcell.Color // Background of the row under the cursor.
	BorderColor              tcell.Color // Box borders.
	TitleColor               tcell.Color // Box titles.
	PrimaryTextColor         tcell.Color // Primary text.
	SelectedTextColor        tcell.Color // Text of the row under the cursor.
	ScrollBarColor           tcell.Color // Scroll bar thumb.
}

// Styles defines the theme for applications. The default is for a black
// background and some basic colors.
var Styles = Theme{
	PrimitiveBackgroundColor: color.Black,
	SelectedBackgroundColor:  color.Blue,
	BorderColor:              color.White,
	TitleColor:               color.White,
	PrimaryTextColor:         color.White,
	SelectedTextColor:        color.White,
	ScrollBarColor:           color.White,
}
