package fonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// BuiltinName is the family name reported for the bundled fonts.
const BuiltinName = "Go"

// Builtin returns the bundled Go font for style. It never touches the
// filesystem or network.
func Builtin(style Style) (*Family, error) {
	var data []byte
	switch style {
	case Bold:
		data = gobold.TTF
	case Italic:
		data = goitalic.TTF
	case BoldItalic:
		data = gobolditalic.TTF
	default:
		data = goregular.TTF
	}
	return Parse(BuiltinName, style, "builtin", data)
}
