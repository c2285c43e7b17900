package ui

import (
	"fmt"
	"html/template"
	"image/color"
	"strings"
)

// --- カスタムテーマ定義 ---

// Theme はページの配色とサイズです。CSS カスタムプロパティとしてテンプレートに埋め込みます。
type Theme struct {
	Colors []themeColor
	Sizes  []themeSize
}

type themeColor struct {
	Name  string
	Value color.NRGBA
}

type themeSize struct {
	Name string
	Px   float32
}

// NewMyTheme はダークテーマを返します。
func NewMyTheme() Theme {
	return Theme{
		Colors: []themeColor{
			{"background", color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}},
			{"primary", color.NRGBA{R: 0x03, G: 0xa9, B: 0xf4, A: 0xff}},
			{"button", color.NRGBA{R: 0x42, G: 0x42, B: 0x42, A: 0xff}},
			{"input-border", color.NRGBA{R: 0x52, G: 0x52, B: 0x52, A: 0xff}},
			{"placeholder", color.NRGBA{R: 0x75, G: 0x75, B: 0x75, A: 0xff}},
			{"scrollbar", color.NRGBA{R: 0x03, G: 0xa9, B: 0xf4, A: 0x77}},
			{"shadow", color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x50}},
			{"foreground", color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}},
			{"hover", color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}},
			{"disabled", color.NRGBA{R: 0x61, G: 0x61, B: 0x61, A: 0xff}},
			{"input-background", color.NRGBA{R: 0x2c, G: 0x2c, B: 0x2c, A: 0xff}},
			{"sidebar", color.NRGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xff}},
			{"success", color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}},
			{"warning", color.NRGBA{R: 0xf9, G: 0xa8, B: 0x25, A: 0xff}},
			{"error", color.NRGBA{R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff}},
		},
		Sizes: []themeSize{
			{"padding", 8},
			{"inline-icon", 20},
			{"scrollbar", 10},
			{"text", 14},
			{"heading-text", 20},
			{"subheading-text", 16},
			{"caption-text", 12},
			{"input-border", 1},
		},
	}
}

// CSS は ":root" に置く変数宣言を返します (例: --color-primary: #03a9f4;)。
func (t Theme) CSS() template.CSS {
	var sb strings.Builder
	for _, c := range t.Colors {
		fmt.Fprintf(&sb, "--color-%s: %s; ", c.Name, cssColor(c.Value))
	}
	for _, s := range t.Sizes {
		fmt.Fprintf(&sb, "--size-%s: %gpx; ", s.Name, s.Px)
	}
	return template.CSS(strings.TrimSpace(sb.String()))
}

func cssColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.3g)", c.R, c.G, c.B, float64(c.A)/255)
}
