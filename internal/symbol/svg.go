package symbol

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// SVG returns a self-contained SVG document for the symbol.
func (s *Symbol) SVG() []byte {
	var buf bytes.Buffer
	w, h := s.Width(), s.Height()

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(w), num(h), num(w), num(h))
	fmt.Fprintf(&buf, `<rect x="0" y="0" width="%s" height="%s" fill="#ffffff"/>`, num(w), num(h))

	buf.WriteString(`<g fill="#000000">`)
	for _, bar := range s.Bars() {
		fmt.Fprintf(&buf, `<rect x="%s" y="%s" width="%s" height="%s"/>`,
			num(bar.X), num(s.opts.Margin), num(bar.Width), num(s.opts.Height))
	}

	if s.opts.DisplayValue {
		baseline := s.opts.Margin + s.opts.Height + s.opts.TextMargin + s.opts.FontSize
		fmt.Fprintf(&buf, `<text x="%s" y="%s" text-anchor="middle" font-family="monospace" font-size="%s">`,
			num(w/2), num(baseline), num(s.opts.FontSize))
		xml.EscapeText(&buf, []byte(s.Value))
		buf.WriteString(`</text>`)
	}
	buf.WriteString(`</g></svg>`)

	return buf.Bytes()
}

// num formats a length without trailing zeros.
func num(f float64) string {
	return fmt.Sprintf("%g", f)
}
