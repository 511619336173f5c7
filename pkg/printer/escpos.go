// Package printer renders receipts as ESC/POS byte streams for 58mm and
// 80mm thermal printers.
package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sangkips/fnb-pos/pkg/textnorm"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11
)

// Document builds an ESC/POS byte stream. Most cheap printers only carry
// an ASCII code page, so text is written without Vietnamese diacritics.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document; 32 columns for 58mm paper, 48 for 80mm
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes one line
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(plain(s))
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key on the left and value flush right
func (d *Document) KeyValue(key, value string) *Document {
	return d.spread(plain(key), plain(value))
}

// ItemLine prints "2x Name" with the line total flush right
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.spread(fmt.Sprintf("%dx %s", qty, plain(name)), total)
}

func (d *Document) spread(left, right string) *Document {
	spaces := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(right)
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func plain(s string) string {
	return textnorm.StripDiacritics(s)
}

// FormatVND formats an amount with dot thousands separators, e.g. 45.000
func FormatVND(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
