// Package escpos drives thermal receipt printers speaking ESC/POS, over TCP or a
// local USB printer device.
package escpos

import (
	"bytes"

	"restaurant/internal/core/domain/model/ticket"

	"golang.org/x/text/encoding/charmap"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A

	// codePage850 is the ESC t table number of PC850 (Multilingual Latin I).
	codePage850 = 2

	feedBeforeCut = 4
)

var (
	cmdInit     = []byte{esc, '@'}
	cmdCodePage = []byte{esc, 't', codePage850}
	cmdCut      = []byte{gs, 'V', 66, 0}
)

// Encode renders a layout as ESC/POS bytes. Text is transcoded to code page 850;
// characters outside it (emoji and the like) are printed as '?'.
func Encode(layout ticket.Layout) []byte {
	var buf bytes.Buffer
	buf.Write(cmdInit)
	buf.Write(cmdCodePage)

	for _, line := range layout.Lines {
		buf.Write([]byte{esc, 'a', alignment(line.Align)})
		buf.Write([]byte{esc, 'E', boolByte(line.Bold)})
		writeText(&buf, line.Text)
		buf.WriteByte(lf)
	}

	buf.Write([]byte{esc, 'E', 0})
	buf.Write([]byte{esc, 'a', 0})
	if layout.Cut {
		buf.Write([]byte{esc, 'd', feedBeforeCut})
		buf.Write(cmdCut)
	}
	return buf.Bytes()
}

func writeText(buf *bytes.Buffer, text string) {
	for _, r := range text {
		if r == '\n' || r == '\r' {
			r = ' '
		}
		b, ok := charmap.CodePage850.EncodeRune(r)
		if !ok {
			b = '?'
		}
		buf.WriteByte(b)
	}
}

func alignment(a ticket.Align) byte {
	switch a {
	case ticket.Center:
		return 1
	case ticket.Right:
		return 2
	case ticket.Left:
	}
	return 0
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
