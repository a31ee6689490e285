package ui

import (
	"fmt"
	"io"

	"github.com/Dicklesworthstone/vmsnap/internal/model"
)

// Report headers, byte for byte as the classic vmstat prints them.
const (
	GroupHeader  = "procs -----------memory---------- ---swap-- -----io---- --system-- -----cpu------"
	ColumnHeader = " r  b   swpd   free   buff  cache   si   so    bi    bo   in   cs  us sy id wa st"
)

// widths are the minimum column widths in field order.
var widths = [model.NumFields]int{2, 2, 6, 6, 6, 6, 4, 4, 5, 5, 4, 4, 2, 2, 2, 2, 2}

// Row formats the values line of the report, without a newline.
func Row(s model.Snapshot) string {
	vals := s.Values()
	args := make([]any, 0, 2*model.NumFields)
	format := ""
	for i, v := range vals {
		if i > 0 {
			format += " "
		}
		format += "%*d"
		args = append(args, widths[i], v)
	}
	return fmt.Sprintf(format, args...)
}

// WriteReport writes the two header lines and the values line.
func WriteReport(w io.Writer, s model.Snapshot) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", GroupHeader, ColumnHeader, Row(s))
	return err
}
