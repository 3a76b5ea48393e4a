package output

import (
	"fmt"
	"io"
)

// Warnf writes a warning line to w, normally stderr.
func Warnf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "warning: "+format+"\n", args...)
}
