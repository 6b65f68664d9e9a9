package pkg

import (
	"io"
	"os"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers. A failing writer
// does not stop the others; the write only fails when no writer accepted it.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w != nil {
			cw.Writers = append(cw.Writers, w)
		}
	}
	return cw
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var errs error
	ok := 0
	for _, w := range cw.Writers {
		if _, err := w.Write(p); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		ok++
	}
	if ok == 0 && len(cw.Writers) > 0 {
		return 0, errs
	}
	return len(p), errs
}

// Close closes the writers that are closers, leaving the std streams open.
func (cw *CombinedWriter) Close() error {
	var errs error
	for _, w := range cw.Writers {
		if w == os.Stdout || w == os.Stderr {
			continue
		}
		if c, ok := w.(io.Closer); ok {
			errs = multierr.Append(errs, c.Close())
		}
	}
	return errs
}
