package report

import "lorasim/internal/metrics"

// MultiWriter fans summaries and progress out to several writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a MultiWriter; nil writers are dropped.
func NewMultiWriter(ws ...Writer) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// WriteSummary sends s to every writer and returns the first error.
func (mw *MultiWriter) WriteSummary(s metrics.Summary) error {
	var firstErr error
	for _, w := range mw.writers {
		if err := w.WriteSummary(s); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WriteProgress sends p to the writers that accept progress.
func (mw *MultiWriter) WriteProgress(p metrics.Progress) error {
	var firstErr error
	for _, w := range mw.writers {
		pw, ok := w.(ProgressWriter)
		if !ok {
			continue
		}
		if err := pw.WriteProgress(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
