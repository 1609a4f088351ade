package trace

import (
	"encoding/json"
	"os"
)

// FileRecorder writes raw events to a JSONL file.
type FileRecorder struct {
	f   *os.File
	enc *json.Encoder
}

// NewFileRecorder creates or truncates path.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{f: f, enc: json.NewEncoder(f)}, nil
}

// Record appends one event.
func (r *FileRecorder) Record(ev Event) error {
	return r.enc.Encode(ev)
}

// Close closes the underlying file.
func (r *FileRecorder) Close() error {
	return r.f.Close()
}
