package taskwarrior

import (
	"encoding/json"
	"fmt"
	"io"
)

// Encoder writes records as one JSON object per line, the format `task import` reads.
type Encoder struct {
	enc *json.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Encoder{enc: enc}
}

func (e *Encoder) Encode(r *Record) error {
	if err := e.enc.Encode(r); err != nil {
		return fmt.Errorf("encode task %s: %w", r.UUID, err)
	}
	return nil
}
