package service

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TWRT/things-taskwarrior/internal/models"
)

const notesRoot = "note"

// ParseNotes returns the text body of a Things notes document, that is the
// text inside the <note> root element up to its first child element. A root
// without text yields nil. Anything else is ErrMalformedNotes.
func ParseNotes(doc string) (*string, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))

	if err := findRoot(dec); err != nil {
		return nil, err
	}

	var (
		text   strings.Builder
		inText = true
		depth  = 1
	)
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			inText = false
		case xml.EndElement:
			depth--
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}

	if err := expectEOF(dec); err != nil {
		return nil, err
	}

	if text.Len() == 0 {
		return nil, nil
	}
	body := text.String()
	return &body, nil
}

// findRoot consumes the prolog and the root start tag.
func findRoot(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: no root element", models.ErrMalformedNotes)
			}
			return malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != "" || t.Name.Local != notesRoot {
				return fmt.Errorf("%w: root element is <%s>, want <%s>",
					models.ErrMalformedNotes, qualified(t.Name), notesRoot)
			}
			return nil
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return fmt.Errorf("%w: text before root element", models.ErrMalformedNotes)
			}
		}
	}
}

// expectEOF rejects anything but whitespace, comments and processing
// instructions after the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("%w: content after root element", models.ErrMalformedNotes)
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return fmt.Errorf("%w: content after root element", models.ErrMalformedNotes)
			}
		}
	}
}

func malformed(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %v", models.ErrMalformedNotes, err)
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
