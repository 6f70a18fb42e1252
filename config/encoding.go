package config

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

func normalizeEncodingName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(name))
}

// FindEncoding maps a declared document encoding ("windows-1252",
// "ISO-8859-1", ...) onto one of the single byte charmaps.
func FindEncoding(name string) (*charmap.Charmap, error) {
	want := normalizeEncodingName(name)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if normalizeEncodingName(cm.String()) == want {
				return cm, nil
			}
		}
	}
	return nil, errors.Errorf("Failed to find encoding %q, known: %s", name, strings.Join(ListEncodings(), ", "))
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

// CharsetReader is suitable for xml.Decoder.CharsetReader. Exporters on
// windows tend to write scenes in the system code page.
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	cm, err := FindEncoding(label)
	if err != nil {
		return nil, err
	}
	return cm.NewDecoder().Reader(input), nil
}
