package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

var currentCharMap *charmap.Charmap = charmap.Windows1252

// SetEncoding selects the charmap used to decode model and material files.
func SetEncoding(name string) error {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				currentCharMap = cm
				return nil
			}
		}
	}
	return errors.Errorf("Failed to find encoding %q", name)
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

func GetEncoding() *charmap.Charmap {
	return currentCharMap
}

// DecodeText converts bytes in the current encoding to UTF-8.
func DecodeText(data []byte) ([]byte, error) {
	out, err := currentCharMap.NewDecoder().Bytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode %v text", currentCharMap)
	}
	return out, nil
}
