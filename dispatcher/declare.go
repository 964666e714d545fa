package dispatcher

import (
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
	"strings"
)

var ErrInvalidDeclaration = errors.New("invalid event declaration")

type declaration struct {
	Events []string `yaml:"events"`
}

// LoadNames reads event names from a YAML declaration document, in the order they're listed.
//
//	events:
//	  - connected
//	  - disconnected
//
// Names are trimmed, and blank names are rejected with an error matching [ErrInvalidDeclaration].
// Duplicates are kept, since [New] already warns about them.
func LoadNames(r io.Reader) ([]string, error) {
	var decl declaration
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&decl); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDeclaration)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeclaration, err)
	}
	names := make([]string, len(decl.Events))
	for i, name := range decl.Events {
		name = strings.TrimSpace(name)
		if len(name) == 0 {
			return nil, fmt.Errorf("%w: event %d has a blank name", ErrInvalidDeclaration, i)
		}
		names[i] = name
	}
	return names, nil
}
