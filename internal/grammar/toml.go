package grammar

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// LoadTOML parses a TOML grammar document. source names the document in
// errors.
func LoadTOML(source string, data []byte) (*Definition, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			perr.Line, perr.Column = de.Position()
		}
		return nil, perr
	}
	return decode(source, doc)
}
