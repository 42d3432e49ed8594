package grammar

import (
	"gopkg.in/yaml.v3"
)

// LoadYAML parses a YAML grammar document. source names the document in
// errors.
func LoadYAML(source string, data []byte) (*Definition, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}
	if doc == nil {
		return nil, fieldError(source, "grammar", "empty document")
	}
	return decode(source, doc)
}
