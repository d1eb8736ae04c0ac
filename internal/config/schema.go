package config

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// annotationPattern matches keys the loader ignores (comments, $schema).
const annotationPattern = "^[_$]"

// Schema returns a JSON Schema describing the config file. Descriptions come
// from the same comment tags used for the example config.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&Config{})
	schema.Title = "devlaunch configuration"
	schema.Description = "Every key is optional; missing keys take their built-in default."

	docs := describe(reflect.TypeOf(Config{}), "", nil)
	annotateSchema(schema, "", docs)
	return schema
}

// SchemaJSON returns the indented JSON form of Schema.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return append(data, '\n'), nil
}

func annotateSchema(s *jsonschema.Schema, prefix string, docs map[string]string) {
	if s == nil || s.Properties == nil {
		return
	}
	s.PatternProperties = map[string]*jsonschema.Schema{annotationPattern: jsonschema.TrueSchema}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		key := prefix + pair.Key
		if d, ok := docs[key]; ok {
			pair.Value.Description = d
		}
		annotateSchema(pair.Value, key+".", docs)
	}
}
