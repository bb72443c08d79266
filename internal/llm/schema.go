package llm

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

type Schema = jsonschema.Schema

// SchemaFor reflects a JSON schema for structured model output from the Go
// type of value.
func SchemaFor(value any) *Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflector.Reflect(reflect.New(t).Interface())
}
