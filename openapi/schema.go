package openapi

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// schemaRegistry turns Go types into component schemas. Named structs are
// stored once under their type name and referenced everywhere else.
type schemaRegistry struct {
	components openapi3.Schemas
	names      map[reflect.Type]string
	taken      map[string]reflect.Type
}

func newSchemaRegistry(components openapi3.Schemas) *schemaRegistry {
	return &schemaRegistry{
		components: components,
		names:      make(map[reflect.Type]string),
		taken:      make(map[string]reflect.Type),
	}
}

func (r *schemaRegistry) ref(example any) *openapi3.SchemaRef {
	if example == nil {
		return openapi3.NewObjectSchema().NewRef()
	}
	return r.typeRef(reflect.TypeOf(example))
}

func (r *schemaRegistry) typeRef(t reflect.Type) *openapi3.SchemaRef {
	switch t {
	case timeType:
		return openapi3.NewDateTimeSchema().NewRef()
	case uuidType:
		return openapi3.NewUUIDSchema().NewRef()
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner := r.typeRef(t.Elem())
		if inner.Ref != "" {
			return &openapi3.SchemaRef{Value: &openapi3.Schema{AllOf: openapi3.SchemaRefs{inner}, Nullable: true}}
		}
		inner.Value.Nullable = true
		return inner
	case reflect.String:
		return openapi3.NewStringSchema().NewRef()
	case reflect.Bool:
		return openapi3.NewBoolSchema().NewRef()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewIntegerSchema().NewRef()
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema().NewRef()
	case reflect.Slice, reflect.Array:
		schema := openapi3.NewArraySchema()
		schema.Items = r.typeRef(t.Elem())
		return schema.NewRef()
	case reflect.Map:
		schema := openapi3.NewObjectSchema()
		schema.AdditionalProperties = openapi3.AdditionalProperties{Schema: r.typeRef(t.Elem())}
		return schema.NewRef()
	case reflect.Struct:
		return r.structRef(t)
	default:
		return openapi3.NewObjectSchema().NewRef()
	}
}

func (r *schemaRegistry) structRef(t reflect.Type) *openapi3.SchemaRef {
	if t.Name() == "" {
		return r.buildStruct(t).NewRef()
	}

	if name, ok := r.names[t]; ok {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
	}

	name := t.Name()
	for i := 2; r.taken[name] != nil; i++ {
		name = t.Name() + strconv.Itoa(i)
	}
	r.names[t] = name
	r.taken[name] = t

	// Registered before building so self references resolve.
	r.components[name] = r.buildStruct(t).NewRef()
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func (r *schemaRegistry) buildStruct(t reflect.Type) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(jsonTag, ",")

		if field.Anonymous && name == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				inner := r.buildStruct(embedded)
				for prop, ref := range inner.Properties {
					schema.Properties[prop] = ref
				}
				schema.Required = append(schema.Required, inner.Required...)
				continue
			}
		}

		if name == "" {
			name = field.Name
		}

		ref := r.typeRef(field.Type)
		if ref.Value != nil && ref.Ref == "" {
			applyValidateTag(ref.Value, field.Tag.Get("validate"))
		}
		schema.Properties[name] = ref

		if isRequired(field, opts) {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

func isRequired(field reflect.StructField, jsonOpts string) bool {
	for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
		if rule == "required" {
			return true
		}
	}
	if strings.Contains(jsonOpts, "omitempty") {
		return false
	}
	return field.Type.Kind() != reflect.Pointer
}

// applyValidateTag mirrors min/max/email style validator rules onto the
// schema so the document states the same limits the handlers enforce.
func applyValidateTag(schema *openapi3.Schema, tag string) {
	if tag == "" {
		return
	}

	isString := schema.Type.Is(openapi3.TypeString)
	for _, rule := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(rule, "=")
		n, err := strconv.ParseUint(value, 10, 64)

		switch {
		case key == "min" && err == nil && isString:
			schema.MinLength = n
		case key == "max" && err == nil && isString:
			schema.MaxLength = &n
		case key == "min" && err == nil:
			schema.Min = ptr(float64(n))
		case key == "max" && err == nil:
			schema.Max = ptr(float64(n))
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
