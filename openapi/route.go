package openapi

import (
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

type Route struct {
	doc    *Document
	method string
	path   string
	op     *openapi3.Operation
}

func (r *Route) Summary(summary string) *Route {
	r.op.Summary = summary
	return r
}

func (r *Route) Tags(tags ...string) *Route {
	r.op.Tags = append(r.op.Tags, tags...)
	return r
}

func (r *Route) PathParam(name string) *Route {
	r.param(name, openapi3.ParameterInPath).Required = true
	return r
}

func (r *Route) QueryInt(name, description string, min, max float64) *Route {
	p := r.param(name, openapi3.ParameterInQuery)
	p.Description = description
	p.Schema = openapi3.NewIntegerSchema().WithMin(min).WithMax(max).NewRef()
	return r
}

func (r *Route) Header(name, description string) *Route {
	r.param(name, openapi3.ParameterInHeader).Description = description
	return r
}

// Body documents a required JSON request body shaped like example. Extra
// content types share the same schema.
func (r *Route) Body(example any, extraContentTypes ...string) *Route {
	schema := r.doc.schemaFor(example)

	content := openapi3.NewContentWithJSONSchemaRef(schema)
	for _, ct := range extraContentTypes {
		content[ct] = openapi3.NewMediaType().WithSchemaRef(schema)
	}

	r.op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithContent(content),
	}
	return r
}

// Response documents a status. A nil example means no body.
func (r *Route) Response(status int, example any) *Route {
	resp := openapi3.NewResponse().WithDescription(http.StatusText(status))
	if example != nil {
		resp.WithJSONSchemaRef(r.doc.schemaFor(example))
	}
	r.op.Responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{Value: resp})
	return r
}

func (r *Route) Secured() *Route {
	r.op.Security = openapi3.NewSecurityRequirements().
		With(openapi3.NewSecurityRequirement().Authenticate(BearerScheme))
	return r
}

func (r *Route) Build() {
	r.doc.addOperation(r.method, r.path, r.op)
}

func (r *Route) param(name, in string) *openapi3.Parameter {
	for _, ref := range r.op.Parameters {
		if ref.Value != nil && ref.Value.Name == name && ref.Value.In == in {
			return ref.Value
		}
	}

	p := &openapi3.Parameter{
		Name:   name,
		In:     in,
		Schema: openapi3.NewStringSchema().NewRef(),
	}
	r.op.Parameters = append(r.op.Parameters, &openapi3.ParameterRef{Value: p})
	return p
}
