package schema

import (
	"github.com/oarkflow/jsonschema"

	"github.com/dmitrymomot/verify/pkg/verify"
)

// Compiled is a schema turned into a verify plan.
type Compiled struct {
	source *jsonschema.Schema
	plan   *verify.Plan
	fields []FieldReport
}

// Check validates a generic value such as the result of Decode, or any Go
// value with the same shape.
func (c *Compiled) Check(value any) (verify.Outcome, error) {
	return c.plan.Check(value)
}

// CheckJSON decodes data and validates it.
func (c *Compiled) CheckJSON(data []byte) (verify.Outcome, error) {
	v, err := Decode(data)
	if err != nil {
		return verify.Valid(), err
	}
	return c.plan.Check(v)
}

func (c *Compiled) Plan() *verify.Plan { return c.plan }

func (c *Compiled) Source() *jsonschema.Schema { return c.source }

// Fields reports every property of the schema in visiting order.
func (c *Compiled) Fields() []FieldReport {
	return cloneReports(c.fields)
}

// Validated returns the rendered paths of properties that carry rules.
func (c *Compiled) Validated() []string {
	return c.paths(true)
}

// PassedThrough returns the rendered paths of properties without rules.
func (c *Compiled) PassedThrough() []string {
	return c.paths(false)
}

func (c *Compiled) paths(validated bool) []string {
	var out []string
	for _, f := range c.fields {
		if f.Validated() == validated {
			out = append(out, f.Path.String())
		}
	}
	return out
}
