// Package schema adapts JSON Schema documents, compiled with
// github.com/oarkflow/jsonschema, to verify rule sets.
//
// For every property the adapter walks the declared shape and synthesizes
// built-in rules:
//
//	properties, required              -> verify.Fields, verify.Required
//	items                             -> verify.Each
//	additionalProperties              -> AdditionalRule (kind "additional")
//	enum                              -> EnumRule (kind "enum")
//	$ref                              -> rules of the referenced schema
//	minLength, maxLength              -> verify.Length (code points)
//	minItems, maxItems,
//	minProperties, maxProperties      -> verify.Length
//	pattern                           -> verify.Pattern
//	minimum, maximum,
//	exclusiveMinimum, exclusiveMaximum -> verify.RangeRule[float64]
//	allOf                             -> union of the synthesized rules
//	type                              -> TypeRule (registered as kind "type")
//
// Keywords without a counterpart, such as format, oneOf or not, are ignored,
// and a property that ends up without rules is passed through unvalidated.
// Compiled.Fields reports what happened to each property. A recursive $ref
// becomes a verify.Lazy rule; a $ref that cannot be resolved is a
// configuration error.
//
// Keywords that only make sense for one JSON type are wrapped in a
// non-strict TypeRule, so minLength never fires on a number.
//
// Extra rules can be attached to any path with WithRules:
//
//	a := schema.New(schema.WithRules("/email", verify.MustPattern(`@`)))
//	c, err := a.Compile(schemaJSON)
//	out, err := c.CheckJSON(document)
//
// A JSON null is a present value: a declared type or an enum rejects it
// unless it allows null. Members missing from an object are only seen by
// required.
package schema
