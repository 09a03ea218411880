// Package tags derives verify rule sets from struct tags.
//
// A struct type is walked once and its `verify` tags become rules:
//
//	type Signup struct {
//		Email string   `json:"email" verify:"required,maxlen=64,pattern=^[^@]+@[^@]+$"`
//		Age   int      `json:"age" verify:"min=18,max=130"`
//		Tags  []string `json:"tags" verify:"maxlen=5,items:minlen=2"`
//		Home  Address  `json:"home"`
//	}
//
//	plan := tags.MustBuild[Signup]()
//	out, err := plan.Check(signup)
//
// Supported options:
//
//	required           value must be present
//	min=, max=         inclusive range bounds
//	gt=, lt=           exclusive range bounds
//	minlen=, maxlen=   length bounds for text and collections
//	len=               exact length
//	pattern=           regular expression; takes the rest of the tag
//	self               run the field's own Verify method
//	items:<option>     apply option to every element of a slice, array or map
//	-                  skip the field
//
// Range bounds are parsed as int64, uint64, float64 or string depending on
// the field kind. Nested structs, pointers to structs and collections of
// structs are walked without any tag. Recursive types are supported.
//
// Field names follow the json tag, so violation paths match the JSON form
// of the value. A malformed tag is reported as a *verify.ConfigError the
// first time the type is used.
package tags
