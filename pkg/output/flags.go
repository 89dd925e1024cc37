package output

// OutputFlags is the format-selection mixin for kdev commands that render
// structured output. Embedding it adds --json/--yaml/--text shorthands next
// to the canonical --output/-o flag; the shorthands are mutually exclusive
// through the shared xor group.
type OutputFlags struct {
	JSON   bool   `help:"Output as JSON" xor:"format"`
	YAML   bool   `help:"Output as YAML" xor:"format"`
	Text   bool   `help:"Output as text" xor:"format"`
	Output string `help:"Output format. One of: json, yaml, text" short:"o" default:"${output_default_format}" enum:",json,yaml,text"`
}

// AfterApply runs after kong parsing and folds the boolean shorthands into
// Output, so commands only ever consult the one field.
func (o *OutputFlags) AfterApply() error {
	switch {
	case o.JSON:
		o.Output = "json"
	case o.YAML:
		o.Output = "yaml"
	case o.Text:
		o.Output = "text"
	}
	return nil
}
