package types

// ContextDump is the JSON-serializable form of a finalized Context,
// recovered from original_source/cmp/semantic.py's `Context.__str__`
// text-dump format (see SPEC_FULL.md "RECOVERED FEATURES"): rather than
// reproducing that brace-delimited text rendering, `coolc -dump-context`
// emits the same information as structured JSON so it composes with
// `-json`.
type ContextDump struct {
	Types []TypeDump `json:"types"`
}

// TypeDump is one class's rendering: name, parent (empty for Object),
// attributes, and methods — the same fields the original's `Type.__str__`
// prints as `type NAME : PARENT { attrs; methods; }`.
type TypeDump struct {
	Name       string          `json:"name"`
	Parent     string          `json:"parent,omitempty"`
	Attributes []AttributeDump `json:"attributes,omitempty"`
	Methods    []MethodDump    `json:"methods,omitempty"`
}

type AttributeDump struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type MethodDump struct {
	Name       string   `json:"name"`
	ParamTypes []string `json:"param_types"`
	ReturnType string   `json:"return_type"`
}

// Dump renders c's finalized type graph for `-dump-context`.
func (c *Context) Dump() ContextDump {
	out := ContextDump{}
	for _, t := range c.Types() {
		td := TypeDump{Name: t.Name}
		if t.Parent != nil {
			td.Parent = t.Parent.Name
		}
		for _, a := range t.Attributes {
			td.Attributes = append(td.Attributes, AttributeDump{Name: a.Name, Type: describeDump(a.Type)})
		}
		for _, m := range t.Methods {
			md := MethodDump{Name: m.Name, ReturnType: describeDump(m.ReturnType)}
			for _, p := range m.ParamTypes {
				md.ParamTypes = append(md.ParamTypes, describeDump(p))
			}
			td.Methods = append(td.Methods, md)
		}
		out.Types = append(out.Types, td)
	}
	return out
}

func describeDump(t *Type) string {
	if t == nil {
		return "?"
	}
	if t.IsAutoType() {
		return "AUTO_TYPE"
	}
	if t.IsSelfType() {
		return "SELF_TYPE"
	}
	return t.Name
}
