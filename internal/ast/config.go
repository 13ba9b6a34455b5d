package ast

// ConfigFile is the root node of one .config source (spec.md §3's
// "analogous" config nodes).
type ConfigFile struct {
	Base
	Includes    []*ConfigInclude
	Assignments []*ConfigAssignment
	Blocks      []*ConfigBlock
}

func (n *ConfigFile) Kind() Kind { return KindConfigFile }
func (n *ConfigFile) Children() []Node {
	out := make([]Node, 0, len(n.Includes)+len(n.Assignments)+len(n.Blocks))
	for _, i := range n.Includes {
		out = append(out, i)
	}
	for _, a := range n.Assignments {
		out = append(out, a)
	}
	for _, b := range n.Blocks {
		out = append(out, b)
	}
	return out
}

// ConfigAssignment is a dotted-name config assignment: `process.cpus = 4`.
type ConfigAssignment struct {
	Base
	DottedName string
	Value      Node
}

func (n *ConfigAssignment) Kind() Kind { return KindConfigAssignment }
func (n *ConfigAssignment) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}

// ConfigBlock is a named block containing nested assignments/blocks:
// `process { cpus = 4 }` or `profiles { standard { ... } }`.
type ConfigBlock struct {
	Base
	Name   string
	Inner  []Node // *ConfigAssignment or *ConfigBlock
}

func (n *ConfigBlock) Kind() Kind      { return KindConfigBlock }
func (n *ConfigBlock) Children() []Node { return n.Inner }

// ConfigInclude is `includeConfig '<source path>'`.
type ConfigInclude struct {
	Base
	SourcePath string
}

func (n *ConfigInclude) Kind() Kind      { return KindConfigInclude }
func (n *ConfigInclude) Children() []Node { return nil }

var (
	_ Node = (*ConfigFile)(nil)
	_ Node = (*ConfigAssignment)(nil)
	_ Node = (*ConfigBlock)(nil)
	_ Node = (*ConfigInclude)(nil)
)
