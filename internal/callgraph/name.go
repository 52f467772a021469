package callgraph

import (
	"strconv"
	"strings"

	"github.com/coral-mesh/callprof/internal/symbol"
)

// Separator joins the caller and callee in an edge name.
const Separator = "==>"

// EdgeName renders k as "parent==>child", or just "child" for the root edge.
func (t *Table) EdgeName(k Key) string {
	var sb strings.Builder
	if !k.IsRoot() {
		t.writeIdent(&sb, k.ParentClass, k.ParentFunction, k.ParentLevel)
		sb.WriteString(Separator)
	}
	t.writeIdent(&sb, k.ChildClass, k.ChildFunction, k.ChildLevel)
	return sb.String()
}

// writeIdent writes "class::function@level", omitting the class when absent
// and the level when zero.
func (t *Table) writeIdent(sb *strings.Builder, class, fn symbol.Handle, level int32) {
	if class != symbol.None {
		sb.WriteString(t.symbols.Name(class))
		sb.WriteString("::")
	}
	sb.WriteString(t.symbols.Name(fn))
	if level > 0 {
		sb.WriteByte('@')
		sb.WriteString(strconv.FormatInt(int64(level), 10))
	}
}
