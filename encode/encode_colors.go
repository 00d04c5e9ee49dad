package encode

import (
	"github.com/signadot/confdoc/ir"

	"github.com/fatih/color"
)

// Colorable selects a color by the kind of node being written and the part
// of it.
type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	CommentColor ColorAttr = iota
	TagColor
	FieldColor
	ValueColor
	SepColor
)

// Colors paints encoder output.  Parts with no entry in Map go through
// Default.
type Colors struct {
	Default func(string) string
	Map     map[Colorable]func(string) string
}

// palette applies to every node type unless valuePalette overrides it.
var palette = map[ColorAttr]*color.Color{
	CommentColor: color.New(color.FgBlue),
	TagColor:     color.RGB(74, 92, 138),
	FieldColor:   color.RGB(128, 168, 196),
	SepColor:     color.RGB(255, 0, 196),
}

var valuePalette = map[ir.Type]*color.Color{
	ir.NullType:   color.RGB(168, 0, 196),
	ir.BoolType:   color.New(color.FgCyan),
	ir.NumberType: color.RGB(128, 216, 236),
	ir.StringType: color.RGB(8, 196, 16),
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string) string{},
	}
	for _, t := range ir.Types() {
		for a, c := range palette {
			colors.Map[Colorable{Type: t, Attr: a}] = sprint(c)
		}
		if c, ok := valuePalette[t]; ok {
			colors.Map[Colorable{Type: t, Attr: ValueColor}] = sprint(c)
		}
	}
	colors.Map[Colorable{Type: ir.ObjectType, Attr: SepColor}] = sprint(color.RGB(196, 128, 128))
	return colors
}

func sprint(c *color.Color) func(string) string {
	f := c.SprintFunc()
	return func(s string) string { return f(s) }
}

func colorDefault(v string) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		f = c.Default
	}
	return f(s)
}
