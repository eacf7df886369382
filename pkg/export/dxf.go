package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/mesh"
	"github.com/philipparndt/primforge/pkg/model"
)

// ColorPolicy selects how layer colors are written to DXF
type ColorPolicy string

const (
	// ColorACI writes an AC1009 (R12) document with ACI layer colors only.
	ColorACI ColorPolicy = "aci"
	// ColorTrueColor writes an AC1018 (R2004) document whose layers carry both
	// the nearest ACI value and the exact 24-bit color. R2000 and later require
	// handles, owner pointers, the block record table, and the CLASSES, BLOCKS
	// and OBJECTS sections, so this policy writes all of them.
	ColorTrueColor ColorPolicy = "truecolor"
)

// DefaultColorPolicy is used when no policy is configured
const DefaultColorPolicy = ColorACI

// ParseColorPolicy parses a policy name. An empty string selects DefaultColorPolicy.
func ParseColorPolicy(s string) (ColorPolicy, error) {
	switch ColorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultColorPolicy, nil
	case ColorTrueColor:
		return ColorTrueColor, nil
	case ColorACI:
		return ColorACI, nil
	}
	return "", fmt.Errorf("unsupported color policy %q (use aci or truecolor)", s)
}

// Version returns the $ACADVER written for the policy
func (p ColorPolicy) Version() string {
	if p == ColorTrueColor {
		return "AC1018"
	}
	return "AC1009"
}

// LayerName returns the DXF layer of the primitive at the 0-based index
func LayerName(index int) string {
	return "PIEZA_" + strconv.Itoa(index+1)
}

// ToDXF renders m under global scale k with the default color policy
func ToDXF(m *model.Model, k float64) (string, error) {
	data, err := RenderDXF(m, k, DefaultColorPolicy)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RenderDXF renders m as a DXF document: a HEADER, one LAYER per primitive,
// and one 3DFACE per mesh face on that primitive's layer.
func RenderDXF(m *model.Model, k float64, policy ColorPolicy) ([]byte, error) {
	if policy == "" {
		policy = DefaultColorPolicy
	}
	parts, err := mesh.AssemblePerPrimitive(m, k)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble model: %w", err)
	}

	// The body is written first so $HANDSEED can name the next free handle.
	body := &dxfWriter{policy: policy, next: 1}
	if body.modern() {
		body.classes()
	}
	body.tables(parts)
	if body.modern() {
		body.blocks()
	}
	body.entities(parts)
	if body.modern() {
		body.objects()
	}
	body.str(0, "EOF")

	head := &dxfWriter{policy: policy}
	head.header(m, parts, body.next)

	return append(head.buf.Bytes(), body.buf.Bytes()...), nil
}

// WriteDXF renders m and writes it to w in one piece
func WriteDXF(w io.Writer, m *model.Model, k float64, policy ColorPolicy) error {
	data, err := RenderDXF(m, k, policy)
	if err != nil {
		return err
	}
	return writeAll(w, data)
}

// dxfWriter emits group code / value pairs
type dxfWriter struct {
	buf    bytes.Buffer
	policy ColorPolicy
	next   int

	modelSpace string
	paperSpace string
}

func (w *dxfWriter) modern() bool {
	return w.policy == ColorTrueColor
}

// handle allocates the next entity handle as upper-case hex
func (w *dxfWriter) handle() string {
	h := strings.ToUpper(strconv.FormatInt(int64(w.next), 16))
	w.next++
	return h
}

func (w *dxfWriter) str(code int, value string) {
	fmt.Fprintf(&w.buf, "%d\n%s\n", code, value)
}

func (w *dxfWriter) integer(code, value int) {
	w.str(code, strconv.Itoa(value))
}

func (w *dxfWriter) float(code int, value float64) {
	w.str(code, strconv.FormatFloat(value, 'f', 6, 64))
}

// point writes a coordinate triple using base, base+10 and base+20 codes
func (w *dxfWriter) point(base int, v geometry.Vector3) {
	w.float(base, v.X)
	w.float(base+10, v.Y)
	w.float(base+20, v.Z)
}

func (w *dxfWriter) header(m *model.Model, parts []mesh.Part, handseed int) {
	w.str(0, "SECTION")
	w.str(2, "HEADER")
	w.str(9, "$ACADVER")
	w.str(1, w.policy.Version())
	if w.modern() {
		w.str(9, "$HANDSEED")
		w.str(5, strings.ToUpper(strconv.FormatInt(int64(handseed), 16)))
	}
	w.str(9, "$INSUNITS")
	w.integer(70, m.Unit.InsUnits())

	bounds := geometry.NewBoundingBox()
	for _, part := range parts {
		bounds.Union(part.Mesh.Bounds())
	}
	if !bounds.Empty() {
		w.str(9, "$EXTMIN")
		w.point(10, bounds.Min)
		w.str(9, "$EXTMAX")
		w.point(10, bounds.Max)
	}
	w.str(0, "ENDSEC")
}

func (w *dxfWriter) classes() {
	w.str(0, "SECTION")
	w.str(2, "CLASSES")
	w.str(0, "ENDSEC")
}

// beginTable opens a symbol table and returns its handle ("" for R12)
func (w *dxfWriter) beginTable(name string, count int) string {
	w.str(0, "TABLE")
	w.str(2, name)
	if !w.modern() {
		w.integer(70, count)
		return ""
	}
	h := w.handle()
	w.str(5, h)
	w.str(330, "0")
	w.str(100, "AcDbSymbolTable")
	w.integer(70, count)
	return h
}

// record opens a table entry. R2000 entries carry a handle, an owner pointer
// to their table and the symbol table subclass markers.
func (w *dxfWriter) record(kind, owner, subclass string) string {
	w.str(0, kind)
	if !w.modern() {
		return ""
	}
	h := w.handle()
	w.str(5, h)
	w.str(330, owner)
	w.str(100, "AcDbSymbolTableRecord")
	w.str(100, subclass)
	return h
}

func (w *dxfWriter) tables(parts []mesh.Part) {
	w.str(0, "SECTION")
	w.str(2, "TABLES")

	if w.modern() {
		w.beginTable("VPORT", 0)
		w.str(0, "ENDTAB")
	}

	w.ltypes()
	w.layers(parts)

	if w.modern() {
		w.symbolTables()
	}

	w.str(0, "ENDSEC")
}

func (w *dxfWriter) ltypes() {
	names := []string{"CONTINUOUS"}
	if w.modern() {
		names = []string{"ByBlock", "ByLayer", "CONTINUOUS"}
	}
	table := w.beginTable("LTYPE", len(names))
	for _, name := range names {
		w.record("LTYPE", table, "AcDbLinetypeTableRecord")
		w.str(2, name)
		w.integer(70, 0)
		if name == "CONTINUOUS" {
			w.str(3, "Solid line")
		} else {
			w.str(3, "")
		}
		w.integer(72, 65)
		w.integer(73, 0)
		w.float(40, 0)
	}
	w.str(0, "ENDTAB")
}

func (w *dxfWriter) layers(parts []mesh.Part) {
	count := len(parts)
	if w.modern() {
		count++
	}
	table := w.beginTable("LAYER", count)
	if w.modern() {
		w.record("LAYER", table, "AcDbLayerTableRecord")
		w.str(2, "0")
		w.integer(70, 0)
		w.integer(62, ACIWhite)
		w.str(6, "CONTINUOUS")
	}
	for _, part := range parts {
		c := part.Primitive.Color
		w.record("LAYER", table, "AcDbLayerTableRecord")
		w.str(2, LayerName(part.Index))
		w.integer(70, 0)
		w.integer(62, NearestACI(c))
		if w.policy == ColorTrueColor {
			w.integer(420, int(c.RGB24()))
		}
		w.str(6, "CONTINUOUS")
	}
	w.str(0, "ENDTAB")
}

// symbolTables writes the tables R2000 readers expect besides LTYPE and LAYER
func (w *dxfWriter) symbolTables() {
	table := w.beginTable("STYLE", 1)
	w.record("STYLE", table, "AcDbTextStyleTableRecord")
	w.str(2, "Standard")
	w.integer(70, 0)
	w.float(40, 0)
	w.float(41, 1)
	w.float(50, 0)
	w.integer(71, 0)
	w.float(42, 2.5)
	w.str(3, "txt")
	w.str(4, "")
	w.str(0, "ENDTAB")

	w.beginTable("VIEW", 0)
	w.str(0, "ENDTAB")
	w.beginTable("UCS", 0)
	w.str(0, "ENDTAB")

	table = w.beginTable("APPID", 1)
	w.record("APPID", table, "AcDbRegAppTableRecord")
	w.str(2, "ACAD")
	w.integer(70, 0)
	w.str(0, "ENDTAB")

	// DIMSTYLE records use code 105 for their handle.
	table = w.beginTable("DIMSTYLE", 1)
	w.str(100, "AcDbDimStyleTable")
	w.str(0, "DIMSTYLE")
	w.str(105, w.handle())
	w.str(330, table)
	w.str(100, "AcDbSymbolTableRecord")
	w.str(100, "AcDbDimStyleTableRecord")
	w.str(2, "Standard")
	w.integer(70, 0)
	w.str(0, "ENDTAB")

	table = w.beginTable("BLOCK_RECORD", 2)
	w.modelSpace = w.record("BLOCK_RECORD", table, "AcDbBlockTableRecord")
	w.str(2, "*Model_Space")
	w.paperSpace = w.record("BLOCK_RECORD", table, "AcDbBlockTableRecord")
	w.str(2, "*Paper_Space")
	w.str(0, "ENDTAB")
}

func (w *dxfWriter) blocks() {
	w.str(0, "SECTION")
	w.str(2, "BLOCKS")
	for _, b := range []struct {
		name, owner string
		paper       bool
	}{
		{"*Model_Space", w.modelSpace, false},
		{"*Paper_Space", w.paperSpace, true},
	} {
		w.str(0, "BLOCK")
		w.str(5, w.handle())
		w.str(330, b.owner)
		w.str(100, "AcDbEntity")
		if b.paper {
			w.integer(67, 1)
		}
		w.str(8, "0")
		w.str(100, "AcDbBlockBegin")
		w.str(2, b.name)
		w.integer(70, 0)
		w.point(10, geometry.Vector3{})
		w.str(3, b.name)
		w.str(1, "")

		w.str(0, "ENDBLK")
		w.str(5, w.handle())
		w.str(330, b.owner)
		w.str(100, "AcDbEntity")
		if b.paper {
			w.integer(67, 1)
		}
		w.str(8, "0")
		w.str(100, "AcDbBlockEnd")
	}
	w.str(0, "ENDSEC")
}

// entities writes one 3DFACE per face. Triangles repeat their third corner.
func (w *dxfWriter) entities(parts []mesh.Part) {
	w.str(0, "SECTION")
	w.str(2, "ENTITIES")
	for _, part := range parts {
		layer := LayerName(part.Index)
		verts := part.Mesh.Vertices
		for _, f := range part.Mesh.Faces {
			w.str(0, "3DFACE")
			if w.modern() {
				w.str(5, w.handle())
				w.str(330, w.modelSpace)
				w.str(100, "AcDbEntity")
			}
			w.str(8, layer)
			if w.modern() {
				w.str(100, "AcDbFace")
			}
			for corner := 0; corner < 4; corner++ {
				idx := f[min(corner, len(f)-1)]
				w.point(10+corner, verts[idx])
			}
		}
	}
	w.str(0, "ENDSEC")
}

// objects writes the root dictionary every R2000 document owns
func (w *dxfWriter) objects() {
	root, group := w.handle(), w.handle()

	w.str(0, "SECTION")
	w.str(2, "OBJECTS")

	w.str(0, "DICTIONARY")
	w.str(5, root)
	w.str(330, "0")
	w.str(100, "AcDbDictionary")
	w.integer(281, 1)
	w.str(3, "ACAD_GROUP")
	w.str(350, group)

	w.str(0, "DICTIONARY")
	w.str(5, group)
	w.str(330, root)
	w.str(100, "AcDbDictionary")
	w.integer(281, 1)

	w.str(0, "ENDSEC")
}
