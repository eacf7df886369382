package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/primforge/pkg/mesh"
	"github.com/philipparndt/primforge/pkg/model"
)

// OBJOptions controls OBJ rendering
type OBJOptions struct {
	// MaterialLib, when set, adds an mtllib statement and one usemtl per group.
	// Without it each group carries its color as a comment.
	MaterialLib string
}

// ToOBJ renders m under global scale k as Wavefront OBJ text
func ToOBJ(m *model.Model, k float64) (string, error) {
	data, err := RenderOBJ(m, k, OBJOptions{})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RenderOBJ renders m as OBJ with one group per primitive. Face indices are
// 1-based and global across the whole file.
func RenderOBJ(m *model.Model, k float64, opts OBJOptions) ([]byte, error) {
	parts, err := mesh.AssemblePerPrimitive(m, k)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble model: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# primforge OBJ export\n")
	fmt.Fprintf(&buf, "# unit: %s, scale: %s, primitives: %d\n", m.Unit, strconv.FormatFloat(k, 'g', -1, 64), len(parts))
	if opts.MaterialLib != "" {
		fmt.Fprintf(&buf, "mtllib %s\n", opts.MaterialLib)
	}

	for _, part := range parts {
		fmt.Fprintf(&buf, "\ng %s\n", part.Label())
		if opts.MaterialLib != "" {
			fmt.Fprintf(&buf, "usemtl %s\n", part.Label())
		} else {
			fmt.Fprintf(&buf, "# color %s\n", part.Primitive.Color.Hex())
		}

		for _, v := range part.Mesh.Vertices {
			fmt.Fprintf(&buf, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
		}

		for _, f := range part.Mesh.Faces {
			buf.WriteString("f")
			for _, idx := range f {
				buf.WriteByte(' ')
				buf.WriteString(strconv.Itoa(idx + part.Offset + 1))
			}
			buf.WriteByte('\n')
		}
	}

	return buf.Bytes(), nil
}

// WriteOBJ renders m and writes it to w in one piece
func WriteOBJ(w io.Writer, m *model.Model, k float64, opts OBJOptions) error {
	data, err := RenderOBJ(m, k, opts)
	if err != nil {
		return err
	}
	return writeAll(w, data)
}

// ToMTL renders one diffuse material per primitive, named like its OBJ group
func ToMTL(m *model.Model) string {
	var sb strings.Builder
	sb.WriteString("# primforge MTL export\n")
	for i, p := range m.Primitives {
		fmt.Fprintf(&sb, "\nnewmtl %s\n", model.Label(i, p.Kind))
		fmt.Fprintf(&sb, "Kd %.6f %.6f %.6f\n", float64(p.Color.R)/255, float64(p.Color.G)/255, float64(p.Color.B)/255)
		sb.WriteString("Ka 0.000000 0.000000 0.000000\n")
		sb.WriteString("illum 1\n")
	}
	return sb.String()
}

// WriteMTL writes the material library of m to w
func WriteMTL(w io.Writer, m *model.Model) error {
	return writeAll(w, []byte(ToMTL(m)))
}
