package meshio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteOBJ writes m as a Wavefront OBJ without any material library.
// A set Color is written as per-vertex colour on every "v" line.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d faces\n", len(m.Vertices), len(m.Faces))
	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", strings.ReplaceAll(m.Name, " ", "_"))
	}

	var rgb string
	if m.hasColor() {
		rgb = " " + formatFloat(float64(m.Color.R)/255) +
			" " + formatFloat(float64(m.Color.G)/255) +
			" " + formatFloat(float64(m.Color.B)/255)
	}
	for _, v := range m.Vertices {
		bw.WriteString("v ")
		bw.WriteString(formatFloat(v.X))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v.Y))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v.Z))
		bw.WriteString(rgb)
		bw.WriteByte('\n')
	}
	for _, f := range m.Faces {
		if f[0] >= len(m.Vertices) || f[1] >= len(m.Vertices) || f[2] >= len(m.Vertices) {
			return fmt.Errorf("face %v references a missing vertex", f)
		}
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}

// StripMaterialRefs removes mtllib and usemtl statements from OBJ text.
func StripMaterialRefs(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i+1], data[i+1:]
		} else {
			data = nil
		}
		stmt := bytes.TrimLeft(line, " \t")
		if isStatement(stmt, "mtllib") || isStatement(stmt, "usemtl") {
			continue
		}
		out.Write(line)
	}
	return out.Bytes()
}

func isStatement(line []byte, keyword string) bool {
	if !bytes.HasPrefix(line, []byte(keyword)) {
		return false
	}
	rest := line[len(keyword):]
	return len(rest) == 0 || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\r' || rest[0] == '\n'
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
