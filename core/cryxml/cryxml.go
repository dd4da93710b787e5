package cryxml

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Signature opens every binary document.
var Signature = []byte("CryXmlB\x00")

// ErrMalformed is returned for binary documents whose tables point outside the data.
var ErrMalformed = errors.New("malformed CryXmlB document")

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a decoded document.
type Node struct {
	Tag      string
	Content  string
	Attrs    []Attr
	Children []*Node
}

// Attr returns the value of the named attribute, matched ignoring case.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first element named tag in depth-first order, the node
// itself included.
func (n *Node) Find(tag string) *Node {
	if n == nil {
		return nil
	}
	if strings.EqualFold(n.Tag, tag) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// IsBinary reports whether data starts with the binary signature.
func IsBinary(data []byte) bool {
	return bytes.HasPrefix(data, Signature)
}

// Decode parses either encoding and returns the root element.
func Decode(data []byte) (*Node, error) {
	if IsBinary(data) {
		return decodeBinary(data)
	}
	return decodeText(data)
}

type header struct {
	XMLSize        uint32
	NodeTablePos   uint32
	NodeCount      uint32
	AttrTablePos   uint32
	AttrCount      uint32
	ChildTablePos  uint32
	ChildCount     uint32
	StringDataPos  uint32
	StringDataSize uint32
}

type rawNode struct {
	TagOffset     uint32
	ContentOffset uint32
	AttrCount     uint16
	ChildCount    uint16
	ParentIndex   int32
	FirstAttr     int32
	FirstChild    int32
	Reserved      int32
}

type rawAttr struct {
	KeyOffset   uint32
	ValueOffset uint32
}

const (
	headerSize  = 36
	rawNodeSize = 28
	rawAttrSize = 8
)

func decodeBinary(data []byte) (*Node, error) {
	body := data[len(Signature):]
	if len(body) < headerSize {
		return nil, ErrMalformed
	}
	var h header
	if err := binary.Read(bytes.NewReader(body), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if h.NodeCount == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrMalformed)
	}

	nodes, err := readTable[rawNode](data, h.NodeTablePos, h.NodeCount, rawNodeSize)
	if err != nil {
		return nil, err
	}
	attrs, err := readTable[rawAttr](data, h.AttrTablePos, h.AttrCount, rawAttrSize)
	if err != nil {
		return nil, err
	}
	children, err := readTable[int32](data, h.ChildTablePos, h.ChildCount, 4)
	if err != nil {
		return nil, err
	}
	if uint64(h.StringDataPos)+uint64(h.StringDataSize) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: string table out of range", ErrMalformed)
	}
	strs := data[h.StringDataPos : h.StringDataPos+h.StringDataSize]
	str := func(off uint32) string {
		if int(off) >= len(strs) {
			return ""
		}
		s := strs[off:]
		if i := bytes.IndexByte(s, 0); i >= 0 {
			s = s[:i]
		}
		return string(s)
	}

	out := make([]*Node, len(nodes))
	for i, rn := range nodes {
		n := &Node{Tag: str(rn.TagOffset), Content: str(rn.ContentOffset)}
		for a := 0; a < int(rn.AttrCount); a++ {
			idx := int(rn.FirstAttr) + a
			if idx < 0 || idx >= len(attrs) {
				return nil, fmt.Errorf("%w: attribute index %d", ErrMalformed, idx)
			}
			n.Attrs = append(n.Attrs, Attr{Name: str(attrs[idx].KeyOffset), Value: str(attrs[idx].ValueOffset)})
		}
		out[i] = n
	}
	for i, rn := range nodes {
		for c := 0; c < int(rn.ChildCount); c++ {
			idx := int(rn.FirstChild) + c
			if idx < 0 || idx >= len(children) {
				return nil, fmt.Errorf("%w: child index %d", ErrMalformed, idx)
			}
			ci := int(children[idx])
			if ci <= i || ci >= len(out) {
				return nil, fmt.Errorf("%w: child node %d of %d", ErrMalformed, ci, i)
			}
			out[i].Children = append(out[i].Children, out[ci])
		}
	}
	return out[0], nil
}

// readTable decodes count fixed-size records at pos. The range is checked
// against data before anything is allocated.
func readTable[T any](data []byte, pos, count uint32, size int) ([]T, error) {
	end := uint64(pos) + uint64(count)*uint64(size)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: table at %d with %d entries out of range", ErrMalformed, pos, count)
	}
	dst := make([]T, count)
	if err := binary.Read(bytes.NewReader(data[pos:end]), binary.LittleEndian, dst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return dst, nil
}

func decodeText(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	var stack []*Node
	var root *Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Content += strings.TrimSpace(string(t))
			}
		}
	}
	if root == nil {
		return nil, errors.New("xml document has no root element")
	}
	return root, nil
}
