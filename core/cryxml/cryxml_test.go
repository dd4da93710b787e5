package cryxml

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encode writes n in the binary layout. Nodes are laid out in pre-order.
func encode(t *testing.T, root *Node) []byte {
	t.Helper()
	var order []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		order = append(order, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	index := map[*Node]int{}
	for i, n := range order {
		index[n] = i
	}

	var strs bytes.Buffer
	offsets := map[string]uint32{}
	str := func(s string) uint32 {
		if off, ok := offsets[s]; ok {
			return off
		}
		off := uint32(strs.Len())
		strs.WriteString(s)
		strs.WriteByte(0)
		offsets[s] = off
		return off
	}

	var nodes []rawNode
	var attrs []rawAttr
	var children []int32
	parents := map[*Node]int32{root: -1}
	for _, n := range order {
		rn := rawNode{
			TagOffset:     str(n.Tag),
			ContentOffset: str(n.Content),
			AttrCount:     uint16(len(n.Attrs)),
			ChildCount:    uint16(len(n.Children)),
			ParentIndex:   parents[n],
			FirstAttr:     int32(len(attrs)),
			FirstChild:    int32(len(children)),
		}
		for _, a := range n.Attrs {
			attrs = append(attrs, rawAttr{KeyOffset: str(a.Name), ValueOffset: str(a.Value)})
		}
		for _, c := range n.Children {
			parents[c] = int32(index[n])
			children = append(children, int32(index[c]))
		}
		nodes = append(nodes, rn)
	}

	h := header{NodeCount: uint32(len(nodes)), AttrCount: uint32(len(attrs)), ChildCount: uint32(len(children))}
	h.NodeTablePos = uint32(len(Signature) + headerSize)
	h.AttrTablePos = h.NodeTablePos + uint32(rawNodeSize*len(nodes))
	h.ChildTablePos = h.AttrTablePos + uint32(rawAttrSize*len(attrs))
	h.StringDataPos = h.ChildTablePos + uint32(4*len(children))
	h.StringDataSize = uint32(strs.Len())
	h.XMLSize = h.StringDataPos + h.StringDataSize

	var buf bytes.Buffer
	buf.Write(Signature)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, nodes))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, attrs))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, children))
	buf.Write(strs.Bytes())
	return buf.Bytes()
}

func definition() *Node {
	return &Node{
		Tag: "CharacterDefinition",
		Children: []*Node{
			{Tag: "Model", Attrs: []Attr{{Name: "File", Value: `Objects\Characters\Human\armor.chr`}}},
			{Tag: "AttachmentList", Children: []*Node{
				{Tag: "Attachment", Attrs: []Attr{{Name: "AName", Value: "helmet"}, {Name: "Binding", Value: "helmet.skin"}}},
			}},
		},
	}
}

func TestDecode_Binary(t *testing.T) {
	data := encode(t, definition())
	assert.True(t, IsBinary(data))

	root, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "CharacterDefinition", root.Tag)
	require.Len(t, root.Children, 2)

	model := root.Find("model")
	require.NotNil(t, model)
	file, ok := model.Attr("file")
	assert.True(t, ok)
	assert.Equal(t, `Objects\Characters\Human\armor.chr`, file)

	att := root.Find("Attachment")
	require.NotNil(t, att)
	binding, _ := att.Attr("Binding")
	assert.Equal(t, "helmet.skin", binding)
	assert.Nil(t, root.Find("Missing"))
}

func TestDecode_Text(t *testing.T) {
	doc := `<?xml version="1.0"?>
<CharacterDefinition>
  <Model File="Objects/Characters/Human/armor.chr" Material="armor.mtl"/>
</CharacterDefinition>`
	root, err := Decode([]byte(doc))
	require.NoError(t, err)
	file, ok := root.Find("Model").Attr("File")
	assert.True(t, ok)
	assert.Equal(t, "Objects/Characters/Human/armor.chr", file)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(append(append([]byte{}, Signature...), 1, 2, 3))
	assert.ErrorIs(t, err, ErrMalformed)

	data := encode(t, definition())
	// Point the node table past the end.
	binary.LittleEndian.PutUint32(data[len(Signature)+4:], uint32(len(data)))
	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte("   "))
	assert.Error(t, err)
}

func TestDecode_OversizedCounts(t *testing.T) {
	for name, h := range map[string]header{
		"nodes":    {NodeCount: 20_000_000},
		"max":      {NodeCount: 0xFFFFFFFF},
		"attrs":    {NodeCount: 1, AttrCount: 0xFFFFFFFF},
		"children": {NodeCount: 1, ChildCount: 0xFFFFFFFF},
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			buf.Write(Signature)
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))
			require.Len(t, buf.Bytes(), len(Signature)+headerSize)

			_, err := Decode(buf.Bytes())
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
