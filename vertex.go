package wad

import (
	"bytes"
	"encoding/binary"
	"unsafe"
)

type binVertex struct {
	X, Y int16
}

// Vertex is one map vertex.
type Vertex struct {
	X, Y int
}

// Clone returns a field-wise copy of the vertex.
func (v Vertex) Clone() Vertex { return v }

const vertexSize = int(unsafe.Sizeof(binVertex{}))

func decodeVertexes(data []byte) ([]Vertex, error) {
	count, err := recordCount("VERTEXES", len(data), vertexSize)
	if err != nil {
		return nil, err
	}
	binVertexes := make([]binVertex, count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, binVertexes); err != nil {
		return nil, err
	}
	vertexes := make([]Vertex, count)
	for i, v := range binVertexes {
		vertexes[i] = Vertex{X: int(v.X), Y: int(v.Y)}
	}
	return vertexes, nil
}

func encodeVertexes(vertexes []Vertex) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(vertexes)*vertexSize))
	for _, v := range vertexes {
		binary.Write(buf, binary.LittleEndian, binVertex{X: int16(v.X), Y: int16(v.Y)})
	}
	return buf.Bytes()
}
