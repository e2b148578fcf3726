package model

// TrackPath is the ordered centerline of a track.
type TrackPath []Vec3

type BoundaryPair struct {
	Inner Vec3
	Outer Vec3
}

// Mesh is a triangulated strip. Vertex 2*i is the inner boundary point of
// centerline index i, vertex 2*i+1 the outer one.
type Mesh struct {
	Vertices []Vec3   `json:"vertices"`
	Indices  []uint32 `json:"indices"`
	Normals  []Vec3   `json:"normals"`
}

func (m *Mesh) NumTriangles() int {
	return len(m.Indices) / 3
}
