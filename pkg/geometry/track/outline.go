package track

import "github.com/mpapenbr/iracelog-trackreplay/pkg/model"

// Outline returns the boundary as one ordered point sequence: the outer
// boundary forward followed by the inner boundary backwards. The first
// point is repeated at the end so the sequence can be drawn as a line loop.
func Outline(r *Result) []model.Vec3 {
	if r.Empty() {
		return nil
	}
	ret := make([]model.Vec3, 0, len(r.Outer)+len(r.Inner)+1)
	ret = append(ret, r.Outer...)
	for i := len(r.Inner) - 1; i >= 0; i-- {
		ret = append(ret, r.Inner[i])
	}
	return append(ret, r.Outer[0])
}
