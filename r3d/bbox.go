package r3d

import "github.com/go-gl/mathgl/mgl32"

// BBox is an axis aligned box. The zero value is empty.
type BBox struct {
	Min, Max mgl32.Vec3
	valid    bool
}

func (bbox *BBox) ExpandToPoint(pos mgl32.Vec3) {
	if !bbox.valid {
		bbox.Min, bbox.Max, bbox.valid = pos, pos, true
		return
	}
	for i, coord := range pos {
		if coord < bbox.Min[i] {
			bbox.Min[i] = coord
		}
		if coord > bbox.Max[i] {
			bbox.Max[i] = coord
		}
	}
}

func (bbox *BBox) Empty() bool { return !bbox.valid }

func (bbox *BBox) Size() float32 {
	return bbox.Max.Sub(bbox.Min).Len()
}

func (bbox *BBox) Center() mgl32.Vec3 {
	return bbox.Min.Add(bbox.Max).Mul(0.5)
}
