package geometry2D

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) Point {
	return Point{X: [2]float64{x, y}}
}

func (p Point) Plus(po Point) Point {
	return Point{X: [2]float64{
		p.X[0] + po.X[0],
		p.X[1] + po.X[1],
	}}
}

func (p Point) Minus(po Point) Point {
	return Point{X: [2]float64{
		p.X[0] - po.X[0],
		p.X[1] - po.X[1],
	}}
}

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(Geometry []Point) (Box *BoundingBox) {
	if len(Geometry) == 0 {
		return nil
	}
	Box = new(BoundingBox)
	Box.XMin[0], Box.XMin[1] = Geometry[0].X[0], Geometry[0].X[1]
	Box.XMax[0], Box.XMax[1] = Geometry[0].X[0], Geometry[0].X[1]
	for _, point := range Geometry {
		for i := 0; i < 2; i++ {
			if point.X[i] < Box.XMin[i] {
				Box.XMin[i] = point.X[i]
			}
			if point.X[i] > Box.XMax[i] {
				Box.XMax[i] = point.X[i]
			}
		}
	}
	return Box
}

func (bb *BoundingBox) Union(bo *BoundingBox) {
	for i := 0; i < 2; i++ {
		if bo.XMin[i] < bb.XMin[i] {
			bb.XMin[i] = bo.XMin[i]
		}
		if bo.XMax[i] > bb.XMax[i] {
			bb.XMax[i] = bo.XMax[i]
		}
	}
}

// Contains admits points within tol of the box faces, so that queries on
// shared element boundaries land in every adjacent box.
func (bb *BoundingBox) Contains(p Point, tol float64) bool {
	for i := 0; i < 2; i++ {
		if p.X[i] < bb.XMin[i]-tol || p.X[i] > bb.XMax[i]+tol {
			return false
		}
	}
	return true
}

func (bb *BoundingBox) Centroid() (centroid Point) {
	return Point{X: [2]float64{
		0.5 * (bb.XMax[0] + bb.XMin[0]),
		0.5 * (bb.XMax[1] + bb.XMin[1]),
	}}
}

func (bb *BoundingBox) IsDegenerate() bool {
	return bb.XMax[0] <= bb.XMin[0] && bb.XMax[1] <= bb.XMin[1]
}
