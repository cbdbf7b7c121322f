package domain

// PointPair is one field point and source panel for which a contribution is
// requested.
type PointPair struct {
	Field  Vec3
	Source Vec3
	Area   float64
}
