package domain

// Family is the kind of function a lesson is built around.
type Family string

const (
	FamilyLinear    Family = "linear"
	FamilyQuadratic Family = "quadratic"
)

// Valid reports whether f is a supported family.
func (f Family) Valid() bool {
	return f == FamilyLinear || f == FamilyQuadratic
}

// LessonInfo is the one-shot handoff from the setup step into the lesson core.
type LessonInfo struct {
	Family      Family     `json:"function_type" yaml:"function_type"`
	StudentName string     `json:"student_name" yaml:"student_name"`
	Expression  string     `json:"function_string" yaml:"function_string"`
	XBounds     [2]float64 `json:"x_bounds" yaml:"x_bounds"`
	YBounds     [2]float64 `json:"y_bounds" yaml:"y_bounds"`
	XIntercepts []float64  `json:"x_intercepts" yaml:"x_intercepts"`
}
