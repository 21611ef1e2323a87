package model

// Grade is a runner's school-year category
type Grade string

const (
	GradeFreshman  Grade = "Freshman"
	GradeSophomore Grade = "Sophomore"
	GradeJunior    Grade = "Junior"
	GradeSenior    Grade = "Senior"
)

// Grades returns all grades in ascending order
func Grades() []Grade {
	return []Grade{GradeFreshman, GradeSophomore, GradeJunior, GradeSenior}
}

// Valid reports whether g is one of the four known grades
func (g Grade) Valid() bool {
	return g.Rank() >= 0
}

// Rank returns the grade's position in school order, or -1 for unknown grades
func (g Grade) Rank() int {
	for i, known := range Grades() {
		if g == known {
			return i
		}
	}
	return -1
}

// GradeForAge approximates a grade from a legacy age value
func GradeForAge(age int) Grade {
	switch {
	case age >= 18:
		return GradeSenior
	case age >= 17:
		return GradeJunior
	case age >= 16:
		return GradeSophomore
	default:
		return GradeFreshman
	}
}
