package allocator

import (
	"math"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

// OrderStudents reorders the student queue so that up to a target share of rural
// students is processed first.
//
// The target is round(targetRuralFraction * len(students)), rounding half to even.
// The result is the first min(target, rural) rural students, then the remaining
// rural students, then everyone else, each group keeping its original relative order.
// No student is added or dropped. The ordering only biases processing; it does not
// guarantee the final allocation reaches the target share.
func OrderStudents(students []model.Student, targetRuralFraction float64) []model.Student {
	rural := make([]model.Student, 0, len(students))
	other := make([]model.Student, 0, len(students))
	for _, student := range students {
		if student.IsRural() {
			rural = append(rural, student)
		} else {
			other = append(other, student)
		}
	}

	head := min(RuralTarget(len(students), targetRuralFraction), len(rural))

	ordered := make([]model.Student, 0, len(students))
	ordered = append(ordered, rural[:head]...)
	ordered = append(ordered, rural[head:]...)
	ordered = append(ordered, other...)

	return ordered
}

// RuralTarget returns the number of queue slots reserved for rural students:
// round(fraction * studentCount), rounding half to even, with fraction clamped to [0, 1]
func RuralTarget(studentCount int, fraction float64) int {
	if math.IsNaN(fraction) {
		fraction = 0
	}
	fraction = min(max(fraction, 0), 1)
	return int(math.RoundToEven(fraction * float64(studentCount)))
}
