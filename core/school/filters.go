package school

import (
	"sort"
	"strings"

	"github.com/supernitin06/erp-tenants-sub000/core"
)

// Client-side helpers over already-fetched lists. The backend does not
// paginate or filter these endpoints; screens narrow and order locally.

// SearchStudents keeps students whose name or email contains the term,
// case-insensitively. An empty term keeps everything.
func SearchStudents(students []Student, term string) []Student {
	term = core.CleanString(term, true)
	if term == "" {
		return students
	}
	out := make([]Student, 0, len(students))
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), term) ||
			strings.Contains(strings.ToLower(s.Email), term) {
			out = append(out, s)
		}
	}
	return out
}

// SortStudentsByName orders a copy of the slice by name, then roll number.
func SortStudentsByName(students []Student) []Student {
	out := make([]Student, len(students))
	copy(out, students)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].RollNumber < out[j].RollNumber
	})
	return out
}

// AvailableBooks keeps only books currently on the shelf.
func AvailableBooks(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.Available {
			out = append(out, b)
		}
	}
	return out
}

// OutstandingFees sums the amounts of fee records still due.
func OutstandingFees(fees []FeeRecord) float64 {
	var total float64
	for _, f := range fees {
		if f.Status != "paid" {
			total += f.Amount
		}
	}
	return total
}
