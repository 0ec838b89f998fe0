package resource

// TagType enumerates every entity category cached data can depend on. The
// set is closed on purpose: invalidation matching stays exhaustive instead of
// being guessed from loose strings at call sites.
type TagType string

const (
	TagStudent   TagType = "Student"
	TagTeacher   TagType = "Teacher"
	TagClassList TagType = "ClassList"
	TagExam      TagType = "Exam"
	TagBook      TagType = "Book"
	TagFee       TagType = "Fee"
	TagPlan      TagType = "Plan"
	TagStaff     TagType = "Staff"
	TagRoom      TagType = "Room"
	TagPatient   TagType = "Patient"
	TagPayment   TagType = "Payment"
)

// Tag identifies which entity data a cache entry depends on. Scope narrows a
// tag to one aggregate (e.g. a library's book list); an empty scope is its
// own distinct value, it is not a wildcard.
type Tag struct {
	Type  TagType
	Scope string
}

func (t Tag) Matches(o Tag) bool {
	return t.Type == o.Type && t.Scope == o.Scope
}

// Intersects reports whether the two tag sets share at least one tag. This
// set-intersection rule is the whole invalidation contract: a mutation
// declaring {Book, "7"} staleness-marks queries tagged {Book, "7"} and
// leaves {Book, "9"} untouched.
func Intersects(provided, invalidated []Tag) bool {
	for _, p := range provided {
		for _, i := range invalidated {
			if p.Matches(i) {
				return true
			}
		}
	}
	return false
}
