package school

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/supernitin06/erp-tenants-sub000/core/resource"
)

// Argument types. Empty structs still serialize deterministically, which
// keeps cache keys canonical.
type (
	NoArgs struct{}

	NewStudent struct {
		Name       string `json:"name" validate:"required"`
		Email      string `json:"email" validate:"omitempty,email"`
		Phone      string `json:"phone" validate:"omitempty,phone_"`
		ClassID    string `json:"classId"`
		RollNumber int    `json:"rollNumber"`
	}

	DeleteStudentArgs struct {
		StudentID string `json:"studentId"`
	}

	NewTeacher struct {
		Name    string `json:"name" validate:"required"`
		Email   string `json:"email" validate:"omitempty,email"`
		Subject string `json:"subject"`
	}

	NewClass struct {
		Name      string `json:"name" validate:"required"`
		Section   string `json:"section"`
		TeacherID string `json:"teacherId"`
	}

	NewExam struct {
		Name    string `json:"name" validate:"required"`
		ClassID string `json:"classId" validate:"required"`
		Date    string `json:"date"`
	}

	BooksByLibraryArgs struct {
		LibraryID int `json:"libraryId"`
	}

	NewBook struct {
		LibraryID int    `json:"libraryId"`
		Title     string `json:"title" validate:"required"`
		Author    string `json:"author"`
	}

	DeleteBookArgs struct {
		LibraryID int    `json:"libraryId"`
		BookID    string `json:"bookId"`
	}

	FeesByStudentArgs struct {
		StudentID string `json:"studentId"`
	}

	RecordFeePayment struct {
		FeeID     string  `json:"feeId"`
		StudentID string  `json:"studentId"`
		Amount    float64 `json:"amount"`
	}
)

func bookTags(libraryID int) []resource.Tag {
	return []resource.Tag{{Type: resource.TagBook, Scope: strconv.Itoa(libraryID)}}
}

func feeTags(studentID string) []resource.Tag {
	return []resource.Tag{{Type: resource.TagFee, Scope: studentID}}
}

// Students

var GetAllStudents = resource.Endpoint[NoArgs, resource.List[Student]]{
	Name:     "getAllStudents",
	Method:   http.MethodGet,
	Path:     func(NoArgs) string { return "/api/v1/students" },
	Provides: func(NoArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagStudent}} },
	Transform: func(raw []byte) (resource.List[Student], error) {
		return resource.UnwrapList[Student](raw, "students")
	},
}

var AddStudent = resource.Endpoint[NewStudent, Student]{
	Name:        "addStudent",
	Method:      http.MethodPost,
	Path:        func(NewStudent) string { return "/api/v1/students" },
	Body:        func(a NewStudent) (interface{}, error) { return a, nil },
	Invalidates: func(NewStudent) []resource.Tag { return []resource.Tag{{Type: resource.TagStudent}} },
	Transform:   resource.UnwrapObject[Student],
	Pending:     "Adding student...",
}

var DeleteStudent = resource.Endpoint[DeleteStudentArgs, resource.Ack]{
	Name:   "deleteStudent",
	Method: http.MethodDelete,
	Path:   func(a DeleteStudentArgs) string { return "/api/v1/students/" + a.StudentID },
	Invalidates: func(DeleteStudentArgs) []resource.Tag {
		return []resource.Tag{{Type: resource.TagStudent}}
	},
	Pending: "Removing student...",
}

// Teachers

var GetAllTeachers = resource.Endpoint[NoArgs, resource.List[Teacher]]{
	Name:     "getAllTeachers",
	Method:   http.MethodGet,
	Path:     func(NoArgs) string { return "/api/v1/teachers" },
	Provides: func(NoArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagTeacher}} },
	Transform: func(raw []byte) (resource.List[Teacher], error) {
		return resource.UnwrapList[Teacher](raw, "teachers")
	},
}

var AddTeacher = resource.Endpoint[NewTeacher, Teacher]{
	Name:        "addTeacher",
	Method:      http.MethodPost,
	Path:        func(NewTeacher) string { return "/api/v1/teachers" },
	Body:        func(a NewTeacher) (interface{}, error) { return a, nil },
	Invalidates: func(NewTeacher) []resource.Tag { return []resource.Tag{{Type: resource.TagTeacher}} },
	Transform:   resource.UnwrapObject[Teacher],
	Pending:     "Adding teacher...",
}

// Classes

var GetAllClasses = resource.Endpoint[NoArgs, resource.List[SchoolClass]]{
	Name:     "getAllClasses",
	Method:   http.MethodGet,
	Path:     func(NoArgs) string { return "/api/v1/classes" },
	Provides: func(NoArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagClassList}} },
	Transform: func(raw []byte) (resource.List[SchoolClass], error) {
		return resource.UnwrapList[SchoolClass](raw, "classes")
	},
}

var AddClass = resource.Endpoint[NewClass, SchoolClass]{
	Name:        "addClass",
	Method:      http.MethodPost,
	Path:        func(NewClass) string { return "/api/v1/classes" },
	Body:        func(a NewClass) (interface{}, error) { return a, nil },
	Invalidates: func(NewClass) []resource.Tag { return []resource.Tag{{Type: resource.TagClassList}} },
	Transform:   resource.UnwrapObject[SchoolClass],
	Pending:     "Creating class...",
}

// Examinations

var GetAllExams = resource.Endpoint[NoArgs, resource.List[Exam]]{
	Name:     "getAllExams",
	Method:   http.MethodGet,
	Path:     func(NoArgs) string { return "/api/v1/exams" },
	Provides: func(NoArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagExam}} },
	Transform: func(raw []byte) (resource.List[Exam], error) {
		return resource.UnwrapList[Exam](raw, "exams")
	},
}

var ScheduleExam = resource.Endpoint[NewExam, Exam]{
	Name:        "scheduleExam",
	Method:      http.MethodPost,
	Path:        func(NewExam) string { return "/api/v1/exams" },
	Body:        func(a NewExam) (interface{}, error) { return a, nil },
	Invalidates: func(NewExam) []resource.Tag { return []resource.Tag{{Type: resource.TagExam}} },
	Transform:   resource.UnwrapObject[Exam],
	Pending:     "Scheduling exam...",
}

// Library. Book tags are scoped per library: deleting a book in library 7
// must not touch the cached list of library 9.

var GetBooksByLibrary = resource.Endpoint[BooksByLibraryArgs, resource.List[Book]]{
	Name:     "getBooksByLibrary",
	Method:   http.MethodGet,
	Path:     func(a BooksByLibraryArgs) string { return fmt.Sprintf("/api/v1/library/%d/books", a.LibraryID) },
	Provides: func(a BooksByLibraryArgs) []resource.Tag { return bookTags(a.LibraryID) },
	Transform: func(raw []byte) (resource.List[Book], error) {
		return resource.UnwrapList[Book](raw, "books")
	},
}

var AddBook = resource.Endpoint[NewBook, Book]{
	Name:        "addBook",
	Method:      http.MethodPost,
	Path:        func(a NewBook) string { return fmt.Sprintf("/api/v1/library/%d/books", a.LibraryID) },
	Body:        func(a NewBook) (interface{}, error) { return a, nil },
	Invalidates: func(a NewBook) []resource.Tag { return bookTags(a.LibraryID) },
	Transform:   resource.UnwrapObject[Book],
	Pending:     "Adding book...",
}

var DeleteBook = resource.Endpoint[DeleteBookArgs, resource.Ack]{
	Name:   "deleteBook",
	Method: http.MethodDelete,
	Path: func(a DeleteBookArgs) string {
		return fmt.Sprintf("/api/v1/library/%d/books/%s", a.LibraryID, a.BookID)
	},
	Invalidates: func(a DeleteBookArgs) []resource.Tag { return bookTags(a.LibraryID) },
	Pending:     "Removing book...",
}

// Fees. Scoped per student.

var GetFeesByStudent = resource.Endpoint[FeesByStudentArgs, resource.List[FeeRecord]]{
	Name:     "getFeesByStudent",
	Method:   http.MethodGet,
	Path:     func(a FeesByStudentArgs) string { return "/api/v1/students/" + a.StudentID + "/fees" },
	Provides: func(a FeesByStudentArgs) []resource.Tag { return feeTags(a.StudentID) },
	Transform: func(raw []byte) (resource.List[FeeRecord], error) {
		return resource.UnwrapList[FeeRecord](raw, "fees")
	},
}

var PayFee = resource.Endpoint[RecordFeePayment, resource.Ack]{
	Name:        "payFee",
	Method:      http.MethodPut,
	Path:        func(a RecordFeePayment) string { return "/api/v1/fees/" + a.FeeID + "/pay" },
	Body:        func(a RecordFeePayment) (interface{}, error) { return a, nil },
	Invalidates: func(a RecordFeePayment) []resource.Tag { return feeTags(a.StudentID) },
	Pending:     "Recording payment...",
}
