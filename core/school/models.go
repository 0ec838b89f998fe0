package school

type (
	Student struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Email      string `json:"email,omitempty"`
		Phone      string `json:"phone,omitempty"`
		ClassID    string `json:"classId,omitempty"`
		RollNumber int    `json:"rollNumber,omitempty"`
	}

	Teacher struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email,omitempty"`
		Phone   string `json:"phone,omitempty"`
		Subject string `json:"subject,omitempty"`
	}

	SchoolClass struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Section   string `json:"section,omitempty"`
		TeacherID string `json:"teacherId,omitempty"`
	}

	Exam struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		ClassID string `json:"classId,omitempty"`
		Date    string `json:"date,omitempty"`
	}

	Book struct {
		ID        string `json:"id"`
		LibraryID int    `json:"libraryId"`
		Title     string `json:"title"`
		Author    string `json:"author,omitempty"`
		Available bool   `json:"available"`
	}

	FeeRecord struct {
		ID        string  `json:"id"`
		StudentID string  `json:"studentId"`
		Amount    float64 `json:"amount"`
		Status    string  `json:"status"` // "due" | "paid"
		DueDate   string  `json:"dueDate,omitempty"`
	}
)
