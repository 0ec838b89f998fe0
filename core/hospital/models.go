package hospital

type (
	Staff struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Role  string `json:"role,omitempty"` // "doctor" | "nurse" | "admin"
		Email string `json:"email,omitempty"`
		Phone string `json:"phone,omitempty"`
	}

	Room struct {
		ID       string `json:"id"`
		Number   string `json:"number"`
		Ward     string `json:"ward,omitempty"`
		Occupied bool   `json:"occupied"`
	}

	Patient struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Phone      string `json:"phone,omitempty"`
		RoomID     string `json:"roomId,omitempty"`
		AdmittedAt string `json:"admittedAt,omitempty"`
	}
)
