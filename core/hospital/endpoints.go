package hospital

import (
	"net/http"

	"github.com/supernitin06/erp-tenants-sub000/core/resource"
)

type (
	NoArgs struct{}

	NewStaff struct {
		Name  string `json:"name" validate:"required"`
		Role  string `json:"role" validate:"required,oneof=doctor nurse admin"`
		Email string `json:"email" validate:"omitempty,email"`
		Phone string `json:"phone" validate:"omitempty,phone_"`
	}

	NewRoom struct {
		Number string `json:"number" validate:"required"`
		Ward   string `json:"ward"`
	}

	AdmitPatient struct {
		Name   string `json:"name" validate:"required"`
		Phone  string `json:"phone" validate:"omitempty,phone_"`
		RoomID string `json:"roomId"`
	}

	DischargePatientArgs struct {
		PatientID string `json:"patientId"`
	}
)

var GetAllStaff = resource.Endpoint[NoArgs, resource.List[Staff]]{
	Name:     "getAllStaff",
	Method:   http.MethodGet,
	Path:     func(NoArgs) string { return "/api/v1/staff" },
	Provides: func(NoArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagStaff}} },
	Transform: func(raw []byte) (resource.List[Staff], error) {
		return resource.UnwrapList[Staff](raw, "staff")
	},
}

var AddStaff = resource.Endpoint[NewStaff, Staff]{
	Name:        "addStaff",
	Method:      http.MethodPost,
	Path:        func(NewStaff) string { return "/api/v1/staff" },
	Body:        func(a NewStaff) (interface{}, error) { return a, nil },
	Invalidates: func(NewStaff) []resource.Tag { return []resource.Tag{{Type: resource.TagStaff}} },
	Transform:   resource.UnwrapObject[Staff],
	Pending:     "Adding staff member...",
}

var GetAllRooms = resource.Endpoint[NoArgs, resource.List[Room]]{
	Name:     "getAllRooms",
	Method:   http.MethodGet,
	Path:     func(NoArgs) string { return "/api/v1/rooms" },
	Provides: func(NoArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagRoom}} },
	Transform: func(raw []byte) (resource.List[Room], error) {
		return resource.UnwrapList[Room](raw, "rooms")
	},
}

var AddRoom = resource.Endpoint[NewRoom, Room]{
	Name:        "addRoom",
	Method:      http.MethodPost,
	Path:        func(NewRoom) string { return "/api/v1/rooms" },
	Body:        func(a NewRoom) (interface{}, error) { return a, nil },
	Invalidates: func(NewRoom) []resource.Tag { return []resource.Tag{{Type: resource.TagRoom}} },
	Transform:   resource.UnwrapObject[Room],
	Pending:     "Adding room...",
}

var GetAllPatients = resource.Endpoint[NoArgs, resource.List[Patient]]{
	Name:     "getAllPatients",
	Method:   http.MethodGet,
	Path:     func(NoArgs) string { return "/api/v1/patients" },
	Provides: func(NoArgs) []resource.Tag { return []resource.Tag{{Type: resource.TagPatient}} },
	Transform: func(raw []byte) (resource.List[Patient], error) {
		return resource.UnwrapList[Patient](raw, "patients")
	},
}

// Admitting a patient also occupies a room, so both caches go stale.
var Admit = resource.Endpoint[AdmitPatient, Patient]{
	Name:   "admitPatient",
	Method: http.MethodPost,
	Path:   func(AdmitPatient) string { return "/api/v1/patients" },
	Body:   func(a AdmitPatient) (interface{}, error) { return a, nil },
	Invalidates: func(AdmitPatient) []resource.Tag {
		return []resource.Tag{{Type: resource.TagPatient}, {Type: resource.TagRoom}}
	},
	Transform: resource.UnwrapObject[Patient],
	Pending:   "Admitting patient...",
}

var Discharge = resource.Endpoint[DischargePatientArgs, resource.Ack]{
	Name:   "dischargePatient",
	Method: http.MethodDelete,
	Path:   func(a DischargePatientArgs) string { return "/api/v1/patients/" + a.PatientID },
	Invalidates: func(DischargePatientArgs) []resource.Tag {
		return []resource.Tag{{Type: resource.TagPatient}, {Type: resource.TagRoom}}
	},
	Pending: "Discharging patient...",
}
