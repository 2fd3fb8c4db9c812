package service

import (
	"github.com/mmynk/studentbook/internal/models"
	"github.com/mmynk/studentbook/internal/records"
)

type RegisterRequest struct {
	Username        string `json:"username"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type RegisterResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type CheckUsernameRequest struct {
	Username string `json:"username"`
}

type CheckUsernameResponse struct {
	Exists bool `json:"exists"`
}

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Student is the wire form of a student record. ID is ignored on add.
type Student struct {
	ID               int64     `json:"id,omitempty"`
	Name             string    `json:"name"`
	ClassName        string    `json:"class_name,omitempty"`
	Section          string    `json:"section,omitempty"`
	SchoolName       string    `json:"school_name,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	DOB              string    `json:"dob,omitempty"`
	BloodGroup       string    `json:"blood_group,omitempty"`
	FatherName       string    `json:"father_name,omitempty"`
	MotherName       string    `json:"mother_name,omitempty"`
	ParentContact    string    `json:"parent_contact,omitempty"`
	Address1         string    `json:"address1,omitempty"`
	Address2         string    `json:"address2,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	ZipCode          string    `json:"zip_code,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	Location         *Location `json:"location,omitempty"`
	PhotoURI         string    `json:"photo_uri,omitempty"`
}

type AddStudentRequest struct {
	Student Student `json:"student"`
}

type AddStudentResponse struct {
	Student Student `json:"student"`
}

type GetStudentRequest struct {
	ID int64 `json:"id"`
}

type GetStudentResponse struct {
	Student Student `json:"student"`
}

type ListStudentsRequest struct {
	// LocatedOnly restricts the result to students with a location.
	LocatedOnly bool `json:"located_only,omitempty"`
}

type ListStudentsResponse struct {
	Students []Student `json:"students"`
}

type DeleteStudentRequest struct {
	ID int64 `json:"id"`
}

type DeleteStudentResponse struct{}

type UploadPhotoRequest struct {
	// Data is the raw image; base64 on the wire.
	Data []byte `json:"data"`
}

type UploadPhotoResponse struct {
	PhotoURI string `json:"photo_uri"`
}

func toDraft(s Student) records.StudentDraft {
	d := records.StudentDraft{
		Name:             s.Name,
		ClassName:        s.ClassName,
		Section:          s.Section,
		SchoolName:       s.SchoolName,
		Gender:           s.Gender,
		DOB:              s.DOB,
		BloodGroup:       s.BloodGroup,
		FatherName:       s.FatherName,
		MotherName:       s.MotherName,
		ParentContact:    s.ParentContact,
		Address1:         s.Address1,
		Address2:         s.Address2,
		City:             s.City,
		State:            s.State,
		ZipCode:          s.ZipCode,
		EmergencyContact: s.EmergencyContact,
		PhotoURI:         s.PhotoURI,
	}
	if s.Location != nil {
		d.Location = &models.Location{Latitude: s.Location.Latitude, Longitude: s.Location.Longitude}
	}
	return d
}

func fromModel(m *models.Student) Student {
	s := Student{
		ID:               m.ID,
		Name:             m.Name,
		ClassName:        m.ClassName,
		Section:          m.Section,
		SchoolName:       m.SchoolName,
		Gender:           m.Gender,
		DOB:              m.DOB,
		BloodGroup:       m.BloodGroup,
		FatherName:       m.FatherName,
		MotherName:       m.MotherName,
		ParentContact:    m.ParentContact,
		Address1:         m.Address1,
		Address2:         m.Address2,
		City:             m.City,
		State:            m.State,
		ZipCode:          m.ZipCode,
		EmergencyContact: m.EmergencyContact,
		PhotoURI:         m.PhotoURI,
	}
	if m.Location != nil {
		s.Location = &Location{Latitude: m.Location.Latitude, Longitude: m.Location.Longitude}
	}
	return s
}

func fromModels(ms []*models.Student) []Student {
	out := make([]Student, 0, len(ms))
	for _, m := range ms {
		out = append(out, fromModel(m))
	}
	return out
}
