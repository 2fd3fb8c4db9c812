package records

import (
	"context"
	"fmt"
	"math"

	"github.com/mmynk/studentbook/internal/models"
)

// Policy selects which fields a new student record must carry.
type Policy string

const (
	// PolicyName requires only a non-blank name.
	PolicyName Policy = "name"
	// PolicyNameClassSection requires name, class and section.
	PolicyNameClassSection Policy = "name-class-section"
	// PolicyNamePhotoLocation requires name, a photo and a location.
	PolicyNamePhotoLocation Policy = "name-photo-location"
)

// DefaultPolicy is the add-student policy used when none is configured.
const DefaultPolicy = PolicyName

const (
	reasonAddFailed        = "Failed to add student"
	reasonLoadFailed       = "Failed to load students"
	reasonDeleteFailed     = "Failed to delete student"
	reasonStudentNotFound  = "Student not found"
	reasonLocationOutRange = "Location is out of range"
)

// ParsePolicy converts a configured policy name. Empty selects DefaultPolicy.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(name); p {
	case "":
		return DefaultPolicy, nil
	case PolicyName, PolicyNameClassSection, PolicyNamePhotoLocation:
		return p, nil
	default:
		return "", fmt.Errorf("unknown student policy %q", name)
	}
}

// mandatoryReason is the failure message listing the fields the policy requires.
func (p Policy) mandatoryReason() string {
	switch p {
	case PolicyNameClassSection:
		return "Name, Class and Section are mandatory"
	case PolicyNamePhotoLocation:
		return "Name, Photo and Location are mandatory"
	default:
		return "Name is mandatory"
	}
}

// StudentDraft is the caller-supplied content of a new student record.
// It has no ID: identity is assigned by the store.
type StudentDraft struct {
	Name             string
	ClassName        string
	Section          string
	SchoolName       string
	Gender           string
	DOB              string
	BloodGroup       string
	FatherName       string
	MotherName       string
	ParentContact    string
	Address1         string
	Address2         string
	City             string
	State            string
	ZipCode          string
	EmergencyContact string

	// Location is nil when none was picked.
	Location *models.Location

	// PhotoURI is empty when no photo was taken.
	PhotoURI string
}

func (d StudentDraft) student() *models.Student {
	s := &models.Student{
		Name:             d.Name,
		ClassName:        d.ClassName,
		Section:          d.Section,
		SchoolName:       d.SchoolName,
		Gender:           d.Gender,
		DOB:              d.DOB,
		BloodGroup:       d.BloodGroup,
		FatherName:       d.FatherName,
		MotherName:       d.MotherName,
		ParentContact:    d.ParentContact,
		Address1:         d.Address1,
		Address2:         d.Address2,
		City:             d.City,
		State:            d.State,
		ZipCode:          d.ZipCode,
		EmergencyContact: d.EmergencyContact,
		PhotoURI:         d.PhotoURI,
	}
	if d.Location != nil {
		loc := *d.Location
		s.Location = &loc
	}
	return s
}

// StudentRepository is the subset of the repository the student rules need.
type StudentRepository interface {
	AddStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) (bool, error)
}

// Students applies the student record rules.
type Students struct {
	repo   StudentRepository
	policy Policy
}

// NewStudents creates the student rules over repo using policy.
func NewStudents(repo StudentRepository, policy Policy) *Students {
	if policy == "" {
		policy = DefaultPolicy
	}
	return &Students{repo: repo, policy: policy}
}

// Policy returns the add-student policy in effect.
func (s *Students) Policy() Policy {
	return s.policy
}

// Validate checks d against the policy without writing anything.
func (s *Students) Validate(d StudentDraft) error {
	missing := isBlank(d.Name)
	switch s.policy {
	case PolicyNameClassSection:
		missing = missing || isBlank(d.ClassName) || isBlank(d.Section)
	case PolicyNamePhotoLocation:
		missing = missing || isBlank(d.PhotoURI) || d.Location == nil
	}
	if missing {
		return validationError(s.policy.mandatoryReason())
	}

	if d.Location != nil && !validLocation(*d.Location) {
		return validationError(reasonLocationOutRange)
	}
	return nil
}

// Add validates d and stores it, returning the confirmed record with its assigned ID.
func (s *Students) Add(ctx context.Context, d StudentDraft) (*models.Student, error) {
	if err := s.Validate(d); err != nil {
		return nil, err
	}

	saved, err := s.repo.AddStudent(ctx, d.student())
	if err != nil {
		return nil, storageError(reasonAddFailed, err)
	}
	return saved, nil
}

// Get returns the student with id. A missing id yields an ErrNotFound error.
func (s *Students) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.GetStudentByID(ctx, id)
	if err != nil {
		return nil, storageError(reasonLoadFailed, err)
	}
	if student == nil {
		return nil, &Error{Kind: ErrNotFound, Reason: reasonStudentNotFound}
	}
	return student, nil
}

// List returns every student in insertion order.
func (s *Students) List(ctx context.Context) ([]*models.Student, error) {
	students, err := s.repo.GetAllStudents(ctx)
	if err != nil {
		return nil, storageError(reasonLoadFailed, err)
	}
	return students, nil
}

// Located returns the students that have a location, for map display.
func (s *Students) Located(ctx context.Context) ([]*models.Student, error) {
	students, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	located := make([]*models.Student, 0, len(students))
	for _, st := range students {
		if st.HasLocation() {
			located = append(located, st)
		}
	}
	return located, nil
}

// Delete removes the student with id. A missing id yields an ErrNotFound error.
func (s *Students) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.DeleteStudent(ctx, id)
	if err != nil {
		return storageError(reasonDeleteFailed, err)
	}
	if !removed {
		return &Error{Kind: ErrNotFound, Reason: reasonStudentNotFound}
	}
	return nil
}

func validLocation(loc models.Location) bool {
	if math.IsNaN(loc.Latitude) || math.IsNaN(loc.Longitude) {
		return false
	}
	return loc.Latitude >= -90 && loc.Latitude <= 90 &&
		loc.Longitude >= -180 && loc.Longitude <= 180
}
