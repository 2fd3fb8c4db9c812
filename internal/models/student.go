package models

import "strings"

// Location is a map coordinate picked for a student.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Student represents a single student profile.
// A student is immutable once created; the only lifecycle transition after
// insert is deletion.
type Student struct {
	// ID is assigned by the store on insert and never reused after deletion.
	// Zero means "not yet stored".
	ID int64

	// Name is the only field every record must carry.
	Name string

	ClassName  string
	Section    string
	SchoolName string
	Gender     string

	// DOB is the display-formatted date of birth (e.g. "12/05/2012").
	// It is kept as entered and never parsed.
	DOB string

	BloodGroup    string
	FatherName    string
	MotherName    string
	ParentContact string

	Address1 string
	Address2 string
	City     string
	State    string
	ZipCode  string

	EmergencyContact string

	// Location is nil when no location was selected.
	Location *Location

	// PhotoURI references an externally stored image.
	// Empty means the student has no photo.
	PhotoURI string
}

// HasLocation reports whether a location was selected for the student.
func (s *Student) HasLocation() bool {
	return s.Location != nil
}

// HasPhoto reports whether the student carries a photo reference.
func (s *Student) HasPhoto() bool {
	return strings.TrimSpace(s.PhotoURI) != ""
}

// Clone returns a deep copy so callers never share a Location pointer with the store.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	c := *s
	if s.Location != nil {
		loc := *s.Location
		c.Location = &loc
	}
	return &c
}
