package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/studentbook/internal/models"
)

const studentColumns = `id, name, class_name, section, school_name, gender, dob, blood_group,
	father_name, mother_name, parent_contact, address1, address2, city, state, zip_code,
	emergency_contact, latitude, longitude, photo_uri`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// InsertStudent persists a new student and writes the assigned ID back into student.ID.
// Any ID already set on student is ignored.
func (s *SQLiteStore) InsertStudent(ctx context.Context, student *models.Student) error {
	var lat, lng sql.NullFloat64
	if student.Location != nil {
		lat = sql.NullFloat64{Float64: student.Location.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: student.Location.Longitude, Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO students (name, class_name, section, school_name, gender, dob, blood_group,
			father_name, mother_name, parent_contact, address1, address2, city, state, zip_code,
			emergency_contact, latitude, longitude, photo_uri)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		student.Name, student.ClassName, student.Section, student.SchoolName, student.Gender,
		student.DOB, student.BloodGroup, student.FatherName, student.MotherName,
		student.ParentContact, student.Address1, student.Address2, student.City, student.State,
		student.ZipCode, student.EmergencyContact, lat, lng, student.PhotoURI,
	)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read student id: %w", err)
	}
	student.ID = id

	return nil
}

// ListStudents retrieves all students ordered by ID.
func (s *SQLiteStore) ListStudents(ctx context.Context) ([]*models.Student, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+studentColumns+" FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, nil
}

// GetStudent retrieves a student by ID.
func (s *SQLiteStore) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+studentColumns+" FROM students WHERE id = ?", id)

	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Student not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// DeleteStudent removes a student by ID.
func (s *SQLiteStore) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete student: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read deleted rows: %w", err)
	}

	return affected > 0, nil
}

func scanStudent(row rowScanner) (*models.Student, error) {
	student := &models.Student{}
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&student.ID, &student.Name, &student.ClassName, &student.Section, &student.SchoolName,
		&student.Gender, &student.DOB, &student.BloodGroup, &student.FatherName,
		&student.MotherName, &student.ParentContact, &student.Address1, &student.Address2,
		&student.City, &student.State, &student.ZipCode, &student.EmergencyContact,
		&lat, &lng, &student.PhotoURI,
	)
	if err != nil {
		return nil, err
	}

	// A half-set coordinate is treated as no location.
	if lat.Valid && lng.Valid {
		student.Location = &models.Location{Latitude: lat.Float64, Longitude: lng.Float64}
	}

	return student, nil
}
