package viewstate

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/studentbook/internal/models"
	"github.com/mmynk/studentbook/internal/records"
)

// DefaultGender pre-selects the gender choice on a fresh form.
const DefaultGender = "Male"

// StudentRules is the lifecycle contract the student model drives.
type StudentRules interface {
	Add(ctx context.Context, d records.StudentDraft) (*models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// StudentModel holds the student list, the selected student, the add form and
// the add operation for a display layer.
type StudentModel struct {
	students StudentRules
	add      *Operation
	refresh  singleflight.Group

	mu sync.RWMutex
	// writes counts adds and deletes; a read started before the latest write
	// does not replace the list.
	writes  uint64
	list    []*models.Student
	current *models.Student
	form    records.StudentDraft
}

// NewStudentModel creates a student model over students. The list starts empty;
// call LoadStudents to populate it.
func NewStudentModel(students StudentRules) *StudentModel {
	return &StudentModel{
		students: students,
		add:      NewOperation(),
		list:     []*models.Student{},
		form:     blankForm(),
	}
}

func blankForm() records.StudentDraft {
	return records.StudentDraft{Gender: DefaultGender}
}

// AddState is the add-student operation.
func (m *StudentModel) AddState() *Operation { return m.add }

// Students returns a copy of the last loaded list.
func (m *StudentModel) Students() []*models.Student {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Student, len(m.list))
	for i, s := range m.list {
		out[i] = s.Clone()
	}
	return out
}

// Located returns the loaded students that have a location, for the map view.
func (m *StudentModel) Located() []*models.Student {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Student, 0, len(m.list))
	for _, s := range m.list {
		if s.HasLocation() {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Current returns the student selected by LoadStudent, or nil.
func (m *StudentModel) Current() *models.Student {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// Form returns the add form contents.
func (m *StudentModel) Form() records.StudentDraft {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.form
}

// UpdateForm edits the add form in place.
func (m *StudentModel) UpdateForm(edit func(*records.StudentDraft)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	edit(&m.form)
}

// ClearForm resets the add form to its defaults.
func (m *StudentModel) ClearForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = blankForm()
}

const refreshKey = "students"

// LoadStudents re-reads the list. Concurrent calls share one read.
func (m *StudentModel) LoadStudents(ctx context.Context) error {
	_, err, _ := m.refresh.Do(refreshKey, func() (any, error) {
		m.mu.RLock()
		seen := m.writes
		m.mu.RUnlock()

		list, err := m.students.List(ctx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.writes == seen {
			m.list = list
		}
		return nil, nil
	})
	return err
}

// reloadAfterWrite reads the list fresh instead of joining a read that
// started before the write.
func (m *StudentModel) reloadAfterWrite(ctx context.Context) error {
	m.mu.Lock()
	m.writes++
	m.mu.Unlock()
	m.refresh.Forget(refreshKey)
	return m.LoadStudents(ctx)
}

// LoadStudent selects the student with id. A missing id clears the selection
// and returns the not-found error.
func (m *StudentModel) LoadStudent(ctx context.Context, id int64) error {
	student, err := m.students.Get(ctx, id)
	m.mu.Lock()
	m.current = student
	m.mu.Unlock()
	return err
}

// AddStudent submits the current form. On success the form is cleared and the
// list reloaded.
func (m *StudentModel) AddStudent(ctx context.Context) (State, error) {
	draft := m.Form()
	return m.add.Run(ctx, func(ctx context.Context) error {
		if _, err := m.students.Add(ctx, draft); err != nil {
			return err
		}
		m.ClearForm()
		if err := m.reloadAfterWrite(ctx); err != nil {
			slog.Warn("Student list refresh failed after add", "error", err)
		}
		return nil
	})
}

// DeleteStudent removes the student with id and reloads the list.
func (m *StudentModel) DeleteStudent(ctx context.Context, id int64) error {
	if err := m.students.Delete(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	if m.current != nil && m.current.ID == id {
		m.current = nil
	}
	m.mu.Unlock()
	return m.reloadAfterWrite(ctx)
}

// ResetAddState returns the add operation to Idle.
func (m *StudentModel) ResetAddState() {
	m.add.Reset()
}
