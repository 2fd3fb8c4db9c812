package viewstate

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/studentbook/internal/auth"
	"github.com/mmynk/studentbook/internal/models"
	"github.com/mmynk/studentbook/internal/records"
	"github.com/mmynk/studentbook/internal/repository"
	"github.com/mmynk/studentbook/internal/storage/sqlite"
)

func setupModels(t *testing.T) (*AuthModel, *StudentModel) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "viewstate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo := repository.New(store, auth.NewPasswordHasher(bcrypt.MinCost))
	return NewAuthModel(records.NewAccounts(repo)), NewStudentModel(records.NewStudents(repo, records.PolicyName))
}

func TestAuthModel_RegisterAndLogin(t *testing.T) {
	authModel, _ := setupModels(t)
	ctx := context.Background()
	reg := records.Registration{Username: "alice", Phone: "555-1111", Password: "pw1"}

	state, err := authModel.Register(ctx, reg, "pw1")
	require.NoError(t, err)
	assert.Equal(t, Success, state.Phase)

	authModel.ResetState()
	state, err = authModel.Register(ctx, reg, "pw1")
	require.NoError(t, err)
	assert.Equal(t, State{Phase: Failed, Reason: "User already exists"}, state)

	state, err = authModel.Login(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Equal(t, State{Phase: Failed, Reason: "Invalid credentials"}, state)
	assert.Empty(t, authModel.CurrentUser())

	state, err = authModel.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, Success, state.Phase)
	assert.Equal(t, "alice", authModel.CurrentUser())

	authModel.Logout()
	assert.Empty(t, authModel.CurrentUser())
	assert.Equal(t, Idle, authModel.LoginState().State().Phase)
	assert.Equal(t, Idle, authModel.RegisterState().State().Phase)
}

func TestAuthModel_PasswordMismatch(t *testing.T) {
	authModel, _ := setupModels(t)

	state, err := authModel.Register(context.Background(),
		records.Registration{Username: "bob", Password: "one"}, "two")
	require.NoError(t, err)
	assert.Equal(t, State{Phase: Failed, Reason: "Passwords do not match"}, state)
}

func TestStudentModel_AddClearsFormAndRefreshes(t *testing.T) {
	_, studentModel := setupModels(t)
	ctx := context.Background()

	assert.Equal(t, DefaultGender, studentModel.Form().Gender)

	studentModel.UpdateForm(func(d *records.StudentDraft) {
		d.Name = "John Doe"
		d.Location = &models.Location{Latitude: 13.0827, Longitude: 80.2707}
	})

	state, err := studentModel.AddStudent(ctx)
	require.NoError(t, err)
	assert.Equal(t, Success, state.Phase)

	assert.Equal(t, records.StudentDraft{Gender: DefaultGender}, studentModel.Form())

	list := studentModel.Students()
	require.Len(t, list, 1)
	assert.Equal(t, "John Doe", list[0].Name)
	assert.Len(t, studentModel.Located(), 1)

	studentModel.ResetAddState()
	assert.Equal(t, Idle, studentModel.AddState().State().Phase)
}

func TestStudentModel_AddBlankNameKeepsForm(t *testing.T) {
	_, studentModel := setupModels(t)
	ctx := context.Background()

	studentModel.UpdateForm(func(d *records.StudentDraft) { d.City = "Chennai" })

	state, err := studentModel.AddStudent(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{Phase: Failed, Reason: "Name is mandatory"}, state)
	assert.Equal(t, "Chennai", studentModel.Form().City)

	require.NoError(t, studentModel.LoadStudents(ctx))
	assert.Empty(t, studentModel.Students())
}

func TestStudentModel_LoadAndDelete(t *testing.T) {
	_, studentModel := setupModels(t)
	ctx := context.Background()

	studentModel.UpdateForm(func(d *records.StudentDraft) { d.Name = "Jane" })
	_, err := studentModel.AddStudent(ctx)
	require.NoError(t, err)

	id := studentModel.Students()[0].ID
	require.NoError(t, studentModel.LoadStudent(ctx, id))
	require.NotNil(t, studentModel.Current())
	assert.Equal(t, "Jane", studentModel.Current().Name)

	require.NoError(t, studentModel.DeleteStudent(ctx, id))
	assert.Nil(t, studentModel.Current())
	assert.Empty(t, studentModel.Students())

	err = studentModel.LoadStudent(ctx, id)
	assert.ErrorIs(t, err, records.ErrNotFound)
	assert.Nil(t, studentModel.Current())
}

func TestStudentModel_SnapshotsAreCopies(t *testing.T) {
	_, studentModel := setupModels(t)
	ctx := context.Background()

	studentModel.UpdateForm(func(d *records.StudentDraft) {
		d.Name = "Copy"
		d.Location = &models.Location{Latitude: 1, Longitude: 1}
	})
	_, err := studentModel.AddStudent(ctx)
	require.NoError(t, err)

	first := studentModel.Students()
	first[0].Name = "mutated"
	first[0].Location.Latitude = 50

	second := studentModel.Students()
	assert.Equal(t, "Copy", second[0].Name)
	assert.Equal(t, 1.0, second[0].Location.Latitude)
}

// blockingRules is an in-memory StudentRules whose first List call takes its
// snapshot and then waits for release.
type blockingRules struct {
	mu       sync.Mutex
	students []*models.Student
	lists    int
	entered  chan struct{}
	release  chan struct{}
}

func newBlockingRules() *blockingRules {
	return &blockingRules{entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingRules) Add(_ context.Context, d records.StudentDraft) (*models.Student, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &models.Student{ID: int64(len(b.students) + 1), Name: d.Name}
	b.students = append(b.students, s)
	return s.Clone(), nil
}

func (b *blockingRules) Get(_ context.Context, id int64) (*models.Student, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.students {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return nil, &records.Error{Kind: records.ErrNotFound, Reason: "Student not found"}
}

func (b *blockingRules) List(context.Context) ([]*models.Student, error) {
	b.mu.Lock()
	snapshot := make([]*models.Student, len(b.students))
	copy(snapshot, b.students)
	b.lists++
	first := b.lists == 1
	b.mu.Unlock()

	if first {
		close(b.entered)
		<-b.release
	}
	return snapshot, nil
}

func (b *blockingRules) Delete(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.students {
		if s.ID == id {
			b.students = append(b.students[:i], b.students[i+1:]...)
			return nil
		}
	}
	return &records.Error{Kind: records.ErrNotFound, Reason: "Student not found"}
}

func TestStudentModel_AddRefreshIgnoresEarlierRead(t *testing.T) {
	rules := newBlockingRules()
	studentModel := NewStudentModel(rules)
	ctx := context.Background()

	earlier := make(chan error, 1)
	go func() { earlier <- studentModel.LoadStudents(ctx) }()
	<-rules.entered

	// Let the earlier read finish only once the add is underway.
	go func() {
		for {
			rules.mu.Lock()
			added := len(rules.students) > 0
			rules.mu.Unlock()
			if added {
				close(rules.release)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	studentModel.UpdateForm(func(d *records.StudentDraft) { d.Name = "Fresh" })
	state, err := studentModel.AddStudent(ctx)
	require.NoError(t, err)
	require.Equal(t, Success, state.Phase)
	require.NoError(t, <-earlier)

	list := studentModel.Students()
	require.Len(t, list, 1)
	assert.Equal(t, "Fresh", list[0].Name)
}

func TestStudentModel_DeleteRefreshIgnoresEarlierRead(t *testing.T) {
	rules := newBlockingRules()
	rules.students = []*models.Student{{ID: 1, Name: "Gone"}}
	studentModel := NewStudentModel(rules)
	ctx := context.Background()

	earlier := make(chan error, 1)
	go func() { earlier <- studentModel.LoadStudents(ctx) }()
	<-rules.entered

	go func() {
		for {
			rules.mu.Lock()
			deleted := len(rules.students) == 0
			rules.mu.Unlock()
			if deleted {
				close(rules.release)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	require.NoError(t, studentModel.DeleteStudent(ctx, 1))
	require.NoError(t, <-earlier)
	assert.Empty(t, studentModel.Students())
}
