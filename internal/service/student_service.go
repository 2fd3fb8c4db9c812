package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/studentbook/internal/middleware"
	"github.com/mmynk/studentbook/internal/models"
	"github.com/mmynk/studentbook/internal/photos"
	"github.com/mmynk/studentbook/internal/records"
)

// StudentRules is the student lifecycle the student service drives.
type StudentRules interface {
	Add(ctx context.Context, d records.StudentDraft) (*models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Located(ctx context.Context) ([]*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// PhotoStore keeps photo bytes and hands out URIs for them.
type PhotoStore interface {
	Save(r io.Reader) (string, error)
	Owns(uri string) bool
	Delete(uri string) error
}

// StudentService implements the StudentService RPC interface.
// Every call expects an authenticated username in the context.
type StudentService struct {
	students StudentRules
	photos   PhotoStore
	logger   *slog.Logger
}

// NewStudentService creates the student service. photoStore may be nil, in
// which case UploadPhoto is unavailable.
func NewStudentService(students StudentRules, photoStore PhotoStore, logger *slog.Logger) *StudentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudentService{students: students, photos: photoStore, logger: logger}
}

func requireUser(ctx context.Context) (string, error) {
	username := middleware.GetUsername(ctx)
	if username == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return username, nil
}

// AddStudent validates and stores a student record.
func (s *StudentService) AddStudent(ctx context.Context, req *connect.Request[AddStudentRequest]) (*connect.Response[AddStudentResponse], error) {
	username, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AddStudent request", "username", username, "name", req.Msg.Student.Name)

	saved, err := s.students.Add(ctx, toDraft(req.Msg.Student))
	if err != nil {
		s.logger.Warn("AddStudent failed", "username", username, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Student added", "student_id", saved.ID)
	return connect.NewResponse(&AddStudentResponse{Student: fromModel(saved)}), nil
}

// GetStudent returns one student by id.
func (s *StudentService) GetStudent(ctx context.Context, req *connect.Request[GetStudentRequest]) (*connect.Response[GetStudentResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	student, err := s.students.Get(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetStudentResponse{Student: fromModel(student)}), nil
}

// ListStudents returns all students in insertion order, or only those with a
// location when LocatedOnly is set.
func (s *StudentService) ListStudents(ctx context.Context, req *connect.Request[ListStudentsRequest]) (*connect.Response[ListStudentsResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	list := s.students.List
	if req.Msg.LocatedOnly {
		list = s.students.Located
	}
	students, err := list(ctx)
	if err != nil {
		s.logger.Error("ListStudents failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Debug("ListStudents", "count", len(students), "located_only", req.Msg.LocatedOnly)
	return connect.NewResponse(&ListStudentsResponse{Students: fromModels(students)}), nil
}

// DeleteStudent removes a student and any photo this server stored for it that
// no other student uses.
func (s *StudentService) DeleteStudent(ctx context.Context, req *connect.Request[DeleteStudentRequest]) (*connect.Response[DeleteStudentResponse], error) {
	username, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteStudent request", "username", username, "student_id", req.Msg.ID)

	student, err := s.students.Get(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.students.Delete(ctx, req.Msg.ID); err != nil {
		s.logger.Warn("DeleteStudent failed", "student_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.releasePhoto(ctx, student)
	return connect.NewResponse(&DeleteStudentResponse{}), nil
}

// releasePhoto removes a deleted student's photo file when this server owns it
// and no remaining student references the same URI.
func (s *StudentService) releasePhoto(ctx context.Context, deleted *models.Student) {
	if s.photos == nil || !deleted.HasPhoto() || !s.photos.Owns(deleted.PhotoURI) {
		return
	}

	remaining, err := s.students.List(ctx)
	if err != nil {
		s.logger.Warn("Keeping photo, reference check failed", "uri", deleted.PhotoURI, "error", err)
		return
	}
	for _, st := range remaining {
		if st.PhotoURI == deleted.PhotoURI {
			s.logger.Debug("Keeping shared photo", "uri", deleted.PhotoURI, "student_id", st.ID)
			return
		}
	}

	if err := s.photos.Delete(deleted.PhotoURI); err != nil {
		s.logger.Warn("Failed to remove photo", "student_id", deleted.ID, "uri", deleted.PhotoURI, "error", err)
	}
}

// UploadPhoto stores an image and returns the URI to put in a student's PhotoURI.
func (s *StudentService) UploadPhoto(ctx context.Context, req *connect.Request[UploadPhotoRequest]) (*connect.Response[UploadPhotoResponse], error) {
	username, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if s.photos == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("photo uploads are disabled"))
	}

	uri, err := s.photos.Save(bytes.NewReader(req.Msg.Data))
	if err != nil {
		s.logger.Warn("UploadPhoto rejected", "username", username, "size", len(req.Msg.Data), "error", err)
		switch {
		case errors.Is(err, photos.ErrEmpty), errors.Is(err, photos.ErrUnsupported):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		case errors.Is(err, photos.ErrTooLarge):
			return nil, connect.NewError(connect.CodeResourceExhausted, err)
		default:
			return nil, connect.NewError(connect.CodeInternal, errors.New("Failed to store photo"))
		}
	}

	s.logger.Info("Photo stored", "username", username, "uri", uri)
	return connect.NewResponse(&UploadPhotoResponse{PhotoURI: uri}), nil
}
