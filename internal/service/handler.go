package service

import (
	"net/http"

	"connectrpc.com/connect"
)

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "studentbook.v1.AuthService"
	// StudentServiceName is the fully-qualified name of the StudentService service.
	StudentServiceName = "studentbook.v1.StudentService"
)

// Procedure paths, in the form Connect routes them.
const (
	AuthServiceRegisterProcedure      = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure         = "/" + AuthServiceName + "/Login"
	AuthServiceLogoutProcedure        = "/" + AuthServiceName + "/Logout"
	AuthServiceCheckUsernameProcedure = "/" + AuthServiceName + "/CheckUsername"

	StudentServiceAddStudentProcedure    = "/" + StudentServiceName + "/AddStudent"
	StudentServiceGetStudentProcedure    = "/" + StudentServiceName + "/GetStudent"
	StudentServiceListStudentsProcedure  = "/" + StudentServiceName + "/ListStudents"
	StudentServiceDeleteStudentProcedure = "/" + StudentServiceName + "/DeleteStudent"
	StudentServiceUploadPhotoProcedure   = "/" + StudentServiceName + "/UploadPhoto"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}

// NewAuthServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceLogoutProcedure, connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...))
	mux.Handle(AuthServiceCheckUsernameProcedure, connect.NewUnaryHandler(AuthServiceCheckUsernameProcedure, svc.CheckUsername, opts...))
	return "/" + AuthServiceName + "/", mux
}

// NewStudentServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
// The caller installs middleware.RequireAuth through opts.
func NewStudentServiceHandler(svc *StudentService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(StudentServiceAddStudentProcedure, connect.NewUnaryHandler(StudentServiceAddStudentProcedure, svc.AddStudent, opts...))
	mux.Handle(StudentServiceGetStudentProcedure, connect.NewUnaryHandler(StudentServiceGetStudentProcedure, svc.GetStudent, opts...))
	mux.Handle(StudentServiceListStudentsProcedure, connect.NewUnaryHandler(StudentServiceListStudentsProcedure, svc.ListStudents, opts...))
	mux.Handle(StudentServiceDeleteStudentProcedure, connect.NewUnaryHandler(StudentServiceDeleteStudentProcedure, svc.DeleteStudent, opts...))
	mux.Handle(StudentServiceUploadPhotoProcedure, connect.NewUnaryHandler(StudentServiceUploadPhotoProcedure, svc.UploadPhoto, opts...))
	return "/" + StudentServiceName + "/", mux
}
