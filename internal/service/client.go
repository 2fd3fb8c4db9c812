package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
}

// AuthServiceClient calls an AuthService over Connect.
type AuthServiceClient struct {
	register      *connect.Client[RegisterRequest, RegisterResponse]
	login         *connect.Client[LoginRequest, LoginResponse]
	logout        *connect.Client[LogoutRequest, LogoutResponse]
	checkUsername *connect.Client[CheckUsernameRequest, CheckUsernameResponse]
}

// NewAuthServiceClient constructs a client for the AuthService at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AuthServiceClient{
		register:      connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:         connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:        connect.NewClient[LogoutRequest, LogoutResponse](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		checkUsername: connect.NewClient[CheckUsernameRequest, CheckUsernameResponse](httpClient, baseURL+AuthServiceCheckUsernameProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *AuthServiceClient) CheckUsername(ctx context.Context, req *connect.Request[CheckUsernameRequest]) (*connect.Response[CheckUsernameResponse], error) {
	return c.checkUsername.CallUnary(ctx, req)
}

// StudentServiceClient calls a StudentService over Connect.
type StudentServiceClient struct {
	addStudent    *connect.Client[AddStudentRequest, AddStudentResponse]
	getStudent    *connect.Client[GetStudentRequest, GetStudentResponse]
	listStudents  *connect.Client[ListStudentsRequest, ListStudentsResponse]
	deleteStudent *connect.Client[DeleteStudentRequest, DeleteStudentResponse]
	uploadPhoto   *connect.Client[UploadPhotoRequest, UploadPhotoResponse]
}

// NewStudentServiceClient constructs a client for the StudentService at baseURL.
func NewStudentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *StudentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &StudentServiceClient{
		addStudent:    connect.NewClient[AddStudentRequest, AddStudentResponse](httpClient, baseURL+StudentServiceAddStudentProcedure, opts...),
		getStudent:    connect.NewClient[GetStudentRequest, GetStudentResponse](httpClient, baseURL+StudentServiceGetStudentProcedure, opts...),
		listStudents:  connect.NewClient[ListStudentsRequest, ListStudentsResponse](httpClient, baseURL+StudentServiceListStudentsProcedure, opts...),
		deleteStudent: connect.NewClient[DeleteStudentRequest, DeleteStudentResponse](httpClient, baseURL+StudentServiceDeleteStudentProcedure, opts...),
		uploadPhoto:   connect.NewClient[UploadPhotoRequest, UploadPhotoResponse](httpClient, baseURL+StudentServiceUploadPhotoProcedure, opts...),
	}
}

func (c *StudentServiceClient) AddStudent(ctx context.Context, req *connect.Request[AddStudentRequest]) (*connect.Response[AddStudentResponse], error) {
	return c.addStudent.CallUnary(ctx, req)
}

func (c *StudentServiceClient) GetStudent(ctx context.Context, req *connect.Request[GetStudentRequest]) (*connect.Response[GetStudentResponse], error) {
	return c.getStudent.CallUnary(ctx, req)
}

func (c *StudentServiceClient) ListStudents(ctx context.Context, req *connect.Request[ListStudentsRequest]) (*connect.Response[ListStudentsResponse], error) {
	return c.listStudents.CallUnary(ctx, req)
}

func (c *StudentServiceClient) DeleteStudent(ctx context.Context, req *connect.Request[DeleteStudentRequest]) (*connect.Response[DeleteStudentResponse], error) {
	return c.deleteStudent.CallUnary(ctx, req)
}

func (c *StudentServiceClient) UploadPhoto(ctx context.Context, req *connect.Request[UploadPhotoRequest]) (*connect.Response[UploadPhotoResponse], error) {
	return c.uploadPhoto.CallUnary(ctx, req)
}
