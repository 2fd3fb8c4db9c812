package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/studentbook/internal/auth"
	"github.com/mmynk/studentbook/internal/records"
)

// toConnectError maps a records failure to an RPC error. The message is the
// user-facing reason; underlying causes stay in the server log.
func toConnectError(err error) *connect.Error {
	code := connect.CodeInternal
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		code = connect.CodeUnauthenticated
	case errors.Is(err, records.ErrValidation):
		code = connect.CodeInvalidArgument
	case errors.Is(err, records.ErrDuplicate):
		code = connect.CodeAlreadyExists
	case errors.Is(err, records.ErrNotFound):
		code = connect.CodeNotFound
	}
	return connect.NewError(code, errors.New(records.Reason(err)))
}
