package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/schoolfees/internal/apperr"
)

// connectError maps an error kind to its Connect code.
func connectError(err error) *connect.Error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	code := connect.CodeInternal
	switch {
	case apperr.IsValidation(err):
		code = connect.CodeInvalidArgument
	case apperr.IsNotFound(err):
		code = connect.CodeNotFound
	case apperr.IsBackend(err):
		code = connect.CodeUnavailable
	}
	return connect.NewError(code, err)
}
