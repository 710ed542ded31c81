package service

import (
	"errors"
	"fmt"
)

// 错误分类。具体错误都包装其中之一，调用方可用 errors.Is 按类别判断。
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrInvalidInput  = fmt.Errorf("%w: required field missing", ErrValidation)
	ErrUsernameTaken = fmt.Errorf("%w: username already exists", ErrValidation)

	ErrAuthenticationFailed = fmt.Errorf("%w: invalid username or password", ErrAuth)
	ErrNotAuthenticated     = fmt.Errorf("%w: login required", ErrAuth)
	ErrAdminRequired        = fmt.Errorf("%w: admin access required", ErrAuth)

	ErrUserNotFound      = fmt.Errorf("%w: user", ErrNotFound)
	ErrCandidateNotFound = fmt.Errorf("%w: candidate", ErrNotFound)

	ErrAlreadyVoted   = errors.New("user has already voted")
	ErrInternalServer = errors.New("internal server error")
)
