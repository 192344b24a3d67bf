package user

import (
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")

	// ErrInvalidUserID 用户ID必须大于0
	ErrInvalidUserID = apperrors.New(apperrors.ErrCodeInvalidParams, "userId必须大于0")
)
