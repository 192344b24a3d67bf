package book

import (
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrInvalidBookID 图书ID必须大于0
	ErrInvalidBookID = apperrors.New(apperrors.ErrCodeInvalidParams, "bookId必须大于0")

	// ErrInvalidPages 页数必须大于0
	ErrInvalidPages = apperrors.New(apperrors.ErrCodeInvalidParams, "页数必须大于0")

	// ErrInvalidCopies 副本数量非法
	ErrInvalidCopies = apperrors.New(apperrors.ErrCodeInvalidParams, "副本数量必须满足 0 <= 可借 <= 总数")

	// ErrNoAvailableCopies 无可借副本
	ErrNoAvailableCopies = apperrors.New(apperrors.ErrCodeNoAvailableCopies, "无可借副本")
)
