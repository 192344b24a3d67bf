package lending

import (
	apperrors "github.com/xiebiao/librarysystem/pkg/errors"
)

var (
	// ErrLendingNotFound 借阅记录不存在
	ErrLendingNotFound = apperrors.New(apperrors.ErrCodeLendingNotFound, "借阅记录不存在")

	// ErrInvalidLendingID 借阅ID必须大于0
	ErrInvalidLendingID = apperrors.New(apperrors.ErrCodeInvalidParams, "lendingId必须大于0")

	// ErrActiveLendingExists 同一用户对同一本书已有未归还的借阅
	ErrActiveLendingExists = apperrors.New(apperrors.ErrCodeActiveLending, "该用户已借阅此书且尚未归还")
)
