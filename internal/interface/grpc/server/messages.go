package server

import (
	appanalytics "github.com/xiebiao/librarysystem/internal/application/analytics"
	appbook "github.com/xiebiao/librarysystem/internal/application/book"
	applending "github.com/xiebiao/librarysystem/internal/application/lending"
)

// gRPC请求/响应消息
// 字段名与HTTP接口保持一致(snake_case)

// BorrowRequest 借书请求
type BorrowRequest struct {
	UserID int64 `json:"user_id"`
	BookID int64 `json:"book_id"`
}

// ReturnRequest 还书请求
type ReturnRequest struct {
	LendingID int64 `json:"lending_id"`
}

// BookRequest 按图书ID查询
type BookRequest struct {
	BookID int64 `json:"book_id"`
}

// MostBorrowedRequest 热门图书请求,top<=0使用默认值
type MostBorrowedRequest struct {
	Top int `json:"top"`
}

// ReadingPaceRequest 阅读时长估算请求
type ReadingPaceRequest struct {
	UserID int64 `json:"user_id"`
	BookID int64 `json:"book_id"`
}

// MostActiveUsersRequest 活跃用户请求,日期格式与HTTP接口相同
type MostActiveUsersRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LendingReply 借阅记录
type LendingReply struct {
	Lending applending.LendingDTO `json:"lending"`
}

// BookReply 单本图书
type BookReply struct {
	Book appbook.BookDTO `json:"book"`
}

// BookListReply 图书列表
type BookListReply struct {
	Books []appbook.BookDTO `json:"books"`
}

// ReadingPaceReply 阅读时长估算结果
type ReadingPaceReply struct {
	EstimatedHours float64 `json:"estimated_hours"`
}

// UserListReply 用户列表
type UserListReply struct {
	Users []appanalytics.UserDTO `json:"users"`
}
