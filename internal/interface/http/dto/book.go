package dto

// BorrowRequest HTTP借书请求
// user_id、book_id必须为正数,<=0的值交给领域服务返回统一的参数错误
type BorrowRequest struct {
	UserID *int64 `json:"user_id" binding:"required" example:"1"`
	BookID *int64 `json:"book_id" binding:"required" example:"2"`
}

// MostBorrowedQuery 热门图书查询参数
type MostBorrowedQuery struct {
	Top int `form:"top" example:"3"`
}

// MostActiveQuery 活跃用户查询参数
// 支持 yyyy-MM-dd、ISO-8601(带或不带时区)、yyyy-MM-dd HH:mm:ss、MM/dd/yyyy、dd/MM/yyyy
type MostActiveQuery struct {
	From string `form:"from" binding:"required" example:"2025-01-01"`
	To   string `form:"to" binding:"required" example:"2025-01-31"`
}

// ReadingPaceQuery 阅读时长查询参数
type ReadingPaceQuery struct {
	UserID int64 `form:"userId" binding:"required" example:"1"`
}
