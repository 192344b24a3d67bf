package book

import (
	"github.com/xiebiao/librarysystem/internal/domain/book"
)

// BookDTO 图书响应DTO
type BookDTO struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Pages           int    `json:"pages"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// ToDTO 领域实体 → DTO
func ToDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Pages:           b.Pages,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}
}

// ToDTOs 批量转换,空结果返回空切片(JSON输出[]而不是null)
func ToDTOs(books []*book.Book) []BookDTO {
	out := make([]BookDTO, len(books))
	for i, b := range books {
		out[i] = ToDTO(b)
	}
	return out
}
