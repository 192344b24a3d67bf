package user

// User 读者(只读,由外部目录维护)
type User struct {
	ID    int64
	Name  string
	Email string
}
