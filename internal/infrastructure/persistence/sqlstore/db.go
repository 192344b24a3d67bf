package sqlstore

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/librarysystem/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架,按database.driver选择方言(mysql / postgres / sqlite)
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 所有时间统一按UTC读写
func NewDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info // 开发环境打印SQL
	}

	db, err := Open(cfg.Database, logLevel)
	if err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Database.Driver).Msg("数据库连接成功")
	return db, nil
}

// Open 按配置打开数据库并(可选)自动迁移
func Open(cfg config.DatabaseConfig, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	// 1. 选择方言
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// 2. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 3. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// sqlite单写者,多连接只会带来database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// 4. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	// 5. 自动迁移表结构
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if cfg.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}
	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", cfg.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&UserModel{},
		&LendingModel{},
	)
}

// BookModel GORM图书库存模型
// 设计说明:
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. Version是乐观锁版本号,条件更新时 WHERE version = ?
type BookModel struct {
	ID              int64     `gorm:"primaryKey"`
	Title           string    `gorm:"index;size:200;not null;comment:书名"`
	Author          string    `gorm:"size:100;not null;comment:作者"`
	Pages           int       `gorm:"not null;comment:页数"`
	TotalCopies     int       `gorm:"not null;comment:总副本数"`
	AvailableCopies int       `gorm:"not null;comment:可借副本数"`
	Version         int64     `gorm:"not null;default:0;comment:乐观锁版本号"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// UserModel GORM用户模型
type UserModel struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;comment:姓名"`
	Email     *string   `gorm:"uniqueIndex;size:100;comment:邮箱(可空)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// LendingModel GORM借阅记录模型
// 教学要点:
// 1. (book_id, user_id)复合索引服务于未归还检查和相关图书查询
// 2. borrowed_at、returned_at单独建索引,服务于时间范围统计
// 3. PagesAtBorrow是借出时的页数快照
type LendingModel struct {
	ID            int64      `gorm:"primaryKey"`
	BookID        int64      `gorm:"index:idx_lending_book_user,priority:1;not null;comment:图书ID"`
	UserID        int64      `gorm:"index:idx_lending_book_user,priority:2;index;not null;comment:用户ID"`
	BorrowedAt    time.Time  `gorm:"index;not null;comment:借出时间(UTC)"`
	ReturnedAt    *time.Time `gorm:"index;comment:归还时间(UTC),NULL表示未归还"`
	PagesAtBorrow int        `gorm:"not null;default:0;comment:借出时页数快照"`
}

// TableName 指定表名
func (LendingModel) TableName() string {
	return "lendings"
}
