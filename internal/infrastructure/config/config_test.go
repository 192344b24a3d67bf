package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.BookTTL)
	assert.Equal(t, "library.lending", cfg.RabbitMQ.Exchange)
	assert.Equal(t, 1, cfg.Analytics.MostBorrowedTop)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Database.SeedDemo)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9000
database:
  driver: sqlite
  path: /tmp/library-test.db
cache:
  book_ttl: 30s
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LIBRARY_SERVER_PORT", "9100")
	t.Setenv("LIBRARY_ANALYTICS_MOST_BORROWED_TOP", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "环境变量优先于配置文件")
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/library-test.db", cfg.Database.DSN())
	assert.Equal(t, 30*time.Second, cfg.Cache.BookTTL)
	assert.Equal(t, 5, cfg.Analytics.MostBorrowedTop)

	opts := cfg.Log.Options()
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, "console", opts.Format)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080, Mode: "release"},
			Database:  DatabaseConfig{Driver: DriverMemory},
			Analytics: AnalyticsConfig{MostBorrowedTop: 1},
		}
	}

	cfg := base()
	cfg.Database.Driver = "oracle"
	assert.Error(t, validate(cfg))

	cfg = base()
	cfg.Server.Port = 0
	assert.Error(t, validate(cfg))

	cfg = base()
	cfg.Server.Mode = "prod"
	assert.Error(t, validate(cfg))

	cfg = base()
	cfg.Redis.Enabled = true
	assert.Error(t, validate(cfg), "启用Redis必须配置TTL")

	cfg = base()
	cfg.Analytics.MostBorrowedTop = -3
	require.NoError(t, validate(cfg))
	assert.Equal(t, 1, cfg.Analytics.MostBorrowedTop)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	mysql := DatabaseConfig{Driver: DriverMySQL, User: "u", Password: "p", Host: "db", Port: 3306, DBName: "library", Charset: "utf8mb4", Loc: "Asia/Shanghai"}
	assert.Equal(t, "u:p@tcp(db:3306)/library?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", mysql.DSN())

	pg := DatabaseConfig{Driver: DriverPostgres, User: "u", Password: "p", Host: "db", Port: 5432, DBName: "library", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=library sslmode=disable TimeZone=UTC", pg.DSN())
}
