package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
database:
  driver: memory
log:
  level: error
  output: stderr
`

// execute 使用内存驱动执行一条命令,返回标准输出
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSeed(t *testing.T) {
	out, err := execute(t, "seed")
	require.NoError(t, err)

	var result map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result["books"])
	assert.Equal(t, 3, result["users"])
	assert.Equal(t, 3, result["lendings"])
}

func TestMostBorrowed(t *testing.T) {
	out, err := execute(t, "most-borrowed", "--top", "2")
	require.NoError(t, err)

	var books []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &books))
	require.Len(t, books, 2)
	assert.Equal(t, "Clean Code", books[0]["title"])
	assert.Equal(t, "Refactoring", books[1]["title"])
}

func TestMostBorrowed_NoSeed(t *testing.T) {
	out, err := execute(t, "--no-seed", "most-borrowed")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestMostActive(t *testing.T) {
	out, err := execute(t, "most-active", "--from", "2025-01-01", "--to", "2025-01-31")
	require.NoError(t, err)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	require.Len(t, users, 3)
	assert.Equal(t, "Alice Johnson", users[0]["name"])
}

func TestMostActive_RequiresFlags(t *testing.T) {
	_, err := execute(t, "most-active", "--from", "2025-01-01")
	assert.Error(t, err)
}

func TestMostActive_InvalidRange(t *testing.T) {
	_, err := execute(t, "most-active", "--from", "2025-01-31", "--to", "2025-01-01")
	assert.Error(t, err)
}

func TestPace(t *testing.T) {
	out, err := execute(t, "pace", "--user", "3", "--book", "2")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.EqualValues(t, 3, result["user_id"])
	assert.EqualValues(t, 2, result["book_id"])
	assert.Contains(t, result, "estimated_hours")
}

func TestBorrow(t *testing.T) {
	out, err := execute(t, "borrow", "--user", "3", "--book", "3")
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.EqualValues(t, 3, rec["user_id"])
	assert.EqualValues(t, 3, rec["book_id"])
}

func TestBorrow_ActiveLending(t *testing.T) {
	// 演示数据中用户1借了图书1且未归还
	_, err := execute(t, "borrow", "--user", "1", "--book", "1")
	assert.Error(t, err)
}

func TestReturn_NotFound(t *testing.T) {
	_, err := execute(t, "return", "--lending", "999")
	assert.Error(t, err)
}

func TestAudit_Disabled(t *testing.T) {
	_, err := execute(t, "audit")
	assert.Error(t, err)
}
