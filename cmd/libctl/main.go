// libctl 图书借阅系统管理命令行
//
//	libctl seed
//	libctl most-borrowed --top 3
//	libctl most-active --from 2025-01-01 --to 2025-01-31
//	libctl pace --user 1 --book 2
//	libctl borrow --user 1 --book 2
//	libctl return --lending 7
//	libctl audit
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
