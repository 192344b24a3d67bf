package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/librarysystem/pkg/response"
)

// pathID 解析路径中的整型ID
// 非整数直接返回400;范围(>0)校验留给领域服务
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.BadRequest(c, name+"必须是整数: "+raw)
		return 0, false
	}
	return id, true
}
