package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func pageParams(c *gin.Context) (limit, offset int32) {
	limit = 50
	offset = 0
	if v, err := strconv.ParseInt(c.Query("limit"), 10, 32); err == nil {
		limit = int32(v)
	}
	if v, err := strconv.ParseInt(c.Query("offset"), 10, 32); err == nil {
		offset = int32(v)
	}
	return limit, offset
}
