package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xifengxx/tg-crypto-bot/internal/scheduler"
	"github.com/xifengxx/tg-crypto-bot/internal/storage"
)

// NewRouter 组装 HTTP 服务：健康检查、公告查询、手动触发采集和指标暴露
func NewRouter(backend storage.Backend, sched *scheduler.Scheduler) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", func(c *gin.Context) {
			source := c.Query("source")
			limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
				return
			}

			list, err := backend.ListNews(source, limit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"count": len(list),
				"data":  list,
			})
		})

		// 手动触发一轮采集，后台执行，立即返回。
		// 不能用请求的 ctx：响应一返回它就被取消了
		v1.POST("/collect", func(c *gin.Context) {
			go sched.RunOnce(context.Background())
			c.JSON(http.StatusAccepted, gin.H{"message": "collection triggered"})
		})
	}

	return r
}
