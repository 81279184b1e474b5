package middleware

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSPolicy 跨域策略
// 允许的方法由已注册路由推导（AllowRoutes），须在服务启动前设置
type CORSPolicy struct {
	origins map[string]bool
	methods string
}

// NewCORS 创建跨域策略；在 AllowRoutes 之前仅放行 OPTIONS
func NewCORS(allowOrigins []string) *CORSPolicy {
	origins := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		origins[strings.TrimRight(o, "/")] = true
	}
	return &CORSPolicy{origins: origins, methods: http.MethodOptions}
}

// AllowRoutes 按路由表收集允许的 HTTP 方法
func (p *CORSPolicy) AllowRoutes(routes gin.RoutesInfo) {
	seen := map[string]bool{http.MethodOptions: true}
	for _, r := range routes {
		seen[r.Method] = true
	}
	methods := make([]string, 0, len(seen))
	for m := range seen {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	p.methods = strings.Join(methods, ", ")
}

// Handler 跨域中间件
// 导出接口的文件名在 Content-Disposition 中，需显式暴露给浏览器
func (p *CORSPolicy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if p.origins[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", p.methods)
			c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
			c.Header("Access-Control-Max-Age", "86400")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
