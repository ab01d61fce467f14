package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		s.recovery(),
		requestID(),
		otelgin.Middleware("codereview"),
		s.requestLogger(),
		instrument(),
	)

	r.GET("/", s.handleIndex)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/analyze", s.handleAnalyzeCode)
	r.POST("/analyze-file", s.handleAnalyzeFile)
	r.POST("/analyze-multiple-files", s.handleAnalyzeMultipleFiles)

	return r
}
