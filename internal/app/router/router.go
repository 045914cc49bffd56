package router

import (
	"github.com/gin-gonic/gin"

	docusecase "resume_optimizer/internal/feature/document/usecase"
	analysishandler "resume_optimizer/internal/feature/resumeanalysis/transport/handler"
	"resume_optimizer/internal/platform/http/handler"
	jwtmw "resume_optimizer/internal/platform/jwt"
)

// multipartMemory はアップロード上限に少し余裕を持たせたマルチパートのメモリ上限です。
const multipartMemory = docusecase.MaxDocumentSize + 1<<20

func NewRouter(health *handler.HealthHandler, analysis *analysishandler.AnalysisHandler,
	page *analysishandler.PageHandler, jwtSecret string) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = multipartMemory

	// 認証不要
	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	// ブラウザ向けのフォーム
	// JWT_SECRET が設定されている場合、認証なしのページではサーバーのAPIキーを使わせない
	if jwtSecret != "" {
		page = page.WithoutServerKey()
	}
	r.GET("/", page.Show)
	r.POST("/", page.Submit)

	// API
	// JWT_SECRET が設定されている場合のみ認証必須
	v1 := r.Group("/v1")
	if jwtSecret != "" {
		v1.Use(jwtmw.AuthRequired(jwtSecret))
	}
	{
		v1.POST("/analyses", analysis.AnalyzeResume)
		v1.GET("/analyses", analysis.ListAnalyses)
		v1.GET("/analyses/:id", analysis.GetAnalysis)
	}

	return r
}
