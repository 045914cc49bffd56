package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>AI Resume Optimizer</title>
</head>
<body>
<h1>AI Resume Optimizer</h1>
{{if .MissingKey}}<p class="warning">Google API Key not found. Please set <code>GOOGLE_API_KEY</code> in your <code>.env</code> file.</p>{{end}}
<form method="post" action="/" enctype="multipart/form-data">
<h3>1. Upload Resume</h3>
<input type="file" name="resume" accept=".docx,.pdf,.txt,.png,.jpg,.jpeg">
<h3>2. Job Description</h3>
<textarea name="job_description" rows="12" cols="100" placeholder="Paste the Job Description here">{{.JobDescription}}</textarea>
{{if .AskKey}}<p><input type="password" name="api_key" placeholder="API key"></p>{{end}}
<p><button type="submit">Analyze</button></p>
</form>
{{with .Error}}<p class="error">An error occurred: {{.}}</p>{{end}}
{{with .Result}}
<p class="success">Analysis Complete!</p>
<h3>Match Percentage</h3>
<p class="metric">{{.MatchPercentage}}</p>
<h3>Gap Analysis</h3>
<ul>{{range .GapAnalysis}}<li>{{.}}</li>{{end}}</ul>
<h3>Missing Keywords</h3>
<ul>{{range .MissingKeywords}}<li>{{.}}</li>{{end}}</ul>
<h3>Rewritten Summary</h3>
<blockquote>{{.RewrittenSummary}}</blockquote>
{{end}}
</body>
</html>
`

// pageData はページテンプレートに渡す値です。
type pageData struct {
	MissingKey     bool
	AskKey         bool
	JobDescription string
	Error          string
	Result         *entity.AnalysisResult
}

// PageHandler はブラウザ向けのアップロードフォームと分析結果ページを提供します。
type PageHandler struct {
	uc             AnalysisUsecase
	missingKey     bool
	allowServerKey bool
	page           *template.Template
}

// NewPageHandler はPageHandlerの新しいインスタンスを生成します。
// serverKeyがfalseの場合、ページに警告とAPIキーの入力欄を表示します。
func NewPageHandler(uc AnalysisUsecase, serverKey bool) *PageHandler {
	return &PageHandler{
		uc:             uc,
		missingKey:     !serverKey,
		allowServerKey: true,
		page:           template.Must(template.New("index").Parse(pageTemplate)),
	}
}

// WithoutServerKey はサーバーのAPIキーにフォールバックしないPageHandlerを返します。
// 認証なしで公開されるページからサーバーのキーを消費させないために使います。
// フォームのapi_keyが空の送信はユースケースを呼ばずに400で拒否します。
func (h *PageHandler) WithoutServerKey() *PageHandler {
	cp := *h
	cp.allowServerKey = false
	return &cp
}

func (h *PageHandler) askKey() bool {
	return h.missingKey || !h.allowServerKey
}

// Show は空のフォームを表示します。
//
// エンドポイント: GET /
func (h *PageHandler) Show(c *gin.Context) {
	h.render(c, http.StatusOK, pageData{MissingKey: h.missingKey, AskKey: h.askKey()})
}

// Submit はフォームから送信された履歴書とJDを分析し、結果をページに表示します。
//
// エンドポイント: POST /
func (h *PageHandler) Submit(c *gin.Context) {
	data := pageData{
		MissingKey:     h.missingKey,
		AskKey:         h.askKey(),
		JobDescription: c.PostForm("job_description"),
	}
	apiKey := c.PostForm("api_key")

	if !h.allowServerKey && strings.TrimSpace(apiKey) == "" {
		slog.Warn("APIキーなしのページ送信を拒否", "remote_addr", c.ClientIP())
		data.Error = usecase.ErrMissingAPIKey.Error()
		h.render(c, http.StatusBadRequest, data)
		return
	}

	file, err := readResume(c)
	if err != nil {
		slog.Warn("履歴書ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		data.Error = "a resume file is required"
		h.render(c, http.StatusBadRequest, data)
		return
	}

	record, err := h.uc.AnalyzeResume(c.Request.Context(), file, data.JobDescription, apiKey)
	if err != nil {
		status, _ := errorStatus(err)
		slog.Warn("ページからの分析に失敗", "error", err, "resume", file.Filename)
		data.Error = err.Error()
		h.render(c, status, data)
		return
	}

	data.Result = &record.Result
	h.render(c, http.StatusOK, data)
}

func (h *PageHandler) render(c *gin.Context, status int, data pageData) {
	c.Render(status, render.HTML{Template: h.page, Name: "index", Data: data})
}
