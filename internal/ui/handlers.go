package ui

import (
	"encoding/base64"
	"errors"
	"html/template"
	"net/http"
	"regexp"
	"strings"

	"AI-Study-Buddy/internal/export"
	"AI-Study-Buddy/internal/middleware"
	"AI-Study-Buddy/internal/prompt"
	"AI-Study-Buddy/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultExportPrefix = "export"

var (
	errNoTaskHandler = errors.New("study tasks are unavailable")
	exportPrefixRe   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)
)

type downloadLink struct {
	Href     template.URL
	Filename string
}

type pageData struct {
	AppTitle string
	CSS      template.CSS
	Nav      []navItem
	Page     taskPage
	Levels   []string
	Level    string
	Input    string
	Halted   string
	Warning  string
	Error    string
	Result   template.HTML
	Download *downloadLink
}

func (s *Server) newPage(page taskPage) pageData {
	levels := make([]string, 0, len(prompt.Levels))
	for _, l := range prompt.Levels {
		levels = append(levels, l.String())
	}
	data := pageData{
		AppTitle: appTitle,
		CSS:      s.theme.CSS(),
		Nav:      navFor(page.Task),
		Page:     page,
		Levels:   levels,
		Level:    prompt.Beginner.String(),
	}
	if s.halt != nil {
		data.Halted = s.halt.Error()
	}
	return data
}

// haltGuard は API キーが無い場合に全ての操作を止め、警告を返します。
func (s *Server) haltGuard(api bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.halt == nil {
			c.Next()
			return
		}
		if api {
			abortJSON(c, http.StatusServiceUnavailable, s.halt.Error())
			return
		}
		task, _ := prompt.ParseTask(strings.TrimPrefix(c.Request.URL.Path, "/"))
		page, ok := pageFor(task)
		if !ok {
			page = taskPages[0]
		}
		c.HTML(http.StatusServiceUnavailable, "page.html", s.newPage(page))
		c.Abort()
	}
}

// GET /healthz
func (s *Server) health(c *gin.Context) {
	if s.halt != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "halted", "message": s.halt.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /{explain|summarize|quiz}
func (s *Server) showTask(c *gin.Context, page taskPage) {
	c.HTML(http.StatusOK, "page.html", s.newPage(page))
}

// POST /{explain|summarize|quiz} (form)
func (s *Server) runTask(c *gin.Context, page taskPage) {
	data := s.newPage(page)
	data.Input = c.PostForm(page.Field)
	if lvl := c.PostForm("level"); lvl != "" {
		data.Level = lvl
	}

	in, err := buildInput(page.Task, c.PostForm)
	if topic, ok := in.(prompt.Topic); ok {
		data.Level = topic.Level.String()
	}
	if err != nil {
		data.Warning = err.Error()
		c.HTML(http.StatusOK, "page.html", data)
		return
	}

	res := s.tasks.Handle(c.Request.Context(), page.Task, in)
	switch res.Kind {
	case service.Warning:
		data.Warning = res.Message
	case service.Failure:
		data.Error = res.Message
	case service.Rendered:
		data.Result = renderMarkdown(s.md, res.Text)
		if res.Artifact != nil {
			data.Download = &downloadLink{
				Href:     dataURL(*res.Artifact),
				Filename: res.Artifact.Filename,
			}
		}
	}
	c.HTML(http.StatusOK, "page.html", data)
}

type taskRequest struct {
	Topic    string `json:"topic"`
	Level    string `json:"level"`
	Notes    string `json:"notes"`
	Material string `json:"material"`
}

func (r taskRequest) field(name string) string {
	switch name {
	case "topic":
		return r.Topic
	case "level":
		return r.Level
	case "notes":
		return r.Notes
	case "material":
		return r.Material
	}
	return ""
}

type artifactResponse struct {
	Filename string `json:"filename"`
	MIME     string `json:"mime"`
	// Content is base64 in JSON.
	Content []byte `json:"content"`
}

type taskResponse struct {
	Status   string            `json:"status"`
	Task     prompt.Task       `json:"task"`
	Message  string            `json:"message,omitempty"`
	Text     string            `json:"text,omitempty"`
	Artifact *artifactResponse `json:"artifact,omitempty"`
}

// POST /api/v1/tasks/:task
func (s *Server) apiRunTask(c *gin.Context) {
	task, err := prompt.ParseTask(c.Param("task"))
	if err != nil {
		abortJSON(c, http.StatusNotFound, err.Error())
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	in, err := buildInput(task, req.field)
	if err != nil {
		abortJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	res := s.tasks.Handle(c.Request.Context(), task, in)
	body := taskResponse{Status: res.Kind.String(), Task: task, Message: res.Message, Text: res.Text}
	if res.Artifact != nil {
		body.Artifact = &artifactResponse{
			Filename: res.Artifact.Filename,
			MIME:     res.Artifact.MIME,
			Content:  res.Artifact.Bytes,
		}
	}

	status := http.StatusOK
	switch res.Kind {
	case service.Warning:
		status = http.StatusUnprocessableEntity
	case service.Failure:
		status = http.StatusBadGateway
		s.log.Warn("task failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("task", string(task)),
			zap.String("message", res.Message),
		)
	}
	c.JSON(status, body)
}

type exportRequest struct {
	Text   string `json:"text"`
	Prefix string `json:"prefix"`
}

// POST /api/v1/export
func (s *Server) apiExport(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		abortJSON(c, http.StatusUnprocessableEntity, "text is required")
		return
	}
	prefix := req.Prefix
	if prefix == "" {
		prefix = defaultExportPrefix
	}
	if !exportPrefixRe.MatchString(prefix) {
		abortJSON(c, http.StatusBadRequest, "prefix must be 1-32 letters, digits, '_' or '-'")
		return
	}

	a := export.New(req.Text, prefix, s.now())
	c.Header("Content-Disposition", a.ContentDisposition())
	c.Data(http.StatusOK, a.ContentType(), a.Bytes)
}

// buildInput は画面やAPIの入力値からタスクの入力を作ります。
func buildInput(task prompt.Task, field func(string) string) (prompt.Input, error) {
	switch task {
	case prompt.TaskExplain:
		level, err := prompt.ParseLevel(field("level"))
		if err != nil {
			return nil, err
		}
		return prompt.Topic{Topic: field("topic"), Level: level}, nil
	case prompt.TaskSummarize:
		return prompt.Notes{Notes: field("notes")}, nil
	case prompt.TaskQuiz:
		return prompt.Material{Material: field("material")}, nil
	}
	return nil, prompt.ErrUnknownTask
}

func dataURL(a export.Artifact) template.URL {
	return template.URL("data:" + a.MIME + ";charset=utf-8;base64," + base64.StdEncoding.EncodeToString(a.Bytes))
}

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": 0, "code": status, "message": message})
}
