package ui

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"AI-Study-Buddy/internal/middleware"
	"AI-Study-Buddy/internal/prompt"
	"AI-Study-Buddy/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

const appTitle = "AI-Powered Study Buddy"

//go:embed templates/*.html
var templateFS embed.FS

// TaskHandler は学習タスクを1回実行します。*service.Dispatcher が実装します。
type TaskHandler interface {
	Handle(ctx context.Context, task prompt.Task, in prompt.Input) service.Result
}

// Options はサーバーの依存関係です。
type Options struct {
	// Tasks は Halt が nil の場合に必須です。
	Tasks TaskHandler
	// Halt が設定されていると、全ての画面に警告を表示し、操作を受け付けません。
	Halt           error
	Logger         *zap.Logger
	Dev            bool
	AllowedOrigins []string
	// Now はエクスポート API のタイムスタンプに使います。省略時は time.Now です。
	Now func() time.Time
}

// Server はブラウザ向けの画面と JSON API を提供します。
type Server struct {
	tasks  TaskHandler
	halt   error
	log    *zap.Logger
	now    func() time.Time
	md     goldmark.Markdown
	theme  Theme
	router *gin.Engine
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Dev {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		tasks: opts.Tasks,
		halt:  opts.Halt,
		log:   opts.Logger.Named("http"),
		now:   opts.Now,
		md:    newMarkdown(),
		theme: NewMyTheme(),
	}
	if s.halt == nil && s.tasks == nil {
		s.halt = errNoTaskHandler
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.Logger(s.log))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	s.registerRoutes(router, opts)
	s.router = router
	return s
}

// Router はサーバーの http.Handler を返します。
func (s *Server) Router() *gin.Engine { return s.router }

// Halted は操作を受け付けない状態かを返します。
func (s *Server) Halted() bool { return s.halt != nil }

func (s *Server) registerRoutes(r *gin.Engine, opts Options) {
	r.GET("/healthz", s.health)

	site := r.Group("/", s.haltGuard(false))
	site.GET("", func(c *gin.Context) { c.Redirect(http.StatusFound, taskPages[0].Path) })
	for _, page := range taskPages {
		page := page
		site.GET(page.Path, func(c *gin.Context) { s.showTask(c, page) })
		site.POST(page.Path, func(c *gin.Context) { s.runTask(c, page) })
	}

	api := r.Group("/api/v1", corsMiddleware(opts.AllowedOrigins, opts.Dev))
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.Use(s.haltGuard(true))
	api.POST("/tasks/:task", s.apiRunTask)
	api.POST("/export", s.apiExport)
}

func corsMiddleware(allowed []string, dev bool) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
	}
	if len(allowed) > 0 && !dev {
		patterns := allowed
		cfg.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		cfg.AllowOriginFunc = func(origin string) bool { return true }
	}
	return cors.New(cfg)
}

// extractOriginHost は Origin URL の "host[:port]" 部分を返します。
func extractOriginHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOriginPattern は完全一致のほか "*.example.com" と "localhost:*" の形式に対応します。
func matchOriginPattern(pattern, host string) bool {
	if pattern == "*" || pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
