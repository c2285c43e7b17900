package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ai_client "AI-Study-Buddy/internal/ai"
	"AI-Study-Buddy/internal/config"
	"AI-Study-Buddy/internal/logging"
	"AI-Study-Buddy/internal/prompt"
	"AI-Study-Buddy/internal/service"
	"AI-Study-Buddy/internal/ui"

	"go.uber.org/zap"
)

const usage = `Usage:
  studybuddy [-config config.yml] serve [-addr :8501]
  studybuddy [-config config.yml] explain [-level beginner|intermediate|advanced] <topic>
  studybuddy [-config config.yml] summarize [-file notes.txt] [-out dir]
  studybuddy [-config config.yml] quiz [-file material.txt] [-out dir]

Without -file, summarize and quiz read the text from stdin.
`

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "path to YAML config file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		err = runServe(cfg, logger, args)
	case "explain", "summarize", "quiz":
		var code int
		code, err = runTask(cfg, logger, prompt.Task(cmd), args)
		if err == nil && code != 0 {
			logger.Sync()
			os.Exit(code)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
}

// newDispatcher は API キーを解決し、Gemini クライアントとディスパッチャーを組み立てます。
func newDispatcher(ctx context.Context, cfg config.Config, logger *zap.Logger) (*service.Dispatcher, *ai_client.GeminiClient, error) {
	creds, err := config.ResolveAPIKey(cfg.SecretsFile, cfg.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	gemini, err := ai_client.NewGeminiClient(ctx, creds, cfg.Model, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Gemini client initialized", zap.String("model", gemini.Model()))
	return service.NewDispatcher(gemini, service.WithLogger(logger.Named("dispatcher"))), gemini, nil
}

func runServe(cfg config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "http listen address (overrides config addr)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	listen := cfg.Addr
	if *addr != "" {
		listen = *addr
	}

	opts := ui.Options{Logger: logger, Dev: cfg.Dev, AllowedOrigins: cfg.AllowedOrigins}
	dispatcher, gemini, err := newDispatcher(context.Background(), cfg, logger)
	switch {
	case errors.Is(err, config.ErrAPIKeyMissing):
		logger.Warn("API key missing, serving in halted mode", zap.Error(err))
		opts.Halt = err
	case err != nil:
		return err
	default:
		defer gemini.Close()
		opts.Tasks = dispatcher
	}

	server := ui.New(opts)
	srv := &http.Server{
		Addr:    listen,
		Handler: server.Router(),
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.Bool("halted", server.Halted()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}

// runTask は1回だけタスクを実行して結果を標準出力に書きます。
// 戻り値の終了コードは警告なら 2、生成失敗なら 1 です。
func runTask(cfg config.Config, logger *zap.Logger, task prompt.Task, args []string) (int, error) {
	fs := flag.NewFlagSet(string(task), flag.ExitOnError)
	level := fs.String("level", "beginner", "detail level for explain")
	file := fs.String("file", "", "read input text from file instead of stdin")
	out := fs.String("out", "", "directory to write the downloadable .txt result to")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}

	in, err := readInput(task, *level, *file, fs.Args(), os.Stdin)
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	dispatcher, gemini, err := newDispatcher(ctx, cfg, logger)
	if err != nil {
		if errors.Is(err, config.ErrAPIKeyMissing) {
			fmt.Fprintln(os.Stderr, "⚠️", err)
			return 1, nil
		}
		return 0, err
	}
	defer gemini.Close()

	res := dispatcher.Handle(ctx, task, in)
	switch res.Kind {
	case service.Warning:
		fmt.Fprintln(os.Stderr, res.Message)
		return 2, nil
	case service.Failure:
		fmt.Fprintln(os.Stderr, res.Message)
		return 1, nil
	}

	fmt.Println(res.Text)
	if res.Artifact != nil && *out != "" {
		path, err := res.Artifact.WriteTo(*out)
		if err != nil {
			return 0, err
		}
		fmt.Fprintln(os.Stderr, "saved", path)
	}
	return 0, nil
}

func readInput(task prompt.Task, level, file string, args []string, stdin io.Reader) (prompt.Input, error) {
	if task == prompt.TaskExplain {
		lvl, err := prompt.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		return prompt.Topic{Topic: strings.Join(args, " "), Level: lvl}, nil
	}

	var (
		data []byte
		err  error
	)
	switch {
	case file != "":
		data, err = os.ReadFile(file)
	case len(args) > 0:
		data = []byte(strings.Join(args, " "))
	default:
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if task == prompt.TaskSummarize {
		return prompt.Notes{Notes: string(data)}, nil
	}
	return prompt.Material{Material: string(data)}, nil
}
