package service

import (
	"context"
	"time"

	ai_client "AI-Study-Buddy/internal/ai"
	"AI-Study-Buddy/internal/export"
	"AI-Study-Buddy/internal/prompt"
	"AI-Study-Buddy/internal/utils"

	"go.uber.org/zap"
)

const logPreviewChars = 80

// Kind は1回の操作の結果の種類です。
type Kind int

const (
	// Warning: 入力不足などで生成リクエストを送らなかった。
	Warning Kind = iota + 1
	// Rendered: 生成に成功した。
	Rendered
	// Failure: 生成呼び出しが失敗した。再試行はしない。
	Failure
)

func (k Kind) String() string {
	switch k {
	case Warning:
		return "warning"
	case Rendered:
		return "rendered"
	case Failure:
		return "failure"
	}
	return "unknown"
}

// Result は画面に表示する内容です。Artifact は要約とクイズの成功時のみ設定されます。
type Result struct {
	Kind     Kind
	Task     prompt.Task
	Message  string
	Text     string
	Artifact *export.Artifact
}

// taskProfile は1つのタスクの表示文言です。
type taskProfile struct {
	emptyWarning  string
	failurePrefix string
	exportPrefix  string
}

var profiles = map[prompt.Task]taskProfile{
	prompt.TaskExplain: {
		emptyWarning:  "Please enter a topic first.",
		failurePrefix: "Failed to generate explanation: ",
	},
	prompt.TaskSummarize: {
		emptyWarning:  "Please paste some notes to summarize.",
		failurePrefix: "Summarization failed: ",
		exportPrefix:  "summary",
	},
	prompt.TaskQuiz: {
		emptyWarning:  "Please paste some study material first.",
		failurePrefix: "Quiz generation failed: ",
		exportPrefix:  "quiz",
	},
}

// Dispatcher は選択されたタスクを検証、プロンプト生成、生成呼び出し、結果の組み立ての順に処理します。
// 状態を持たないため、複数のリクエストから同時に使えます。
type Dispatcher struct {
	gen ai_client.Generator
	now func() time.Time
	log *zap.Logger
}

// Option は Dispatcher の設定です。
type Option func(*Dispatcher)

// WithClock はエクスポートのタイムスタンプに使う時計を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithLogger はロガーを設定します。
func WithLogger(log *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

func NewDispatcher(gen ai_client.Generator, opts ...Option) *Dispatcher {
	d := &Dispatcher{gen: gen, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle は1回のユーザー操作を処理します。生成呼び出しは最大1回です。
func (d *Dispatcher) Handle(ctx context.Context, task prompt.Task, in prompt.Input) Result {
	log := d.log.With(zap.String("task", string(task)))

	profile, ok := profiles[task]
	if !ok {
		log.Warn("unsupported task")
		return Result{Kind: Warning, Task: task, Message: "Unsupported task: " + string(task)}
	}
	if in == nil || utils.IsBlank(in.Text()) {
		log.Info("empty input, skipping generation")
		return Result{Kind: Warning, Task: task, Message: profile.emptyWarning}
	}

	p, err := prompt.Build(task, in)
	if err != nil {
		log.Warn("failed to build prompt", zap.Error(err))
		return Result{Kind: Warning, Task: task, Message: err.Error()}
	}

	start := time.Now()
	text, err := d.gen.Generate(ctx, p)
	if err != nil {
		log.Error("generation failed", zap.Duration("latency", time.Since(start)), zap.Error(err))
		return Result{Kind: Failure, Task: task, Message: profile.failurePrefix + err.Error()}
	}
	log.Info("generation succeeded",
		zap.Duration("latency", time.Since(start)),
		zap.String("preview", utils.TruncateText(text, logPreviewChars)),
	)

	res := Result{Kind: Rendered, Task: task, Text: text}
	if profile.exportPrefix != "" {
		artifact := export.New(text, profile.exportPrefix, d.now())
		res.Artifact = &artifact
	}
	return res
}
