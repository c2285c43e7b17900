package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Task は学習アシスタントの機能を識別します。
type Task string

const (
	TaskExplain   Task = "explain"
	TaskSummarize Task = "summarize"
	TaskQuiz      Task = "quiz"
)

// Tasks はナビゲーション順のタスク一覧です。
var Tasks = []Task{TaskExplain, TaskSummarize, TaskQuiz}

var (
	ErrUnknownTask   = errors.New("unknown task")
	ErrUnknownLevel  = errors.New("unknown detail level")
	ErrInputMismatch = errors.New("input does not match task")
)

// ParseTask は大文字小文字を区別せずにタスク名を解釈します。
func ParseTask(s string) (Task, error) {
	t := Task(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tasks {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTask, s)
}

// DetailLevel は説明の詳しさです。ゼロ値は Beginner です。
type DetailLevel int

const (
	Beginner DetailLevel = iota
	Intermediate
	Advanced
)

// Levels は詳しさの低い順に並べた全レベルです。
var Levels = []DetailLevel{Beginner, Intermediate, Advanced}

func (l DetailLevel) String() string {
	switch l {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	}
	return fmt.Sprintf("DetailLevel(%d)", int(l))
}

func (l DetailLevel) valid() bool { return l >= Beginner && l <= Advanced }

// ParseLevel は大文字小文字を区別せずに詳しさを解釈します。空文字列は Beginner です。
func ParseLevel(s string) (DetailLevel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Beginner, nil
	}
	for _, l := range Levels {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return Beginner, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Input はユーザー入力です。Topic, Notes, Material のいずれかです。
type Input interface {
	// Task はこの入力を受け付けるタスクを返します。
	Task() Task
	// Text は空チェックの対象となる自由入力テキストを返します。
	Text() string
}

// Topic は説明タスクの入力です。
type Topic struct {
	Topic string
	Level DetailLevel
}

func (Topic) Task() Task { return TaskExplain }
func (t Topic) Text() string { return t.Topic }

// Notes は要約タスクの入力です。
type Notes struct {
	Notes string
}

func (Notes) Task() Task { return TaskSummarize }
func (n Notes) Text() string { return n.Notes }

// Material はクイズ生成タスクの入力です。
type Material struct {
	Material string
}

func (Material) Task() Task { return TaskQuiz }
func (m Material) Text() string { return m.Material }

// Build はタスクと入力からプロンプトを組み立てます。
// 同じ引数からは常に同じ文字列を返します。入力テキストはそのまま埋め込まれます。
func Build(task Task, in Input) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: nil input for %s", ErrInputMismatch, task)
	}
	if in.Task() != task {
		return "", fmt.Errorf("%w: %s input for %s", ErrInputMismatch, in.Task(), task)
	}

	switch v := in.(type) {
	case Topic:
		if !v.Level.valid() {
			return "", fmt.Errorf("%w: %d", ErrUnknownLevel, int(v.Level))
		}
		return ExplainTopic(v.Topic, v.Level), nil
	case Notes:
		return SummarizeNotes(v.Notes), nil
	case Material:
		return GenerateQuiz(v.Material), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTask, task)
}

// ExplainTopic は level に合わせた説明用プロンプトを作ります。
func ExplainTopic(topic string, level DetailLevel) string {
	name := strings.ToLower(level.String())
	return render(TaskExplain, struct {
		Topic    string
		Level    string
		Guidance string
	}{topic, name, defaultCatalog.Levels[name]})
}

// SummarizeNotes は箇条書き要約用のプロンプトを作ります。
func SummarizeNotes(notes string) string {
	return render(TaskSummarize, struct{ Notes string }{notes})
}

// GenerateQuiz は4択問題5問とフラッシュカード5枚を求めるプロンプトを作ります。
func GenerateQuiz(material string) string {
	return render(TaskQuiz, struct{ Material string }{material})
}
