package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var catalogYAML []byte

type catalog struct {
	Levels    map[string]string `yaml:"levels"`
	Explain   string            `yaml:"explain"`
	Summarize string            `yaml:"summarize"`
	Quiz      string            `yaml:"quiz"`

	templates map[Task]*template.Template
}

var defaultCatalog = mustLoadCatalog(catalogYAML)

// loadCatalog はテンプレート定義を読み込み、タスクごとにパースします。
func loadCatalog(data []byte) (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompt catalog: %w", err)
	}
	for _, l := range Levels {
		if strings.TrimSpace(c.Levels[strings.ToLower(l.String())]) == "" {
			return nil, fmt.Errorf("prompt catalog: missing guidance for level %s", l)
		}
	}

	sources := map[Task]string{
		TaskExplain:   c.Explain,
		TaskSummarize: c.Summarize,
		TaskQuiz:      c.Quiz,
	}
	c.templates = make(map[Task]*template.Template, len(sources))
	for task, src := range sources {
		if strings.TrimSpace(src) == "" {
			return nil, fmt.Errorf("prompt catalog: empty template for %s", task)
		}
		tmpl, err := template.New(string(task)).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("prompt catalog: failed to parse %s template: %w", task, err)
		}
		c.templates[task] = tmpl
	}
	return &c, nil
}

func mustLoadCatalog(data []byte) *catalog {
	c, err := loadCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// render は埋め込みカタログのテンプレートを実行します。
// テンプレートは起動時に検証済みのため、失敗はプログラムの誤りです。
func render(task Task, data any) string {
	var sb strings.Builder
	if err := defaultCatalog.templates[task].Execute(&sb, data); err != nil {
		panic(fmt.Sprintf("prompt: render %s: %v", task, err))
	}
	return sb.String()
}
