package ui

import (
	"AI-Study-Buddy/internal/prompt"
)

// taskPage は1つのタスク画面の文言です。
type taskPage struct {
	Task          prompt.Task
	Path          string
	Icon          string
	NavLabel      string
	Header        string
	Field         string
	Multiline     bool
	Label         string
	Placeholder   string
	Button        string
	Spinner       string
	Success       string
	ResultHeading string
	DownloadLabel string
}

var taskPages = []taskPage{
	{
		Task:          prompt.TaskExplain,
		Path:          "/explain",
		Icon:          "🧠",
		NavLabel:      "Concept Explanation",
		Header:        "🧠 Explain Any Concept",
		Field:         "topic",
		Label:         "Enter a topic or concept you want to understand:",
		Placeholder:   "e.g., Quantum Computing, Photosynthesis, Blockchain",
		Button:        "Explain Simply",
		Spinner:       "Generating a simple explanation using Gemini...",
		Success:       "✅ Explanation Ready!",
		ResultHeading: "Explanation:",
	},
	{
		Task:          prompt.TaskSummarize,
		Path:          "/summarize",
		Icon:          "📝",
		NavLabel:      "Summarize Notes",
		Header:        "📝 Summarize Study Notes",
		Field:         "notes",
		Multiline:     true,
		Label:         "Paste your study notes or text:",
		Placeholder:   "Paste your long notes or paragraphs here...",
		Button:        "Summarize Notes",
		Spinner:       "Summarizing your notes...",
		Success:       "✅ Summary Generated!",
		ResultHeading: "Summary:",
		DownloadLabel: "💾 Download Summary",
	},
	{
		Task:          prompt.TaskQuiz,
		Path:          "/quiz",
		Icon:          "🎯",
		NavLabel:      "Quiz & Flashcards",
		Header:        "🎯 Quiz & Flashcards Generator",
		Field:         "material",
		Multiline:     true,
		Label:         "Paste study notes or text:",
		Placeholder:   "Paste your summarized notes or study content here...",
		Button:        "Generate Quiz & Flashcards",
		Spinner:       "Generating quiz and flashcards using Gemini...",
		Success:       "✅ Quiz & Flashcards Ready!",
		ResultHeading: "Quiz & Flashcards:",
		DownloadLabel: "💾 Download Quiz & Flashcards",
	},
}

func pageFor(task prompt.Task) (taskPage, bool) {
	for _, p := range taskPages {
		if p.Task == task {
			return p, true
		}
	}
	return taskPage{}, false
}

type navItem struct {
	Path   string
	Label  string
	Active bool
}

func navFor(active prompt.Task) []navItem {
	items := make([]navItem, 0, len(taskPages))
	for _, p := range taskPages {
		items = append(items, navItem{
			Path:   p.Path,
			Label:  p.Icon + " " + p.NavLabel,
			Active: p.Task == active,
		})
	}
	return items
}
