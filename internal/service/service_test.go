package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"AI-Study-Buddy/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator records prompts and answers with a fixed reply, an error,
// or the prompt itself when echo is set.
type stubGenerator struct {
	reply   string
	err     error
	echo    bool
	calls   int
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, p string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, p)
	if s.err != nil {
		return "", s.err
	}
	if s.echo {
		return p, nil
	}
	return s.reply, nil
}

var fixedNow = time.Date(2025, time.January, 2, 15, 4, 5, 0, time.UTC)

func newTestDispatcher(gen *stubGenerator) *Dispatcher {
	return NewDispatcher(gen, WithClock(func() time.Time { return fixedNow }))
}

func TestHandleBlankInputSkipsGeneration(t *testing.T) {
	cases := []struct {
		task prompt.Task
		in   prompt.Input
		want string
	}{
		{prompt.TaskExplain, prompt.Topic{Topic: "   "}, "Please enter a topic first."},
		{prompt.TaskSummarize, prompt.Notes{Notes: ""}, "Please paste some notes to summarize."},
		{prompt.TaskQuiz, prompt.Material{Material: "\n\t "}, "Please paste some study material first."},
		{prompt.TaskQuiz, nil, "Please paste some study material first."},
	}
	for _, tc := range cases {
		gen := &stubGenerator{reply: "unused"}
		res := newTestDispatcher(gen).Handle(context.Background(), tc.task, tc.in)

		assert.Equal(t, Warning, res.Kind, tc.task)
		assert.Equal(t, tc.want, res.Message)
		assert.Nil(t, res.Artifact)
		assert.Zero(t, gen.calls, "generator must not be called for %s", tc.task)
	}
}

func TestHandleFailureHasNoArtifact(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	res := newTestDispatcher(gen).Handle(context.Background(), prompt.TaskSummarize, prompt.Notes{Notes: "some notes"})

	assert.Equal(t, Failure, res.Kind)
	assert.Contains(t, res.Message, "quota exceeded")
	assert.Equal(t, "Summarization failed: quota exceeded", res.Message)
	assert.Nil(t, res.Artifact)
	assert.Empty(t, res.Text)
	assert.Equal(t, 1, gen.calls)
}

func TestHandleFailurePrefixes(t *testing.T) {
	inputs := map[prompt.Task]prompt.Input{
		prompt.TaskExplain: prompt.Topic{Topic: "Entropy"},
		prompt.TaskQuiz:    prompt.Material{Material: "Cells"},
	}
	want := map[prompt.Task]string{
		prompt.TaskExplain: "Failed to generate explanation: boom",
		prompt.TaskQuiz:    "Quiz generation failed: boom",
	}
	for task, in := range inputs {
		res := newTestDispatcher(&stubGenerator{err: errors.New("boom")}).Handle(context.Background(), task, in)
		assert.Equal(t, want[task], res.Message)
	}
}

func TestHandleExplainInterpolatesTopicAndLevel(t *testing.T) {
	gen := &stubGenerator{echo: true}
	res := newTestDispatcher(gen).Handle(context.Background(), prompt.TaskExplain,
		prompt.Topic{Topic: "Gravity", Level: prompt.Beginner})

	require.Equal(t, Rendered, res.Kind)
	assert.Contains(t, res.Text, "Gravity")
	assert.Contains(t, strings.ToLower(res.Text), "beginner")
	assert.Nil(t, res.Artifact, "explanations are not exported")
	assert.Equal(t, 1, gen.calls)
}

func TestHandleSummarizeScenario(t *testing.T) {
	notes := "Cats are mammals. Mammals are warm-blooded."
	reply := "- Cats are mammals\n- Mammals are warm-blooded"
	gen := &stubGenerator{reply: reply}

	res := newTestDispatcher(gen).Handle(context.Background(), prompt.TaskSummarize, prompt.Notes{Notes: notes})

	require.Equal(t, Rendered, res.Kind)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], notes)
	assert.Contains(t, gen.prompts[0], "bullet points")

	assert.Equal(t, reply, res.Text)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, "summary_20250102_150405.txt", res.Artifact.Filename)
	assert.Equal(t, []byte(reply), res.Artifact.Bytes)
	assert.Equal(t, "text/plain", res.Artifact.MIME)
}

func TestHandleQuizExport(t *testing.T) {
	gen := &stubGenerator{reply: "Q1..."}
	res := newTestDispatcher(gen).Handle(context.Background(), prompt.TaskQuiz, prompt.Material{Material: "Cells divide."})

	require.Equal(t, Rendered, res.Kind)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, "quiz_20250102_150405.txt", res.Artifact.Filename)
}

func TestHandleMismatchedInput(t *testing.T) {
	gen := &stubGenerator{reply: "unused"}
	res := newTestDispatcher(gen).Handle(context.Background(), prompt.TaskQuiz, prompt.Notes{Notes: "x"})

	assert.Equal(t, Warning, res.Kind)
	assert.Zero(t, gen.calls)
}

func TestHandleUnsupportedTask(t *testing.T) {
	gen := &stubGenerator{reply: "unused"}
	res := newTestDispatcher(gen).Handle(context.Background(), prompt.Task("translate"), prompt.Notes{Notes: "x"})

	assert.Equal(t, Warning, res.Kind)
	assert.Zero(t, gen.calls)
}

func TestHandleIsIndependentAcrossCalls(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	d := newTestDispatcher(gen)

	first := d.Handle(context.Background(), prompt.TaskSummarize, prompt.Notes{Notes: "a"})
	gen.err = errors.New("network down")
	second := d.Handle(context.Background(), prompt.TaskSummarize, prompt.Notes{Notes: "a"})
	gen.err = nil
	third := d.Handle(context.Background(), prompt.TaskSummarize, prompt.Notes{Notes: "a"})

	assert.Equal(t, Rendered, first.Kind)
	assert.Equal(t, Failure, second.Kind)
	assert.Equal(t, Rendered, third.Kind)
	assert.Equal(t, 3, gen.calls)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "rendered", Rendered.String())
	assert.Equal(t, "failure", Failure.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
