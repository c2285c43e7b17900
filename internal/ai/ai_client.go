package ai_client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"AI-Study-Buddy/internal/config"
	"AI-Study-Buddy/internal/utils"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// DefaultModel は設定でモデルが指定されていない場合に使います。
const DefaultModel = "gemini-1.5-flash"

const logPreviewChars = 200

var (
	ErrNotInitialized = errors.New("Gemini client is not initialized")
	ErrEmptyAnswer    = errors.New("Gemini API returned an empty answer")
)

// Generator はプロンプトを送り、生成されたテキストを返します。
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationError は生成呼び出しの失敗(通信、認証、クォータ、不正な応答)を表します。
// Error() は利用者にそのまま見せられる文言で、Unwrap で元のエラーを取り出せます。
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "generation failed"
	}
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// GeminiClient はGemini APIとの連携を担当します。
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	log       *zap.Logger
}

// NewGeminiClient は新しいGeminiClientのインスタンスを作成します。
// opts は API キーの後に適用されます (エンドポイントの差し替えなど)。
func NewGeminiClient(ctx context.Context, creds config.Credentials, modelName string, log *zap.Logger, opts ...option.ClientOption) (*GeminiClient, error) {
	if creds.Empty() {
		return nil, config.ErrAPIKeyMissing
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(creds.APIKey())}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client:    client,
		model:     client.GenerativeModel(modelName),
		modelName: modelName,
		log:       log.Named("gemini"),
	}, nil
}

// Model は設定済みのモデル ID を返します。
func (gc *GeminiClient) Model() string { return gc.modelName }

// Generate は指定されたプロンプトに基づいてAIコンテンツを生成します。
// 再試行やフォールバックは行いません。失敗は常に *GenerationError で返します。
func (gc *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if gc == nil || gc.model == nil {
		return "", &GenerationError{Err: ErrNotInitialized}
	}
	gc.log.Debug("sending prompt",
		zap.String("model", gc.modelName),
		zap.Int("chars", len([]rune(prompt))),
		zap.String("preview", utils.TruncateLines(prompt, logPreviewChars, 3)),
	)

	resp, err := gc.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		gc.log.Warn("generation failed", zap.String("model", gc.modelName), zap.Error(err))
		return "", &GenerationError{Model: gc.modelName, Err: err}
	}

	answer := responseText(resp)
	if answer == "" {
		gc.log.Warn("empty answer", zap.String("model", gc.modelName))
		return "", &GenerationError{Model: gc.modelName, Err: ErrEmptyAnswer}
	}
	return answer, nil
}

// Close は内部の接続を解放します。nil でも安全に呼べます。
func (gc *GeminiClient) Close() error {
	if gc == nil || gc.client == nil {
		return nil
	}
	return gc.client.Close()
}

// responseText は全候補のテキストパートを連結し、前後の空白を取り除きます。
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var answer strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				answer.WriteString(string(txt))
			}
		}
	}
	return strings.TrimSpace(answer.String())
}
