package export

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"
)

const (
	// TimestampLayout formats as YYYYMMDD_HHMMSS.
	TimestampLayout = "20060102_150405"
	// MIMEType は成果物の MIME タイプです。
	MIMEType = "text/plain"
)

// Artifact はダウンロード用に生成テキストをまとめたものです。
type Artifact struct {
	Bytes    []byte
	Filename string
	MIME     string
}

// New は text を UTF-8 のバイト列にし、"{prefix}_{YYYYMMDD_HHMMSS}.txt" という名前を付けます。
func New(text, prefix string, now time.Time) Artifact {
	return Artifact{
		Bytes:    []byte(text),
		Filename: Filename(prefix, now),
		MIME:     MIMEType,
	}
}

// Filename はタイムスタンプ付きのファイル名を組み立てます。
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.txt", prefix, now.Format(TimestampLayout))
}

// ContentType は charset 付きの Content-Type ヘッダ値を返します。
func (a Artifact) ContentType() string {
	return mime.FormatMediaType(a.MIME, map[string]string{"charset": "utf-8"})
}

// ContentDisposition はダウンロード用の Content-Disposition ヘッダ値を返します。
func (a Artifact) ContentDisposition() string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})
}

// WriteTo は成果物を dir に書き出し、書き出したパスを返します。
func (a Artifact) WriteTo(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Bytes, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
