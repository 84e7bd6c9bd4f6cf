// Package markup renders user supplied markdown to safe html.
package markup

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New( //nolint:gochecknoglobals
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	)
	policy = bluemonday.UGCPolicy() //nolint:gochecknoglobals
)

// Markdown converts src to sanitized html.
func Markdown(src string) template.HTML {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		log.Warn().Err(err).Msg("markdown conversion failed, escaping source")
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec
	}

	return template.HTML(policy.SanitizeBytes(buf.Bytes())) //nolint:gosec
}
