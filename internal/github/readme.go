package github

import (
	"fmt"
	"path"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ReadmeText returns README content as Markdown. HTML READMEs are converted,
// everything else is returned as-is.
func ReadmeText(name, content string) (string, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		md, err := htmltomarkdown.ConvertString(content)
		if err != nil {
			return "", fmt.Errorf("converting %s to markdown: %w", name, err)
		}
		return strings.TrimSpace(md), nil
	default:
		return content, nil
	}
}
