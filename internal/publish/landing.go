package publish

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
)

const landingShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Documentation</title>
<link rel="stylesheet" href="main.css">
</head>
<body>
%s</body>
</html>
`

// renderLanding renders the optional markdown landing page next to the
// stylesheet fragment into index.html at the publish root. No landing
// source means no landing page.
func (p *Publisher) renderLanding(dest string) error {
	src := p.resolver.LandingPath()
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read landing page source: %w", err)
	}

	var body bytes.Buffer
	if err := goldmark.New().Convert(data, &body); err != nil {
		return fmt.Errorf("failed to render landing page: %w", err)
	}

	target := filepath.Join(dest, "index.html")
	page := fmt.Sprintf(landingShell, body.String())
	if err := os.WriteFile(target, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write landing page: %w", err)
	}
	slog.Debug("Rendered landing page", "source", src, "target", target)
	return nil
}
