// Package content loads reading material from files.
package content

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source is a normalized text ready for tokenization.
type Source struct {
	Title      string
	Text       string
	SourceType string
	Hash       string
}

// Load reads a UTF-8 text or markdown file, normalizes line endings,
// strips markdown heading markers, and derives a title from the first
// heading line or the file name.
func Load(path string) (Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return Source{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()

	sourceType := "text"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".md" || ext == ".markdown" {
		sourceType = "markdown"
	}

	var lines []string
	title := ""
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		line = strings.TrimRight(line, "\r")
		if stripped, isHeading := stripHeadingMarker(line); isHeading {
			if title == "" {
				title = stripped
			}
			line = stripped
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return Source{}, err
	}

	text := strings.TrimRight(strings.Join(lines, "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return Source{}, fmt.Errorf("no readable content in %s", path)
	}
	if title == "" {
		title = titleFromPath(path)
	}

	sum := sha256.Sum256([]byte(text))
	return Source{
		Title:      title,
		Text:       text,
		SourceType: sourceType,
		Hash:       hex.EncodeToString(sum[:]),
	}, nil
}

// stripHeadingMarker removes a leading markdown heading marker so the
// marker runes never become display tokens.
func stripHeadingMarker(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	hashes := 0
	for hashes < len(trimmed) && trimmed[hashes] == '#' {
		hashes++
	}
	if hashes == 0 || hashes > 6 {
		return line, false
	}
	rest := trimmed[hashes:]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return line, false
	}
	return strings.TrimSpace(rest), true
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" {
		return "Untitled"
	}
	return base
}
