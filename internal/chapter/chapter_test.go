package chapter

import (
	"strings"
	"testing"

	"github.com/satriapamudji/glidereader/internal/model"
	"github.com/satriapamudji/glidereader/internal/token"
)

const sampleBook = `Chapter 1
It was a dark and stormy night in the harbor town.
The ships creaked against their moorings.

Chapter 2
Morning came with clear skies and a fair wind.`

func TestDetectChapterLines(t *testing.T) {
	chapters := Detect(sampleBook)
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d: %+v", len(chapters), chapters)
	}
	if chapters[0].Title != "Chapter 1" || chapters[1].Title != "Chapter 2" {
		t.Fatalf("unexpected titles: %+v", chapters)
	}
	if chapters[0].StartToken != 0 {
		t.Fatalf("first chapter starts at %d", chapters[0].StartToken)
	}
	if chapters[0].EndToken != chapters[1].StartToken {
		t.Fatalf("ranges not contiguous: %+v", chapters)
	}
}

func TestDetectCoversAllTokens(t *testing.T) {
	profile, _ := model.ProfileByName("normal")
	total := len(token.Tokenize(sampleBook, profile))
	chapters := Detect(sampleBook)
	if got := chapters[len(chapters)-1].EndToken; got != total {
		t.Fatalf("last chapter ends at %d, want %d", got, total)
	}
	for i := 1; i < len(chapters); i++ {
		if chapters[i].StartToken != chapters[i-1].EndToken {
			t.Fatalf("gap between chapters %d and %d: %+v", i-1, i, chapters)
		}
	}
}

func TestDetectFrontMatter(t *testing.T) {
	text := "Some opening words here.\n\nChapter 1\nBody text follows the heading."
	chapters := Detect(text)
	if len(chapters) != 2 {
		t.Fatalf("expected front matter plus one chapter, got %+v", chapters)
	}
	if chapters[0].Title != "Front matter" || chapters[0].StartToken != 0 {
		t.Fatalf("unexpected front matter: %+v", chapters[0])
	}
}

func TestDetectAllCapsHeading(t *testing.T) {
	text := "THE STORM\nRain fell for days on end without mercy."
	chapters := Detect(text)
	if len(chapters) != 1 || chapters[0].Title != "THE STORM" {
		t.Fatalf("all-caps heading not detected: %+v", chapters)
	}
}

func TestDetectNothingInPlainProse(t *testing.T) {
	text := strings.Repeat("Plain prose sentences continue without any headings at all. ", 20)
	if chapters := Detect(text); chapters != nil {
		t.Fatalf("expected nil chapters, got %+v", chapters)
	}
	if chapters := Detect(""); chapters != nil {
		t.Fatalf("expected nil chapters for empty text, got %+v", chapters)
	}
}

func TestContaining(t *testing.T) {
	chapters := []model.Chapter{
		{Title: "One", StartToken: 0, EndToken: 10},
		{Title: "Two", StartToken: 10, EndToken: 25},
	}
	ch, ok := Containing(chapters, 10)
	if !ok || ch.Title != "Two" {
		t.Fatalf("Containing(10) = %+v, %v", ch, ok)
	}
	if _, ok := Containing(chapters, 25); ok {
		t.Fatalf("index past the end matched a chapter")
	}
}
