package dto

import (
	"testing"

	"github.com/deckrepo/deckrepo-manager/internal/model"
)

func TestPost_ToItem(t *testing.T) {
	p := Post{
		ID:        "a1",
		Slug:      "warp",
		Type:      "boot_video",
		Title:     "Space Warp",
		Thumbnail: "https://cdn.example/warp.jpg",
		User:      &User{SteamName: "pilot"},
	}

	it := p.ToItem("https://repo.example/post/download/a1")
	if it.Kind != model.KindBoot {
		t.Errorf("Kind = %q, want boot", it.Kind)
	}
	if it.Author != "pilot" {
		t.Errorf("Author = %q, want pilot", it.Author)
	}
	if it.VideoURL != "https://repo.example/post/download/a1" {
		t.Errorf("VideoURL = %q, want download endpoint fallback", it.VideoURL)
	}
}

func TestPost_ToItem_Fallbacks(t *testing.T) {
	p := Post{ID: "x9", Type: "suspend_video", Video: "https://cdn.example/x9.webm"}

	it := p.ToItem("https://repo.example/post/download/x9")
	if it.Kind != model.KindSuspend {
		t.Errorf("Kind = %q, want suspend", it.Kind)
	}
	if it.Slug != "unknown" {
		t.Errorf("Slug = %q, want unknown fallback", it.Slug)
	}
	if it.Author != "" {
		t.Errorf("Author = %q, want empty without user", it.Author)
	}
	if it.VideoURL != "https://cdn.example/x9.webm" {
		t.Errorf("VideoURL = %q, want direct video URL", it.VideoURL)
	}
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"posts":[{"id":"a"},{"id":"b"}]}`))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if len(doc.Posts) != 2 {
		t.Errorf("got %d posts, want 2", len(doc.Posts))
	}

	if _, err := ParseDocument([]byte("{bad")); err == nil {
		t.Error("expected error for malformed document")
	}
}
