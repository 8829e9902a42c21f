package model

import "testing"

func TestFilterItems(t *testing.T) {
	items := []CatalogItem{
		{ID: "a", Kind: KindBoot, Title: "Space Warp"},
		{ID: "b", Kind: KindSuspend, Title: "Space Nap"},
		{ID: "c", Kind: KindBoot, Title: "Retro Logo"},
		{ID: "d", Kind: KindBoot, Title: "Deep Space Nine"},
	}

	tests := []struct {
		name    string
		kind    VideoKind
		query   string
		wantIDs []string
	}{
		{"boot no query", KindBoot, "", []string{"a", "c", "d"}},
		{"suspend no query", KindSuspend, "", []string{"b"}},
		{"boot with query", KindBoot, "space", []string{"a", "d"}},
		{"query is case insensitive", KindBoot, "SPACE", []string{"a", "d"}},
		{"no matches", KindSuspend, "logo", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterItems(items, tt.kind, tt.query)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("item %d: got id %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSnapshot_FindByID(t *testing.T) {
	snap := CatalogSnapshot{
		Items: []CatalogItem{
			{ID: "x", Title: "First"},
			{ID: "y", Title: "Second"},
		},
		Source: SourceNetwork,
	}

	if it := snap.FindByID("y"); it == nil || it.Title != "Second" {
		t.Errorf("FindByID(%q) = %v, want Second", "y", it)
	}
	if it := snap.FindByID("missing"); it != nil {
		t.Errorf("FindByID(missing) = %v, want nil", it)
	}
}

func TestSessionState_IsTerminal(t *testing.T) {
	tests := []struct {
		state SessionState
		want  bool
	}{
		{StateRequested, false},
		{StateFetchingVideo, false},
		{StateWritingVideo, false},
		{StateFetchingThumbnail, false},
		{StateCommitting, false},
		{StateDone, true},
		{StateErrored, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstalledEntry_DisplayTitle(t *testing.T) {
	withMeta := InstalledEntry{
		Filename: "warp.webm",
		Meta:     &CatalogItem{Title: "Space Warp"},
	}
	if got := withMeta.DisplayTitle(); got != "Space Warp" {
		t.Errorf("DisplayTitle() = %q, want %q", got, "Space Warp")
	}

	noMeta := InstalledEntry{Filename: "warp.webm"}
	if got := noMeta.DisplayTitle(); got != "warp.webm" {
		t.Errorf("DisplayTitle() = %q, want %q", got, "warp.webm")
	}
}

func TestCatalogItem_MatchesSearch(t *testing.T) {
	it := CatalogItem{Title: "Neon Boot"}

	if !it.MatchesSearch("") {
		t.Error("empty query should match")
	}
	if !it.MatchesSearch("neon") {
		t.Error("lowercased substring should match")
	}
	if it.MatchesSearch("plasma") {
		t.Error("unrelated query should not match")
	}
}
