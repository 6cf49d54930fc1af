package model

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons", "file_with_colons"},
		{"file<with>brackets", "file_with_brackets"},
		{"file/with\\slashes", "file_with_slashes"},
		{"file|with|pipes", "file_with_pipes"},
		{"file?with*wildcards", "file_with_wildcards"},
		{"file\"with\"quotes", "file_with_quotes"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{"plain", "晴天", "周杰伦", "晴天-周杰伦.mp3"},
		{"unsafe characters", "A/B", "X?Y", "A_B-X_Y.mp3"},
		{"empty title falls back", "", "周杰伦", "未知歌曲-周杰伦.mp3"},
		{"empty artist falls back", "晴天", "", "晴天-未知歌手.mp3"},
		{"surrounding whitespace trimmed", "  Song  ", " Artist ", "Song-Artist.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputFileName(tt.title, tt.artist); got != tt.want {
				t.Errorf("OutputFileName(%q, %q) = %q, want %q", tt.title, tt.artist, got, tt.want)
			}
		})
	}
}

func TestSourceOfID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"netrack_186016", SourceNetease},
		{"qqtrack_001Q5zRr2sc1x5", SourceQQ},
		{"kgtrack_ABCDEF", SourceKugou},
		{"sptrack_foo", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SourceOfID(tt.id); got != tt.want {
			t.Errorf("SourceOfID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRowStatus(t *testing.T) {
	if StatusDone.String() != "done" || StatusFailed.String() != "failed" {
		t.Errorf("terminal status labels wrong: %q, %q", StatusDone, StatusFailed)
	}
	for _, s := range []RowStatus{StatusPending, StatusSearching, StatusResolving, StatusFetching, StatusUploading} {
		if s.Terminal() {
			t.Errorf("%v should not be terminal", s)
		}
	}
	if !StatusDone.Terminal() || !StatusFailed.Terminal() {
		t.Error("Done and Failed should be terminal")
	}
}
