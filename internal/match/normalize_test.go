package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "helloworld"},
		{"Song (Live)", "songlive"},
		{"  trimmed  ", "trimmed"},
		{"A-B_C.D", "abcd"},
		{"晴天（Live）", "晴天live"},
		{"【独家】晴天", "独家晴天"},
		{"a,b，c", "abc"},
		{"don't", "dont"},
		{"A/B", "ab"},
		{"ＡＢＣ", "abc"}, // fullwidth folds to ASCII under NFKC
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Song (Live)", "晴天（Live）", "A - B", "ＡＢＣ def"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSameTitle(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     bool
	}{
		{"exact", "晴天", "晴天", true},
		{"case and punctuation", "Song (Live)", "song live", true},
		{"qualifier containment", "晴天", "晴天（周杰伦版）", true},
		{"containment other way", "晴天 Live", "晴天", true},
		{"different songs", "晴天", "阴天", false},
		{"both empty", "", "", true},
		{"one empty", "晴天", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameTitle(tt.expected, tt.actual); got != tt.want {
				t.Errorf("SameTitle(%q, %q) = %v, want %v", tt.expected, tt.actual, got, tt.want)
			}
		})
	}
}

func TestWiden(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		artist string
		want   []string
	}{
		{"multi artist", "说好不哭", "周杰伦/阿信", []string{"说好不哭 周杰伦", "说好不哭"}},
		{"comma separated", "说好不哭", "周杰伦, 阿信", []string{"说好不哭 周杰伦", "说好不哭"}},
		{"single artist", "晴天", "周杰伦", []string{"晴天"}},
		{"no artist", "晴天", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Widen(tt.title, tt.artist)
			if len(got) != len(tt.want) {
				t.Fatalf("Widen = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Widen[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
