package domain

import "testing"

func TestEmbedBuilderBuild(t *testing.T) {
	builder := NewEmbedBuilder("https://vidsrc.example/")

	tests := []struct {
		name     string
		resolved ResolvedIdentifier
		ref      MediaReference
		expected string
		ok       bool
	}{
		{
			name:     "imdb movie",
			resolved: ResolvedIdentifier{ID: "tt1132124", Type: IDTypeIMDb},
			ref:      MediaReference{MediaType: MediaMovie},
			expected: "https://vidsrc.example/embed/movie?imdb=tt1132124",
			ok:       true,
		},
		{
			name:     "movie ignores season and episode",
			resolved: ResolvedIdentifier{ID: "111", Type: IDTypeTMDb},
			ref:      MediaReference{MediaType: MediaMovie, Season: 3, Episode: 4},
			expected: "https://vidsrc.example/embed/movie?tmdb=111",
			ok:       true,
		},
		{
			name:     "tmdb series with season and episode",
			resolved: ResolvedIdentifier{ID: "1399", Type: IDTypeTMDb},
			ref:      MediaReference{MediaType: MediaSeries, Season: 2, Episode: 5},
			expected: "https://vidsrc.example/embed/tv?tmdb=1399&season=2&episode=5",
			ok:       true,
		},
		{
			name:     "series defaults to first episode",
			resolved: ResolvedIdentifier{ID: "1399", Type: IDTypeTMDb},
			ref:      MediaReference{MediaType: MediaSeries},
			expected: "https://vidsrc.example/embed/tv?tmdb=1399&season=1&episode=1",
			ok:       true,
		},
		{
			name:     "series with only season",
			resolved: ResolvedIdentifier{ID: "tt0944947", Type: IDTypeIMDb},
			ref:      MediaReference{MediaType: MediaSeries, Season: 4},
			expected: "https://vidsrc.example/embed/tv?imdb=tt0944947&season=4&episode=1",
			ok:       true,
		},
		{
			name:     "unresolved movie",
			resolved: ResolvedIdentifier{Type: IDTypeNone},
			ref:      MediaReference{MediaType: MediaMovie},
		},
		{
			name:     "unresolved series",
			resolved: ResolvedIdentifier{Type: IDTypeNone},
			ref:      MediaReference{MediaType: MediaSeries, Season: 2, Episode: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := builder.Build(tt.resolved, tt.ref)
			if ok != tt.ok {
				t.Fatalf("Build() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.expected {
				t.Errorf("Build() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEmbedBuilderIsDeterministic(t *testing.T) {
	builder := NewEmbedBuilder("")
	resolved := Resolve("https://www.themoviedb.org/tv/1399-game-of-thrones/")
	ref := MediaReference{MediaType: MediaSeries, Season: 2, Episode: 5}

	first, _ := builder.Build(resolved, ref)
	second, _ := builder.Build(resolved, ref)
	if first != second {
		t.Errorf("Build() not deterministic: %q vs %q", first, second)
	}
	if first != DefaultEmbedHost+"/embed/tv?tmdb=1399&season=2&episode=5" {
		t.Errorf("Build() = %q", first)
	}
}
