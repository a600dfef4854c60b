package resolver

import "testing"

func TestNormalize_KnownFields(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "download_link_first",
			payload: map[string]any{"download_link": "https://a/x.bin", "url": "https://b/y.bin"},
			want:    "https://a/x.bin",
		},
		{
			name:    "camel_case_variant",
			payload: map[string]any{"downloadUrl": "https://a/x.bin"},
			want:    "https://a/x.bin",
		},
		{
			name:    "empty_string_skipped",
			payload: map[string]any{"download_link": "", "link": "https://a/x.bin"},
			want:    "https://a/x.bin",
		},
		{
			name:    "non_string_value_skipped",
			payload: map[string]any{"file": float64(42), "url": "https://a/x.bin"},
			want:    "https://a/x.bin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(tt.payload)
			if n == nil {
				t.Fatal("expected a normalized result")
			}
			if n.DownloadURL != tt.want {
				t.Errorf("DownloadURL = %q, want %q", n.DownloadURL, tt.want)
			}
		})
	}
}

func TestNormalize_HeuristicScan(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "provider_hostname_fragment",
			payload: map[string]any{"dl": "https://d8.freeterabox.com/file/abc"},
			want:    "https://d8.freeterabox.com/file/abc",
		},
		{
			name:    "video_extension",
			payload: map[string]any{"direct": "https://cdn.example.com/movie.mkv?sig=1"},
			want:    "https://cdn.example.com/movie.mkv?sig=1",
		},
		{
			name: "nested_one_level",
			payload: map[string]any{
				"status": "ok",
				"data":   map[string]any{"dlink": "https://d.1024tera.com/file/xyz"},
			},
			want: "https://d.1024tera.com/file/xyz",
		},
		{
			name:    "plain_url_without_hints_ignored",
			payload: map[string]any{"homepage": "https://example.com/about"},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(tt.payload)
			if tt.want == "" {
				if n != nil {
					t.Fatalf("expected no result, got %q", n.DownloadURL)
				}
				return
			}
			if n == nil {
				t.Fatal("expected a normalized result")
			}
			if n.DownloadURL != tt.want {
				t.Errorf("DownloadURL = %q, want %q", n.DownloadURL, tt.want)
			}
		})
	}
}

func TestNormalize_RawTextFallback(t *testing.T) {
	t.Run("long_embedded_url_extracted", func(t *testing.T) {
		n := Normalize(map[string]any{
			"rawText": `<ok> "https://d3.terabox.app/file/9f8e7d6c5b4a.mp4?dstime=1765000000" </ok>`,
		})
		if n == nil {
			t.Fatal("expected a normalized result")
		}
		want := "https://d3.terabox.app/file/9f8e7d6c5b4a.mp4?dstime=1765000000"
		if n.DownloadURL != want {
			t.Errorf("DownloadURL = %q, want %q", n.DownloadURL, want)
		}
	})

	t.Run("short_urls_skipped", func(t *testing.T) {
		if n := Normalize(map[string]any{"rawText": "see https://a.io/x for details"}); n != nil {
			t.Errorf("expected no result, got %q", n.DownloadURL)
		}
	})

	t.Run("empty_payload", func(t *testing.T) {
		if n := Normalize(map[string]any{}); n != nil {
			t.Error("expected no result for empty payload")
		}
	})
}

func TestNormalize_SizeExtraction(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    int64
		none    bool
	}{
		{
			name:    "size_number",
			payload: map[string]any{"link": "https://a/x.mp4", "size": float64(1048576)},
			want:    1048576,
		},
		{
			name:    "size_string",
			payload: map[string]any{"link": "https://a/x.mp4", "filesize": "2048"},
			want:    2048,
		},
		{
			name:    "priority_size_over_file_size",
			payload: map[string]any{"link": "https://a/x.mp4", "size": float64(10), "file_size": float64(99)},
			want:    10,
		},
		{
			name:    "absent_size_is_unknown_not_error",
			payload: map[string]any{"link": "https://a/x.mp4"},
			none:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(tt.payload)
			if n == nil {
				t.Fatal("expected a normalized result")
			}
			if tt.none {
				if n.SizeBytes != nil {
					t.Errorf("SizeBytes = %d, want nil", *n.SizeBytes)
				}
				return
			}
			if n.SizeBytes == nil || *n.SizeBytes != tt.want {
				t.Errorf("SizeBytes = %v, want %d", n.SizeBytes, tt.want)
			}
		})
	}
}
