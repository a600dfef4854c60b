package resolver

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestResolveExpiry_FieldPriority(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		url    string
		want   time.Time
	}{
		{
			name:   "explicit_expires_at_rfc3339",
			fields: map[string]any{"expires_at": "2026-08-02T00:00:00Z"},
			want:   time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "explicit_expires_at_epoch_string",
			fields: map[string]any{"expires_at": "1765000000"},
			want:   time.Unix(1765000000, 0).UTC(),
		},
		{
			name:   "expires_in_seconds",
			fields: map[string]any{"expires_in": float64(3600)},
			want:   testNow.Add(time.Hour),
		},
		{
			name: "expires_in_beats_expires_string",
			// field priority: expires_in wins even with a conflicting
			// duration alongside
			fields: map[string]any{"expires_in": float64(3600), "expires": "2h"},
			want:   testNow.Add(time.Hour),
		},
		{
			name:   "expires_hours_pattern",
			fields: map[string]any{"expires": "12h"},
			want:   testNow.Add(12 * time.Hour),
		},
		{
			name:   "expires_unknown_unit_falls_through_to_default",
			fields: map[string]any{"expires": "30m"},
			want:   testNow.Add(DefaultLinkTTL),
		},
		{
			name:   "no_signals_default",
			fields: map[string]any{},
			want:   testNow.Add(DefaultLinkTTL),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveExpiry(tt.fields, tt.url, testNow)
			if !got.Equal(tt.want) {
				t.Errorf("ResolveExpiry = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveExpiry_URLEmbedded(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want time.Time
	}{
		{
			name: "dstime_epoch_seconds",
			// 10 digits, below 10^12: seconds, not milliseconds
			url:  "https://cdn.example.com/f.mp4?dstime=1765000000",
			want: time.Unix(1765000000, 0).UTC(),
		},
		{
			name: "epoch_milliseconds",
			url:  "https://cdn.example.com/f.mp4?expires=1765000000000",
			want: time.UnixMilli(1765000000000).UTC(),
		},
		{
			name: "hours_pattern_in_query",
			url:  "https://cdn.example.com/f.mp4?expires=6h",
			want: testNow.Add(6 * time.Hour),
		},
		{
			name: "exp_param",
			url:  "https://cdn.example.com/f.mp4?exp=1765000000",
			want: time.Unix(1765000000, 0).UTC(),
		},
		{
			name: "too_few_digits_ignored",
			url:  "https://cdn.example.com/f.mp4?dstime=12345678",
			want: testNow.Add(DefaultLinkTTL),
		},
		{
			name: "unrelated_params_ignored",
			url:  "https://cdn.example.com/f.mp4?sig=abc&uid=42",
			want: testNow.Add(DefaultLinkTTL),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveExpiry(map[string]any{}, tt.url, testNow)
			if !got.Equal(tt.want) {
				t.Errorf("ResolveExpiry = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveExpiry_BodyBeatsURL(t *testing.T) {
	got := ResolveExpiry(
		map[string]any{"expires_in": float64(60)},
		"https://cdn.example.com/f.mp4?dstime=1765000000",
		testNow,
	)
	want := testNow.Add(time.Minute)
	if !got.Equal(want) {
		t.Errorf("ResolveExpiry = %v, want %v (body field must outrank URL hint)", got, want)
	}
}
