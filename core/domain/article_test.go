package domain

import "testing"

func TestArticle_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		want    bool
	}{
		{"complete", Article{Title: "A headline", Link: "https://example.com/a"}, true},
		{"missing title", Article{Link: "https://example.com/a"}, false},
		{"missing link", Article{Title: "A headline"}, false},
		{"empty", Article{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.article.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
