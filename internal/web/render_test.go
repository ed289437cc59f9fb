package web

import (
	"fmt"
	"strings"
	"testing"
)

func TestRichText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{
			name:    "markup is escaped",
			in:      `<b>bold</b> <a href="http://evil.test">link</a>`,
			want:    []string{"&lt;b&gt;bold&lt;/b&gt;", "&lt;a href="},
			notWant: []string{"<b>", "<a "},
		},
		{
			name:    "script is escaped",
			in:      "<script>alert(1)</script>",
			want:    []string{"&lt;script&gt;"},
			notWant: []string{"<script>"},
		},
		{
			name: "line breaks",
			in:   "first\r\nsecond\nthird",
			want: []string{"first<br", "second<br", "third"},
		},
		{
			name: "plain text kept",
			in:   "fish & chips",
			want: []string{"fish &amp; chips"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(richText(tt.in))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("richText(%q) = %q, missing %q", tt.in, got, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("richText(%q) = %q, must not contain %q", tt.in, got, nw)
				}
			}
		})
	}
}

func TestPostMarkupShownAsText(t *testing.T) {
	app := newTestApp(t)
	author := app.user(t, "leo")
	post := app.post(t, author, `<a href="http://evil.test">click</a>`)

	rec := app.do(t, "GET", fmt.Sprintf("/posts/%d/", post.ID), nil, nil)
	body := rec.Body.String()
	if strings.Contains(body, `href="http://evil.test"`) {
		t.Error("post markup rendered as a live link")
	}
	if !strings.Contains(body, "&lt;a href=") {
		t.Error("post markup not shown escaped")
	}
}
