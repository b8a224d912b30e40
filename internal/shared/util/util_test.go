package util

import (
	"strings"
	"testing"
)

func TestHashUserKey(t *testing.T) {
	id := "guest:0b7e5c"
	got := HashUserKey(id)
	if got != HashUserKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashUserKey("guest:0b7e5d") {
		t.Fatalf("expected distinct owners to hash differently")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "cv.pdf", want: "cv.pdf"},
		{in: "  Jane Doe CV.pdf ", want: "Jane Doe CV.pdf"},
		{in: `a/b\c.pdf`, want: "a_b_c.pdf"},
		{in: "tab\there.pdf", want: "tab_here.pdf"},
		{in: "../secret.pdf", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFileNameKeepsExtensionWhenCut(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("x", 300) + ".pdf")
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if len(got) != MaxFileNameLen || !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("unexpected result %q (len %d)", got, len(got))
	}
}
