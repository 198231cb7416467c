package vfs

import "testing"

func TestNewPathCanonicalizes(t *testing.T) {
	cases := map[string]string{
		"":                "/",
		"/":               "/",
		"a/b/c":           "/a/b/c",
		"/a/b/c":          "/a/b/c",
		"//a//b///c":      "/a/b/c",
		"/a/b/c/":         "/a/b/c",
		"  /a / b /c ":    "/a/b/c",
	}
	for in, want := range cases {
		if got := NewPath(in).String(); got != want {
			t.Errorf("NewPath(%q).String() = %q, want %q", in, got, want)
		}
	}
}

func TestPathSegmentsRoundTrip(t *testing.T) {
	inputs := []string{"/", "/a", "/a/b/c", "/foo/bar.txt"}
	for _, in := range inputs {
		p := NewPath(in)
		rt := FromSegments(p.Segments()).String()
		if rt != p.String() {
			t.Errorf("round trip mismatch: %q -> %q -> %q", in, p.String(), rt)
		}
	}
}

func TestPathParentAndChild(t *testing.T) {
	p := NewPath("/a/b/c")
	if got := p.Parent().String(); got != "/a/b" {
		t.Errorf("Parent() = %q, want /a/b", got)
	}
	if got := p.Name(); got != "c" {
		t.Errorf("Name() = %q, want c", got)
	}
	if got := Root.Parent().String(); got != "/" {
		t.Errorf("Root.Parent() = %q, want /", got)
	}
	if got := NewPath("/a").Child("b").String(); got != "/a/b" {
		t.Errorf("Child() = %q, want /a/b", got)
	}
}

func TestPathIsRoot(t *testing.T) {
	if !Root.IsRoot() {
		t.Error("Root.IsRoot() = false")
	}
	if NewPath("/a").IsRoot() {
		t.Error("/a reported as root")
	}
}

func TestPathURLEncode(t *testing.T) {
	p := NewPath("/a dir/b+c")
	if got := p.URLEncode(true); got != "/a%20dir/b+c/" {
		t.Errorf("URLEncode(true) = %q", got)
	}
	if got := Root.URLEncode(true); got != "/" {
		t.Errorf("URLEncode(true) on root = %q, want /", got)
	}
}

func TestParsePathAndQuery(t *testing.T) {
	p, err := ParsePathAndQuery("/a%20b/c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.String(); got != "/a b/c" {
		t.Errorf("ParsePathAndQuery decoded = %q, want /a b/c", got)
	}
}
