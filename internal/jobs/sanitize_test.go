package jobs

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  Senior Go Engineer\nAcme  ", want: "Senior Go Engineer\nAcme"},
		{name: "markup", in: "<h2>Backend Engineer</h2><p>Build <b>APIs</b> &amp; tools</p>", want: "Backend Engineer\nBuild APIs & tools"},
		{name: "list", in: "<ul><li>Go</li><li>SQL</li></ul>", want: "- Go\n- SQL"},
		{name: "script", in: "<script>alert(1)</script>Role", want: "Role"},
		{name: "empty", in: "<p> </p>", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plainText(tt.in); got != tt.want {
				t.Fatalf("plainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
