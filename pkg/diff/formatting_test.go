package diff

import "testing"

func TestIsFormattingOnly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		oldText string
		newText string
		want    bool
	}{
		{"spacing change", "{ return a + b; }", "{  return   a +   b;  }", true},
		{"newline change", "{ return 1; }", "{\n    return 1;\n}", true},
		{"token change", "{ return a + b; }", "{ return a - b; }", false},
		{"identical", "{ return 1; }", "{ return 1; }", true},
		{"old absent", "", "{ return 1; }", false},
		{"new absent", "{ return 1; }", "", false},
		{"both absent", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := IsFormattingOnly(tc.oldText, tc.newText)
			if got != tc.want {
				t.Errorf("Expected %t, got %t", tc.want, got)
			}
		})
	}
}
