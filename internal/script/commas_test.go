package script

import "testing"

func TestInsertListCommas(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"single line", `x = [1, 2]`, `x = [1, 2]`},
		{"one per line", "x = [\n  \"a\"\n  15\n  true\n]", "x = [\n  \"a\",\n  15,\n  true\n]"},
		{"already separated", "x = [\n  1,\n  2,\n]", "x = [\n  1,\n  2,\n]"},
		{"object untouched", "x = {\n  a = 1\n  b = 2\n}", "x = {\n  a = 1\n  b = 2\n}"},
		{"comment kept after comma", "x = [\n  1 # one\n  2\n]", "x = [\n  1, # one\n  2\n]"},
		{"string with bracket", "x = [\n  \"]\"\n  \"b\"\n]", "x = [\n  \"]\",\n  \"b\"\n]"},
		{"operator continues", "x = [\n  1 +\n  2\n]", "x = [\n  1 +\n  2\n]"},
		{"nested objects", "x = [\n  { a = 1 }\n  { a = 2 }\n]", "x = [\n  { a = 1 },\n  { a = 2 }\n]"},
	}
	for _, tc := range cases {
		got := insertListCommas(tc.in)
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
		if again := insertListCommas(got); again != got {
			t.Fatalf("%s: not idempotent: %q", tc.name, again)
		}
	}
}
