package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Eiffel   Tower ", "Eiffel Tower"},
		{"Champ de Mars\t5\nParis", "Champ de Mars 5 Paris"},
		{"<b>Big Ben</b>, London", "Big Ben, London"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Rome", "alert(1)Rome"},
		{"Marks &amp; Spencer", "Marks & Spencer"},
		{"Zürich\x00HB", "Zürich HB"},
	}

	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Fatalf("Text(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
