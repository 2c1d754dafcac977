package htmltext

import "testing"

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"tags stripped",
			"<html><body><h1>DTU 60.11</h1><p>Les canalisations doivent être posées.</p></body></html>",
			"DTU 60.11 Les canalisations doivent être posées.",
		},
		{
			"script and style skipped",
			"<p>Texte utile.</p><script>var x = 1;</script><style>p{color:red}</style>",
			"Texte utile.",
		},
		{
			"whitespace collapsed",
			"<div>  un \n\n texte   aéré  </div>",
			"un texte aéré",
		},
		{
			"plain text unchanged",
			"Pas de balises ici.",
			"Pas de balises ici.",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Extract(tc.in); got != tc.want {
				t.Errorf("Extract(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
