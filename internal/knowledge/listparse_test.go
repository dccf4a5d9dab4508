package knowledge

import (
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`['Antifungal Cream', 'Fluconazole']`, []string{"Antifungal Cream", "Fluconazole"}},
		{`["a", 'b']`, []string{"a", "b"}},
		{` [ ] `, []string{}},
		{`['it\'s', "x"]`, []string{"it's", "x"}},
		{`['trailing',]`, []string{"trailing"}},
		{`['a, b']`, []string{"a, b"}},
	}
	for _, c := range cases {
		got, err := ParseList(c.in)
		if err != nil {
			t.Errorf("ParseList(%q) error: %v", c.in, err)
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParseList(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestParseListRejectsNonLiterals(t *testing.T) {
	for _, in := range []string{
		``,
		`Fluconazole`,
		`[1, 2]`,
		`['a' 'b']`,
		`['unterminated]`,
		`['a'] + __import__('os')`,
		`__import__('os').system('id')`,
	} {
		if _, err := ParseList(in); err == nil {
			t.Errorf("ParseList(%q) should fail", in)
		}
	}
}
