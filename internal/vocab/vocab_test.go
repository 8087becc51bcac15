package vocab

import "testing"

func TestLoad(t *testing.T) {
	v, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(v.Skills()) == 0 {
		t.Fatal("vocabulary is empty")
	}
	if len(v.Categories()) < 10 {
		t.Errorf("got %d categories, want at least 10", len(v.Categories()))
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	v, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, name := range []string{"python", "PYTHON", "Python"} {
		s, ok := v.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q): not found", name)
		}
		if s.Name != "Python" || s.Category != "programming" {
			t.Errorf("Lookup(%q) = %+v, want Python/programming", name, s)
		}
	}

	if _, ok := v.Lookup("underwater basket weaving"); ok {
		t.Error("Lookup found a skill that is not in the vocabulary")
	}
}

func TestBlockers(t *testing.T) {
	v, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := v.Blockers("Express"); len(got) == 0 {
		t.Error("Express should carry disambiguation terms")
	}
	if got := v.Blockers("Go"); got != nil {
		t.Errorf("Go should have no disambiguation terms, got %v", got)
	}
}

func TestVariants(t *testing.T) {
	v, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cases := map[string]string{
		"node.js": "Node.js",
		"nodejs":  "Node.js",
		"python3": "Python",
		"c++":     "C++",
	}
	for input, want := range cases {
		var got string
		for _, variant := range v.Variants() {
			if variant.Pattern.MatchString(input) {
				got = variant.Canonical
				break
			}
		}
		if got != want {
			t.Errorf("variant match for %q = %q, want %q", input, got, want)
		}
	}
}

func TestCategorize(t *testing.T) {
	v, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	groups := v.Categorize([]string{"Python", "Docker", "Interpretive Dance"})
	if got := groups["programming"]; len(got) != 1 || got[0] != "Python" {
		t.Errorf("programming group = %v, want [Python]", got)
	}
	if got := groups["cloud"]; len(got) != 1 || got[0] != "Docker" {
		t.Errorf("cloud group = %v, want [Docker]", got)
	}
	if got := groups["other"]; len(got) != 1 || got[0] != "Interpretive Dance" {
		t.Errorf("other group = %v, want [Interpretive Dance]", got)
	}
}
