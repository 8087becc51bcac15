package extract

import (
	"reflect"
	"testing"

	"github.com/resumatch/resumatch/internal/vocab"
)

func newTestExtractor(t *testing.T, tagger EntityTagger) *Extractor {
	t.Helper()
	v, err := vocab.Load()
	if err != nil {
		t.Fatalf("loading vocabulary: %v", err)
	}
	e, err := New(v, tagger)
	if err != nil {
		t.Fatalf("building extractor: %v", err)
	}
	return e
}

func TestExtractSkills(t *testing.T) {
	e := newTestExtractor(t, nil)

	got := e.ExtractSkills("Built services in Python and Go, deployed with Docker on AWS.")
	want := []string{"AWS", "Docker", "Go", "Python"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractSkills = %v, want %v", got, want)
	}
}

func TestExtractSkillsEmptyText(t *testing.T) {
	e := newTestExtractor(t, nil)
	if got := e.ExtractSkills("   \n\t  "); got != nil {
		t.Errorf("ExtractSkills on blank text = %v, want nil", got)
	}
}

func TestDisambiguation(t *testing.T) {
	e := newTestExtractor(t, nil)

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"express blocked by vehicle context", "Drove a Chevy Express van on delivery routes.", false},
		{"express clean", "Built a REST backend with Express and Node.js.", true},
		{"java blocked by coffee", "Served java chip frappuccinos all summer.", false},
		{"java clean", "Wrote backend services in Java.", true},
		{"one clean occurrence wins", "Enjoyed a java chip cookie. Also shipped Java microservices at scale.", true},
		{"python blocked by snake", "Handled a python snake at the zoo.", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skills := e.ExtractSkills(tc.text)
			found := false
			for _, s := range skills {
				if s == "Express" || s == "Java" || s == "Python" {
					found = true
				}
			}
			if found != tc.want {
				t.Errorf("skills = %v, want ambiguous skill present=%v", skills, tc.want)
			}
		})
	}
}

func TestExtractSkillsIdempotent(t *testing.T) {
	e := newTestExtractor(t, nil)

	text := `Served java chip frappuccinos before switching careers. Now I
write Java and Python services, drive an Express van on weekends, and
deploy with Docker on AWS. JavaScript on the side.`

	first := e.ExtractSkills(text)
	second := e.ExtractSkills(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs: %v then %v", first, second)
	}
}

func TestNoPartialWordMatches(t *testing.T) {
	e := newTestExtractor(t, nil)

	got := e.ExtractSkills("Expert in JavaScript development.")
	for _, s := range got {
		if s == "Java" {
			t.Errorf("JavaScript text reported Java: %v", got)
		}
	}
	if len(got) == 0 || got[0] != "JavaScript" {
		t.Errorf("ExtractSkills = %v, want JavaScript reported", got)
	}
}

func TestVariantForms(t *testing.T) {
	e := newTestExtractor(t, nil)

	got := e.ExtractSkills("python3 scripts, a nodejs API and some c++ tooling")
	want := []string{"C++", "Node.js", "Python"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractSkills = %v, want %v", got, want)
	}
}

type stubTagger struct {
	names []string
}

func (s *stubTagger) Tag(string) []string { return s.names }

func TestEntityTaggerAssist(t *testing.T) {
	e := newTestExtractor(t, &stubTagger{names: []string{"Kubernetes", "Not A Skill"}})

	got := e.ExtractSkills("some text without skill mentions at all")
	want := []string{"Kubernetes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractSkills with tagger = %v, want %v", got, want)
	}
}

func TestRequiredYears(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"5+ years of experience with Go", 5},
		{"requires 3 years experience", 3},
		{"10 Years of Experience", 10},
		{"no experience requirement stated", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := RequiredYears(tc.text); got != tc.want {
			t.Errorf("RequiredYears(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestEducationLevel(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"PhD in Computer Science preferred", EducationPhD},
		{"Master's degree required", EducationMaster},
		{"Bachelor of Science in anything", EducationBachelor},
		{"associate's degree accepted", EducationAssociate},
		{"high school diploma", EducationHighSchool},
		{"a degree in a related field", EducationBachelor},
		{"no education mentioned", ""},
	}
	for _, tc := range cases {
		if got := EducationLevel(tc.text); got != tc.want {
			t.Errorf("EducationLevel(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestKeywords(t *testing.T) {
	text := "backend backend backend database database queue the the the for with"
	got := Keywords(text, 2)
	want := []string{"backend", "database"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords = %v, want %v", got, want)
	}

	if got := Keywords("", 5); len(got) != 0 {
		t.Errorf("Keywords on empty text = %v, want none", got)
	}
}

func TestKeywordsTieBreakFirstSeen(t *testing.T) {
	got := Keywords("zebra apple zebra apple mango", 3)
	want := []string{"zebra", "apple", "mango"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords = %v, want %v", got, want)
	}
}
