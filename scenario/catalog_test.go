package scenario

import "testing"

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	want := []string{"bakery", "supermarket", "restaurant", "hotel", "transportation", "freeplay"}

	list := c.List()
	if len(list) != len(want) {
		t.Fatalf("expected %d scenarios, got %d", len(want), len(list))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("scenario %d: expected %s, got %s", i, id, list[i].ID)
		}
		if list[i].Greeting("french") == "" || list[i].Greeting("german") == "" {
			t.Fatalf("scenario %s is missing a greeting", id)
		}
	}

	s, ok := c.Get("transportation")
	if !ok || s.Name != "Public Transportation" || s.Image != "🚆" {
		t.Fatalf("unexpected transportation scenario: %+v", s)
	}
	if _, ok := c.Get("moon"); ok {
		t.Fatalf("expected unknown scenario to be missing")
	}
}

func TestLanguageName(t *testing.T) {
	c := Default()
	if got := c.LanguageName("german"); got != "German" {
		t.Fatalf("expected German, got %s", got)
	}
	if got := c.LanguageName("spanish"); got != "Spanish" {
		t.Fatalf("expected Spanish, got %s", got)
	}
}

func TestParse_RejectsDuplicates(t *testing.T) {
	doc := []byte("scenarios:\n  - id: bakery\n  - id: bakery\n")
	if _, err := Parse(doc); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
