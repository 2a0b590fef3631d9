package route

import (
	"errors"
	"strings"
	"testing"

	"github.com/phamducminh/relay-cli/internal/provider"
)

// resolverWith builds a resolver whose snapshot has exactly the given
// environment variables set.
func resolverWith(vars map[string]string) *provider.Resolver {
	return provider.NewResolver(func(key string) string { return vars[key] })
}

func TestNext_FallbackWalk(t *testing.T) {
	// Preference list for ask is [apizh-cost, openai, gemini, apizh] and
	// only the OpenAI and Gemini credentials are present.
	res := resolverWith(map[string]string{
		"OPENAI_API_KEY": "o",
		"GEMINI_API_KEY": "g",
	})

	p, ok, err := Next(res, TaskAsk, "")
	if err != nil || !ok {
		t.Fatalf("Next(ask) = %q, %v, %v; want openai", p, ok, err)
	}
	if p != provider.OpenAI {
		t.Errorf("Next(ask) = %q, want %q", p, provider.OpenAI)
	}

	p, ok, err = Next(res, TaskAsk, provider.OpenAI)
	if err != nil || !ok {
		t.Fatalf("Next(ask, openai) = %q, %v, %v; want gemini", p, ok, err)
	}
	if p != provider.Gemini {
		t.Errorf("Next(ask, openai) = %q, want %q", p, provider.Gemini)
	}

	_, ok, err = Next(res, TaskAsk, provider.Gemini)
	if err != nil {
		t.Fatalf("Next(ask, gemini) unexpected error: %v", err)
	}
	if ok {
		t.Error("Next(ask, gemini) found a provider, want exhausted (apizh unavailable)")
	}
}

func TestNext_MostPreferredAvailable(t *testing.T) {
	res := resolverWith(map[string]string{
		"OPENAI_API_KEY": "o",
		"GEMINI_API_KEY": "g",
		"APIZH_API_KEY":  "a",
	})

	for _, task := range Tasks() {
		prefs, err := Preferences(task)
		if err != nil {
			t.Fatalf("Preferences(%q): %v", task, err)
		}
		p, ok, err := Next(res, task, "")
		if err != nil || !ok {
			t.Fatalf("Next(%q) = %q, %v, %v", task, p, ok, err)
		}
		if p != prefs[0] {
			t.Errorf("Next(%q) = %q, want head of list %q when all are available", task, p, prefs[0])
		}
	}
}

func TestNext_NeverReselectsEarlierEntries(t *testing.T) {
	res := resolverWith(map[string]string{
		"OPENAI_API_KEY": "o",
		"GEMINI_API_KEY": "g",
		"APIZH_API_KEY":  "a",
	})

	prefs, _ := Preferences(TaskAsk)
	for i, current := range prefs {
		p, ok, err := Next(res, TaskAsk, current)
		if err != nil {
			t.Fatalf("Next(ask, %q): %v", current, err)
		}
		if !ok {
			if i != len(prefs)-1 {
				t.Errorf("Next(ask, %q) exhausted early", current)
			}
			continue
		}
		if p != prefs[i+1] {
			t.Errorf("Next(ask, %q) = %q, want %q (index after current)", current, p, prefs[i+1])
		}
	}
}

func TestNext_NoneAvailable(t *testing.T) {
	res := resolverWith(nil)

	currents := []provider.Provider{"", provider.ApizhCost, provider.OpenAI, provider.Gemini, provider.Apizh}
	for _, current := range currents {
		_, ok, err := Next(res, TaskAsk, current)
		if err != nil {
			t.Fatalf("Next(ask, %q): %v", current, err)
		}
		if ok {
			t.Errorf("Next(ask, %q) found a provider with no credentials set", current)
		}
	}
}

func TestNext_UnknownTask(t *testing.T) {
	res := resolverWith(map[string]string{"OPENAI_API_KEY": "o"})

	_, _, err := Next(res, Task("nonexistent"), "")
	if !errors.Is(err, ErrUnknownTask) {
		t.Errorf("Next(nonexistent) error = %v, want ErrUnknownTask", err)
	}
}

func TestNext_CurrentNotInListScansFromHead(t *testing.T) {
	res := resolverWith(map[string]string{
		"OPENAI_API_KEY": "o",
		"APIZH_API_KEY":  "a",
	})

	// apizh-reason is a valid provider but not in the ask list; the scan
	// restarts at the head rather than erroring.
	p, ok, err := Next(res, TaskAsk, provider.ApizhReason)
	if err != nil || !ok {
		t.Fatalf("Next(ask, apizh-reason) = %q, %v, %v", p, ok, err)
	}
	if p != provider.ApizhCost {
		t.Errorf("Next(ask, apizh-reason) = %q, want %q (head of list)", p, provider.ApizhCost)
	}
}

func TestNext_Deterministic(t *testing.T) {
	res := resolverWith(map[string]string{"GEMINI_API_KEY": "g"})

	first, ok1, _ := Next(res, TaskSearch, "")
	second, ok2, _ := Next(res, TaskSearch, "")
	if first != second || ok1 != ok2 {
		t.Errorf("Next not deterministic: (%q,%v) then (%q,%v)", first, ok1, second, ok2)
	}
}

func TestPreferences_ReferentialIntegrity(t *testing.T) {
	for _, task := range Tasks() {
		prefs, err := Preferences(task)
		if err != nil {
			t.Fatalf("Preferences(%q): %v", task, err)
		}
		if len(prefs) == 0 {
			t.Errorf("Preferences(%q) is empty; every task needs at least one provider", task)
		}
		seen := make(map[provider.Provider]bool)
		for _, p := range prefs {
			if !provider.Known(p) {
				t.Errorf("Preferences(%q) references unknown provider %q", task, p)
			}
			if seen[p] {
				t.Errorf("Preferences(%q) lists %q twice", task, p)
			}
			seen[p] = true
		}
	}
}

func TestDescribe(t *testing.T) {
	res := resolverWith(map[string]string{"OPENAI_API_KEY": "o"})

	out, err := Describe(res, TaskAsk)
	if err != nil {
		t.Fatalf("Describe(ask): %v", err)
	}
	if !strings.Contains(out, "openai") || !strings.Contains(out, "available") {
		t.Errorf("Describe(ask) missing available provider:\n%s", out)
	}
	if !strings.Contains(out, "APIZH_API_KEY") {
		t.Errorf("Describe(ask) should name the missing credential:\n%s", out)
	}

	if _, err := Describe(res, Task("nonexistent")); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("Describe(nonexistent) error = %v, want ErrUnknownTask", err)
	}
}
