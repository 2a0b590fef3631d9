package provider

import "testing"

// fakeEnv builds a credential snapshot from a map.
func fakeEnv(vars map[string]string) Env {
	return func(key string) string { return vars[key] }
}

func TestResolver_All_ReflectsSnapshot(t *testing.T) {
	res := NewResolver(fakeEnv(map[string]string{
		"OPENAI_API_KEY": "sk-test",
	}))

	for _, in := range res.All() {
		want := in.Provider == OpenAI
		if in.Available != want {
			t.Errorf("All(): %q available = %v, want %v", in.Provider, in.Available, want)
		}
	}
}

func TestResolver_VariantsFollowBaseCredential(t *testing.T) {
	res := NewResolver(fakeEnv(map[string]string{
		"APIZH_API_KEY": "key",
	}))

	for _, p := range []Provider{Apizh, ApizhCost, ApizhReason} {
		if !res.IsAvailable(p) {
			t.Errorf("IsAvailable(%q) = false, want true (APIZH_API_KEY set)", p)
		}
	}
	if res.IsAvailable(OpenAI) {
		t.Error("IsAvailable(openai) = true, want false")
	}
}

func TestResolver_IsAvailable_AgreesWithAll(t *testing.T) {
	res := NewResolver(fakeEnv(map[string]string{
		"GEMINI_API_KEY": "g",
		"APIZH_API_KEY":  "a",
	}))

	for _, in := range res.All() {
		if got := res.IsAvailable(in.Provider); got != in.Available {
			t.Errorf("IsAvailable(%q) = %v, All() says %v", in.Provider, got, in.Available)
		}
	}
}

func TestResolver_IsAvailable_UnknownIsFalse(t *testing.T) {
	res := NewResolver(fakeEnv(map[string]string{"OPENAI_API_KEY": "x"}))
	if res.IsAvailable(Provider("mystery")) {
		t.Error("IsAvailable(unknown) = true, want false")
	}
}

func TestResolver_Info_AbsentForUnknown(t *testing.T) {
	res := NewResolver(fakeEnv(nil))
	if _, ok := res.Info(Provider("mystery")); ok {
		t.Error("Info(unknown) ok = true, want false")
	}
}

func TestResolver_All_Idempotent(t *testing.T) {
	res := NewResolver(fakeEnv(map[string]string{"OPENAI_API_KEY": "x"}))

	first := res.All()
	second := res.All()
	if len(first) != len(second) {
		t.Fatalf("All() lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("All()[%d] = %+v then %+v, want identical", i, first[i], second[i])
		}
	}
}

func TestResolver_ObservesEnvironmentChanges(t *testing.T) {
	vars := map[string]string{}
	res := NewResolver(fakeEnv(vars))

	if res.IsAvailable(Gemini) {
		t.Fatal("IsAvailable(gemini) = true before key set")
	}
	vars["GEMINI_API_KEY"] = "now-set"
	if !res.IsAvailable(Gemini) {
		t.Error("IsAvailable(gemini) = false after key set; availability must not be cached")
	}
}

func TestResolver_NilEnvDefaultsToProcess(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-process")
	res := NewResolver(nil)
	if !res.IsAvailable(OpenAI) {
		t.Error("NewResolver(nil) should read the process environment")
	}
}
