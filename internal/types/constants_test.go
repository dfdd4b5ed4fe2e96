package types

import "testing"

func containsOrigin(origins []string, want string) bool {
	for _, o := range origins {
		if o == want {
			return true
		}
	}
	return false
}

func TestAllowedOrigins_ReadsEnvLazily(t *testing.T) {
	t.Setenv("CLIENT_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	origins := AllowedOrigins()
	if !containsOrigin(origins, "http://localhost:5173") {
		t.Errorf("expected development default present, got %v", origins)
	}

	// Values set after package init (the .env load happens in main) must
	// still be picked up.
	t.Setenv("CLIENT_URL", "https://app.yeloe.dev")
	t.Setenv("ALLOWED_ORIGINS", "https://staging.yeloe.dev, https://preview.yeloe.dev")

	origins = AllowedOrigins()

	for _, want := range []string{
		"https://app.yeloe.dev",
		"https://staging.yeloe.dev",
		"https://preview.yeloe.dev",
	} {
		if !containsOrigin(origins, want) {
			t.Errorf("expected %s in %v", want, origins)
		}
	}
}
