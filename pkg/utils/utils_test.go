package utils

import "testing"

func TestHTTPHelper_BuildHeaders(t *testing.T) {
	h := NewHTTPHelper("")

	headers := h.BuildHeaders(map[string]string{"accept": "text/csv", "x-api-key": "k"})

	if headers["User-Agent"] != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", headers["User-Agent"])
	}

	if headers["Accept"] != "text/csv" {
		t.Errorf("Expected Accept override, got %q", headers["Accept"])
	}

	if headers["X-Api-Key"] != "k" {
		t.Errorf("Expected canonical X-Api-Key header, got %v", headers)
	}
}

func TestHTTPHelper_IsSuccess(t *testing.T) {
	h := NewHTTPHelper("agent")

	for code, want := range map[int]bool{199: false, 200: true, 204: true, 299: true, 301: false, 404: false, 500: false} {
		if got := h.IsSuccess(code); got != want {
			t.Errorf("IsSuccess(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestStringHelper_Snippet(t *testing.T) {
	s := NewStringHelper()

	got := s.Snippet([]byte("  upstream\n\terror   page body "), 14)
	if got != "upstream error..." {
		t.Errorf("Snippet = %q", got)
	}

	if got := s.TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString = %q, want short", got)
	}
}

func TestSHA256Hex(t *testing.T) {
	got := SHA256Hex([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

	if got != want {
		t.Errorf("SHA256Hex = %s, want %s", got, want)
	}
}
