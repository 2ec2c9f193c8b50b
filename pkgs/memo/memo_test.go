package memo

import (
	"errors"
	"testing"
)

func TestGetComputesOnce(t *testing.T) {
	var c Cache
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Get(&c, "answer", compute)
		if err != nil {
			t.Fatalf("Get() returned error: %v", err)
		}
		if got != 42 {
			t.Fatalf("Get() = %d, want 42", got)
		}
	}
	if calls != 1 {
		t.Fatalf("compute called %d times, want 1", calls)
	}
}

func TestGetFreshOwnerHasOwnCache(t *testing.T) {
	var a, b Cache
	if _, err := Get(&a, "k", func() (string, error) { return "from-a", nil }); err != nil {
		t.Fatalf("Get(a) returned error: %v", err)
	}

	got, err := Get(&b, "k", func() (string, error) { return "from-b", nil })
	if err != nil {
		t.Fatalf("Get(b) returned error: %v", err)
	}
	if got != "from-b" {
		t.Fatalf("Get(b) = %q, want %q (must not observe a's cache)", got, "from-b")
	}
}

func TestSetOverridesComputation(t *testing.T) {
	var c Cache
	c.Set("k", "preset")

	got, err := Get(&c, "k", func() (string, error) {
		t.Fatal("compute must not run for a preset key")
		return "", nil
	})
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if got != "preset" {
		t.Fatalf("Get() = %q, want %q", got, "preset")
	}
}

func TestGetErrorIsNotCached(t *testing.T) {
	var c Cache
	calls := 0
	boom := errors.New("boom")
	compute := func() (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}

	if _, err := Get(&c, "k", compute); !errors.Is(err, boom) {
		t.Fatalf("first Get() error = %v, want %v", err, boom)
	}
	if c.Has("k") {
		t.Fatal("failed computation must not be cached")
	}

	got, err := Get(&c, "k", compute)
	if err != nil {
		t.Fatalf("second Get() returned error: %v", err)
	}
	if got != 7 {
		t.Fatalf("second Get() = %d, want 7", got)
	}
	if calls != 2 {
		t.Fatalf("compute called %d times, want 2", calls)
	}
}

func TestReset(t *testing.T) {
	var c Cache
	c.Set("k", 1)
	c.Reset()
	if c.Has("k") {
		t.Fatal("Reset() did not drop cached value")
	}
}
