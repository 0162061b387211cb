package cache

import (
	"testing"
	"time"
)

func openTest(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetMissingTag(t *testing.T) {
	c := openTest(t)

	payload, fresh, err := c.Get(TagCategoryList, time.Minute)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if payload != nil || fresh {
		t.Errorf("missing tag = (%q, %v), want (nil, false)", payload, fresh)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c := openTest(t)

	if err := c.Put(TagDoctorList, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	payload, fresh, err := c.Get(TagDoctorList, time.Minute)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !fresh {
		t.Error("just-written entry should be fresh")
	}
	if string(payload) != `[{"id":"1"}]` {
		t.Errorf("payload = %s", payload)
	}
}

func TestInvalidateMarksStale(t *testing.T) {
	c := openTest(t)
	c.Put(TagCategoryList, []byte("[]"))

	if err := c.Invalidate(TagCategoryList); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	payload, fresh, err := c.Get(TagCategoryList, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Error("invalidated entry must not be fresh")
	}
	if payload == nil {
		t.Error("stale entry should still return its payload")
	}

	// A later Put makes the tag fresh again.
	c.Put(TagCategoryList, []byte(`["x"]`))
	if _, fresh, _ := c.Get(TagCategoryList, time.Minute); !fresh {
		t.Error("Put after Invalidate should reset freshness")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := openTest(t)
	c.Put(TagRequestList, []byte("[]"))

	if _, fresh, _ := c.Get(TagRequestList, -time.Second); fresh {
		t.Error("entry older than TTL must not be fresh")
	}
}

func TestInvalidateUnknownTag(t *testing.T) {
	c := openTest(t)
	if err := c.Invalidate("no/such/tag"); err != nil {
		t.Errorf("Invalidate of unknown tag errored: %v", err)
	}
}

func TestClear(t *testing.T) {
	c := openTest(t)
	c.Put(TagCategoryList, []byte("[]"))
	c.Put(DetailTag("doctor", "1"), []byte("{}"))

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if payload, _, _ := c.Get(TagCategoryList, time.Minute); payload != nil {
		t.Error("Clear left entries behind")
	}
}
