package render

import (
	"sync"
	"testing"
)

func TestCacheKey(t *testing.T) {
	base := DefaultOptions()

	if cacheKey(base) == cacheKey(base.WithWidth(100)) {
		t.Error("different widths should produce different keys")
	}
	if cacheKey(base) == cacheKey(base.WithStyle(StyleLight)) {
		t.Error("different styles should produce different keys")
	}
	if cacheKey(base) != cacheKey(DefaultOptions()) {
		t.Error("same options should produce same key")
	}
}

func TestPoolGetAndPut(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()

	renderer, err := globalPool.get(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renderer == nil {
		t.Fatal("expected non-nil renderer")
	}
	if CacheSize() != 1 {
		t.Errorf("expected pool count 1, got %d", CacheSize())
	}

	globalPool.put(opts, renderer)
	globalPool.put(opts, nil)

	if _, err := globalPool.get(opts.WithWidth(40)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("expected pool count 2, got %d", CacheSize())
	}
}

func TestPool_InvalidStylePath(t *testing.T) {
	ClearCache()
	defer ClearCache()

	if _, err := globalPool.get(DefaultOptions().WithStyle("/nonexistent/style.json")); err == nil {
		t.Error("expected error for missing style file")
	}
}

func TestMarkdown_Concurrent(t *testing.T) {
	ClearCache()
	defer ClearCache()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("**bold** and `code`", DefaultOptions()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render failed: %v", err)
	}
}
