package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRankHooks{}
	r.OnComparison(ctx, "s1", nil)
	r.OnComparison(ctx, "s1", errors.New("out of bounds"))
	r.OnSkip(ctx, "s1", nil)
	r.OnQuery(ctx, "s1", true)
	r.OnRanking(ctx, "s1", 3, false, time.Millisecond)

	s := NoopStoreHooks{}
	s.OnLoad(ctx, "file", true, time.Millisecond)
	s.OnSave(ctx, "redis", 1024, time.Millisecond)
	s.OnError(ctx, "redis", "get", errors.New("connection refused"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Rank().(NoopRankHooks); !ok {
		t.Error("Rank() should return NoopRankHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customRank := &testRankHooks{}
	SetRankHooks(customRank)
	if Rank() != customRank {
		t.Error("SetRankHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	Reset()
	if _, ok := Rank().(NoopRankHooks); !ok {
		t.Error("Reset() should restore NoopRankHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRankHooks{}
	SetRankHooks(custom)
	SetRankHooks(nil)

	if Rank() != custom {
		t.Error("SetRankHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testRankHooks struct{ NoopRankHooks }
type testStoreHooks struct{ NoopStoreHooks }
