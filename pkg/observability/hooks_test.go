package observability

import (
	"context"
	"testing"
	"time"
)

type recordPipelineHooks struct {
	NoopPipelineHooks
	layoutStarts int
}

func (h *recordPipelineHooks) OnLayoutStart(context.Context, int) { h.layoutStarts++ }

type recordCacheHooks struct{ NoopCacheHooks }
type recordHTTPHooks struct{ NoopHTTPHooks }

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnGenerateStart(ctx, "mindmap", "en")
	p.OnGenerateComplete(ctx, "mindmap", "en", time.Second, nil)
	p.OnLayoutStart(ctx, 7)
	p.OnLayoutComplete(ctx, 7, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "tree", 512)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "ai.mindgrid.dev", "/v1/ai/mindmap/generate")
	h.OnResponse(ctx, "POST", "ai.mindgrid.dev", "/v1/ai/mindmap/generate", 200, time.Second)
	h.OnError(ctx, "POST", "ai.mindgrid.dev", "/v1/ai/mindmap/generate", nil)
}

func TestRegistryDefaultsAndReset(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to the no-op implementation")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to the no-op implementation")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to the no-op implementation")
	}

	custom := &recordPipelineHooks{}
	SetPipelineHooks(custom)
	SetCacheHooks(&recordCacheHooks{})
	SetHTTPHooks(&recordHTTPHooks{})

	Pipeline().OnLayoutStart(context.Background(), 3)
	if custom.layoutStarts != 1 {
		t.Errorf("registered hooks should receive events, got %d", custom.layoutStarts)
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore the no-op pipeline hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore the no-op cache hooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &recordPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("registering nil hooks should keep the previous registration")
	}
}
