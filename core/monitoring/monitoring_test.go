package monitoring

import (
	"errors"
	"testing"
	"time"
)

type fakeMonitor struct {
	errs   []error
	tags   []map[string]string
	panics []any
	flush  int
}

func (f *fakeMonitor) CaptureException(err error, tags map[string]string) {
	f.errs = append(f.errs, err)
	f.tags = append(f.tags, tags)
}
func (f *fakeMonitor) CapturePanic(v any)  { f.panics = append(f.panics, v) }
func (f *fakeMonitor) Flush(time.Duration) { f.flush++ }

func withMonitor(t *testing.T, m Monitor) {
	prev := current
	Init(m)
	t.Cleanup(func() { current = prev })
}

func TestCaptureException(t *testing.T) {
	f := &fakeMonitor{}
	withMonitor(t, f)
	CaptureException(nil, nil)
	CaptureException(errors.New("pool load"), map[string]string{"org_id": "o1"})
	if len(f.errs) != 1 || f.tags[0]["org_id"] != "o1" {
		t.Fatalf("unexpected captures %+v", f)
	}
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	f := &fakeMonitor{}
	withMonitor(t, f)
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected re-panic, got %v", r)
		}
		if len(f.panics) != 1 || f.flush != 1 {
			t.Fatalf("panic not reported: %+v", f)
		}
	}()
	func() {
		defer Recover()
		panic("boom")
	}()
}

func TestInitIgnoresNil(t *testing.T) {
	withMonitor(t, nil)
	if _, ok := Current().(NopMonitor); !ok {
		t.Fatalf("expected nop monitor, got %T", Current())
	}
}
