package scanner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"resellscan/internal/models"

	"go.uber.org/zap"
)

type fakeResolver struct {
	fn    func(barcode, userID string) (*models.ScanResult, error)
	calls int32
}

func (f *fakeResolver) Resolve(ctx context.Context, barcode, userID string) (*models.ScanResult, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.fn(barcode, userID)
}

func okResolver() *fakeResolver {
	return &fakeResolver{fn: func(barcode, userID string) (*models.ScanResult, error) {
		return &models.ScanResult{
			Title:          "Resolved " + barcode,
			Category:       "Books",
			ItemType:       models.ItemTypeBooks,
			Recommendation: models.RecommendationKeep,
			Margin:         "30%",
			UserID:         userID,
		}, nil
	}}
}

// countingDecoder never finds a barcode but counts attempts.
type countingDecoder struct {
	calls int32
}

func (d *countingDecoder) Decode(frame Frame) ([]Detection, error) {
	atomic.AddInt32(&d.calls, 1)
	return nil, nil
}

// scriptDecoder misses until the scripted attempt, then detects.
type scriptDecoder struct {
	detectOn int32
	calls    int32
	value    string
}

func (d *scriptDecoder) Decode(frame Frame) ([]Detection, error) {
	n := atomic.AddInt32(&d.calls, 1)
	if n < d.detectOn {
		return nil, errors.New("no barcode in frame")
	}
	return []Detection{{RawValue: d.value, Format: "ean_13"}}, nil
}

type deniedSource struct{}

func (deniedSource) Open(ctx context.Context) error { return ErrCameraDenied }
func (deniedSource) Ready() bool                    { return false }
func (deniedSource) Frame() (Frame, error)          { return nil, errors.New("closed") }
func (deniedSource) Close()                         {}

type panicChimer struct{}

func (panicChimer) Chime() { panic("audio device unavailable") }

func newTestController(t *testing.T, resolver Resolver, decoder Decoder) (*Controller, *SimulatedSource) {
	t.Helper()
	source := NewSimulatedSource()
	c := NewController(source, decoder, resolver, NewStaticFallback(nil), nil,
		Config{PollInterval: time.Millisecond, HistoryLimit: 10}, "tester@example.com", zap.NewNop())
	return c, source
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestManualScanAppendsExactlyOnce(t *testing.T) {
	c, _ := newTestController(t, okResolver(), nil)

	c.Submit(context.Background(), "  9780135957059  ")

	history := c.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].Barcode != "9780135957059" {
		t.Errorf("expected trimmed barcode kept verbatim, got %q", history[0].Barcode)
	}
	if c.Current() == nil {
		t.Error("expected a displayed result after a successful scan")
	}
}

func TestManualScanEmptyInputIsNoop(t *testing.T) {
	resolver := okResolver()
	c, _ := newTestController(t, resolver, nil)

	c.Submit(context.Background(), "   ")

	if got := atomic.LoadInt32(&resolver.calls); got != 0 {
		t.Errorf("expected no lookup for empty input, got %d calls", got)
	}
	if len(c.History()) != 0 {
		t.Error("expected empty history")
	}
}

func TestNotFoundClearsResultWithoutHistory(t *testing.T) {
	notFound := false
	resolver := &fakeResolver{fn: func(barcode, userID string) (*models.ScanResult, error) {
		if notFound {
			return nil, ErrProductNotFound
		}
		return &models.ScanResult{Title: "Known", ItemType: models.ItemTypeOther, Recommendation: models.RecommendationKeep}, nil
	}}
	c, _ := newTestController(t, resolver, nil)

	c.Submit(context.Background(), "1111111111111")
	if c.Current() == nil || len(c.History()) != 1 {
		t.Fatal("expected first scan to succeed")
	}

	notFound = true
	c.Submit(context.Background(), "2222222222222")

	if c.Current() != nil {
		t.Error("expected displayed result cleared on not-found")
	}
	if got := len(c.History()); got != 1 {
		t.Errorf("expected history unchanged on not-found, got %d entries", got)
	}
}

func TestLookupFailureUsesFallbackTable(t *testing.T) {
	resolver := &fakeResolver{fn: func(barcode, userID string) (*models.ScanResult, error) {
		return nil, errors.New("connection refused")
	}}
	source := NewSimulatedSource()
	c := NewController(source, nil, resolver, DefaultFallback(), nil,
		Config{PollInterval: time.Millisecond, HistoryLimit: 10}, "tester@example.com", zap.NewNop())

	c.Submit(context.Background(), "0000000000001")

	want, ok := DefaultFallback().Lookup("0000000000001")
	if !ok {
		t.Fatal("fallback table must contain the test barcode")
	}
	got := c.Current()
	if got == nil {
		t.Fatal("expected a fallback result to be displayed")
	}
	if got.UserID != "tester@example.com" {
		t.Errorf("expected user id attached, got %q", got.UserID)
	}
	got.UserID = ""
	if *got != want {
		t.Errorf("expected fallback table entry, got %+v", got)
	}
	if len(c.History()) != 1 {
		t.Error("expected fallback result appended to history")
	}
}

func TestLookupFailureWithoutTableEntryUsesDefault(t *testing.T) {
	resolver := &fakeResolver{fn: func(barcode, userID string) (*models.ScanResult, error) {
		return nil, errors.New("timeout")
	}}
	c, _ := newTestController(t, resolver, nil)

	c.Submit(context.Background(), "no-such-barcode")

	got := c.Current()
	if got == nil {
		t.Fatal("expected the default result to be displayed")
	}
	if got.Title != "Unknown Item" || got.Recommendation != models.RecommendationDiscard {
		t.Errorf("expected the hard-coded default result, got %+v", got)
	}
}

func TestCameraScanDetectsAndResolves(t *testing.T) {
	decoder := &scriptDecoder{detectOn: 3, value: "4006381333931"}
	c, source := newTestController(t, okResolver(), decoder)
	ctx := context.Background()

	c.Start(ctx)
	for i := 0; i < 20; i++ {
		source.Push(Frame{0x01})
	}
	c.StartScan(ctx)

	waitFor(t, func() bool { return len(c.History()) == 1 }, "expected exactly one history entry after detection")
	waitFor(t, func() bool { return !c.Scanning() }, "expected scanning to stop after detection")

	if got := c.History()[0].Barcode; got != "4006381333931" {
		t.Errorf("expected detected barcode recorded, got %q", got)
	}
}

func TestStopScanCancelsPendingDecode(t *testing.T) {
	decoder := &countingDecoder{}
	c, source := newTestController(t, okResolver(), decoder)
	ctx := context.Background()

	c.Start(ctx)
	for i := 0; i < 200; i++ {
		source.Push(Frame{0x01})
	}
	c.StartScan(ctx)
	waitFor(t, func() bool { return atomic.LoadInt32(&decoder.calls) > 0 }, "expected the loop to run")

	c.StopScan()
	after := atomic.LoadInt32(&decoder.calls)
	time.Sleep(20 * time.Millisecond)

	if got := atomic.LoadInt32(&decoder.calls); got != after {
		t.Errorf("expected no decode attempts after StopScan returned, got %d more", got-after)
	}
	if c.Scanning() {
		t.Error("expected scanning state cleared")
	}
	if len(c.History()) != 0 {
		t.Error("expected no history entries from a cancelled scan")
	}
}

func TestStartScanWhileResolvingIsIgnored(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	resolver := &fakeResolver{fn: func(barcode, userID string) (*models.ScanResult, error) {
		close(started)
		<-release
		return &models.ScanResult{Title: "Slow", ItemType: models.ItemTypeOther, Recommendation: models.RecommendationKeep}, nil
	}}
	c, _ := newTestController(t, resolver, nil)

	go c.Submit(context.Background(), "5550001112223")
	<-started

	// A second submission while the first resolution is in flight must not
	// start another pipeline invocation.
	c.Submit(context.Background(), "9990001112223")
	close(release)

	waitFor(t, func() bool { return len(c.History()) == 1 }, "expected exactly one history entry")
	if got := atomic.LoadInt32(&resolver.calls); got != 1 {
		t.Errorf("expected a single resolve invocation, got %d", got)
	}
}

func TestCameraDeniedSurfacesPersistentError(t *testing.T) {
	c := NewController(deniedSource{}, &countingDecoder{}, okResolver(), NewStaticFallback(nil), nil,
		Config{PollInterval: time.Millisecond, HistoryLimit: 10}, "", zap.NewNop())

	c.Start(context.Background())

	if c.CameraError() == "" {
		t.Error("expected a camera error message")
	}
	if c.Scanning() {
		t.Error("expected scanning forced back to idle")
	}
}

func TestMissingDecoderSurfacesError(t *testing.T) {
	c, source := newTestController(t, okResolver(), nil)
	ctx := context.Background()

	c.Start(ctx)
	source.Push(Frame{0x01})
	c.StartScan(ctx)

	if c.CameraError() == "" {
		t.Error("expected an error when no decode capability exists")
	}
	if c.Scanning() {
		t.Error("expected scanning not to start without a decoder")
	}
}

func TestChimeFailureIsSilent(t *testing.T) {
	source := NewSimulatedSource()
	c := NewController(source, nil, okResolver(), NewStaticFallback(nil), panicChimer{},
		Config{PollInterval: time.Millisecond, HistoryLimit: 10}, "", zap.NewNop())
	c.SetSound(true)

	c.Submit(context.Background(), "3334445556667")

	if len(c.History()) != 1 {
		t.Error("expected the scan to complete despite the chime panicking")
	}
}

func TestClearFilterRestoresFullHistory(t *testing.T) {
	c, _ := newTestController(t, okResolver(), nil)
	ctx := context.Background()
	c.Submit(ctx, "1000000000001")
	c.Submit(ctx, "1000000000002")

	filter := NewFilter()
	filter.ItemType = "video_games"
	c.SetFilter(filter)
	if got := len(c.FilteredHistory()); got != 0 {
		t.Fatalf("expected filter to exclude books, got %d", got)
	}

	c.ClearFilter()
	if got := len(c.FilteredHistory()); got != 2 {
		t.Errorf("expected cleared filter to return full history, got %d", got)
	}
}

func TestModeSwitchReleasesCamera(t *testing.T) {
	c, source := newTestController(t, okResolver(), &countingDecoder{})
	ctx := context.Background()

	c.Start(ctx)
	source.Push(Frame{0x01})
	if !source.Ready() {
		t.Fatal("expected source ready after open")
	}

	c.SetMode(ctx, ModeManual)
	if source.Ready() {
		t.Error("expected camera released when switching to manual mode")
	}
	if c.Mode() != ModeManual {
		t.Errorf("expected manual mode, got %q", c.Mode())
	}
}
