package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"editorjump/internal/host"
	"editorjump/internal/panel"
	"editorjump/internal/view"
)

type fakeSink struct {
	mu       sync.Mutex
	handled  []panel.Action
	detached []panel.Surface
	got      chan struct{}
}

func newFakeSink() *fakeSink {
	return &fakeSink{got: make(chan struct{}, 8)}
}

func (s *fakeSink) Handle(_ context.Context, a panel.Action) {
	s.mu.Lock()
	s.handled = append(s.handled, a)
	s.mu.Unlock()
	s.got <- struct{}{}
}

func (s *fakeSink) Detach(surface panel.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = append(s.detached, surface)
}

func quietOptions() Options {
	return Options{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clipboard: func(string) error { return nil },
	}
}

func TestHost_DialogWithoutSurface(t *testing.T) {
	h := NewHost(quietOptions())

	_, err := h.ShowOpenDialog(context.Background(), host.FileDialogOptions{})
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("err = %v, want ErrNoSurface", err)
	}

	// notifications without a surface are only logged
	h.Info("hello")
	h.Error("oops")
}

func TestHost_FactoryTracksCurrent(t *testing.T) {
	h := NewHost(quietOptions())
	sink := newFakeSink()

	s, err := h.Factory()(context.Background(), sink)
	if err != nil {
		t.Fatalf("Factory() error = %v", err)
	}
	surface, ok := s.(*Surface)
	if !ok {
		t.Fatalf("surface = %T, want *Surface", s)
	}
	if h.Current() != surface {
		t.Error("Current() should return the new surface")
	}

	surface.close()
	if h.Current() != nil {
		t.Error("Current() should be nil once the surface has exited")
	}
}

func TestHost_NotifyQueuesToast(t *testing.T) {
	h := NewHost(quietOptions())
	s, _ := h.Factory()(context.Background(), newFakeSink())
	surface := s.(*Surface)

	h.Info("saved")

	select {
	case msg := <-surface.events:
		toast, ok := msg.(toastMsg)
		if !ok || toast.message != "saved" {
			t.Errorf("event = %#v, want toast", msg)
		}
	default:
		t.Fatal("Info should queue a toast")
	}
}

func TestHost_DialogReply(t *testing.T) {
	h := NewHost(quietOptions())
	s, _ := h.Factory()(context.Background(), newFakeSink())
	surface := s.(*Surface)

	go func() {
		msg := <-surface.events
		req := msg.(openDialogMsg)
		req.reply <- []string{"/usr/bin/idea"}
	}()

	paths, err := h.ShowOpenDialog(context.Background(), host.FileDialogOptions{CanSelectFiles: true})
	if err != nil {
		t.Fatalf("ShowOpenDialog() error = %v", err)
	}
	if len(paths) != 1 || paths[0] != "/usr/bin/idea" {
		t.Errorf("paths = %v", paths)
	}
}

func TestHost_DialogSurfaceExits(t *testing.T) {
	h := NewHost(quietOptions())
	s, _ := h.Factory()(context.Background(), newFakeSink())
	surface := s.(*Surface)

	go func() {
		<-surface.events
		surface.close()
	}()

	paths, err := h.ShowOpenDialog(context.Background(), host.FileDialogOptions{})
	if err != nil || paths != nil {
		t.Errorf("ShowOpenDialog() = %v, %v; want nil, nil", paths, err)
	}
}

func TestSurface_SendAfterClose(t *testing.T) {
	s := newSurface(context.Background(), newFakeSink(), quietOptions().withDefaults())
	s.close()

	done := make(chan struct{})
	go func() {
		for range eventBuffer + 1 {
			s.Render(view.Model{})
		}
		s.Post(panel.SetPath{Path: "/x"})
		s.Dispose()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sending to a closed surface blocked")
	}
}

func TestSurface_DispatchInOrder(t *testing.T) {
	sink := newFakeSink()
	s := newSurface(context.Background(), sink, quietOptions().withDefaults())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.dispatch(ctx)

	s.submit(panel.SelectIDE{Name: "IDEA"})
	s.submit(panel.RemoveIDE{Name: "Fleet"})

	for range 2 {
		select {
		case <-sink.got:
		case <-time.After(2 * time.Second):
			t.Fatal("action was not dispatched")
		}
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if _, ok := sink.handled[0].(panel.SelectIDE); !ok {
		t.Errorf("first action = %T, want SelectIDE", sink.handled[0])
	}
	if _, ok := sink.handled[1].(panel.RemoveIDE); !ok {
		t.Errorf("second action = %T, want RemoveIDE", sink.handled[1])
	}
}

func TestSurface_ModelDetach(t *testing.T) {
	sink := newFakeSink()
	s := newSurface(context.Background(), sink, quietOptions().withDefaults())

	s.model.Update(keyMsg("q"))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.detached) != 1 || sink.detached[0] != s {
		t.Errorf("detached = %v, want the surface", sink.detached)
	}
}

func TestHost_SetStatusReachesNewSurface(t *testing.T) {
	h := NewHost(quietOptions())
	h.SetStatus("⚡ GoLand")

	s, _ := h.Factory()(context.Background(), newFakeSink())
	surface := s.(*Surface)

	select {
	case msg := <-surface.events:
		if st, ok := msg.(statusMsg); !ok || st.text != "⚡ GoLand" {
			t.Errorf("event = %#v, want status", msg)
		}
	default:
		t.Fatal("new surface should receive the last status")
	}
}
