package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type fakeServer struct {
	listenErr   error
	listenBlock chan struct{}
	shutdownErr error
	shutdownCh  chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{listenBlock: make(chan struct{}), shutdownCh: make(chan struct{}, 1)}
}

func (f *fakeServer) ListenAndServe() error {
	<-f.listenBlock
	if f.listenErr != nil {
		return f.listenErr
	}
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	close(f.listenBlock)
	f.shutdownCh <- struct{}{}
	return f.shutdownErr
}

func TestServiceShutsDownOnContextCancellation(t *testing.T) {
	f := newFakeServer()
	svc := New("test", f, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected ctx.Err() wrapping context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestServiceReturnsErrorWhenListenFails(t *testing.T) {
	f := newFakeServer()
	f.listenErr = errors.New("bind failed")
	close(f.listenBlock)
	svc := New("test", f, time.Second)

	err := svc.Serve(context.Background())
	if err == nil {
		t.Fatal("expected an error when ListenAndServe fails")
	}
}

func TestServiceDefaultsNameAndTimeout(t *testing.T) {
	svc := New("", newFakeServer(), 0)
	if svc.String() != "http-server" {
		t.Errorf("expected default name, got %q", svc.String())
	}
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("expected default shutdown timeout, got %v", svc.shutdownTimeout)
	}
}
