package websocket

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/util"
)

var errNoHandler = stderrors.New("websocket: no handler subscribed")

// Options tune dialing and reconnect backoff.
type Options struct {
	HandshakeTimeout time.Duration
	MinBackoff       time.Duration
	MaxBackoff       time.Duration
}

// StatusReporter receives feed connectivity keyed by the feed source, e.g.
// "websocket:quotes". The gRPC health server satisfies it.
type StatusReporter interface {
	InitService(service string)
	MarkNotServing(service string)
}

type nopStatus struct{}

func (nopStatus) InitService(string)    {}
func (nopStatus) MarkNotServing(string) {}

// feed reads JSON text frames of type T from one websocket URL and hands
// them to the subscribed handler. It redials with exponential backoff until
// stopped.
type feed[T any] struct {
	url    string
	source string
	dialer *websocket.Dialer
	opts   Options
	logger logger.Interface
	seq    atomic.Uint64

	mu      sync.Mutex
	handler func(ctx context.Context, event *T) error
	status  StatusReporter
	cancel  context.CancelFunc
	stopped bool
}

func newFeed[T any](url, source string, opts Options, log logger.Interface) *feed[T] {
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = 500 * time.Millisecond
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = 30 * time.Second
	}
	return &feed[T]{
		url:    url,
		source: source,
		dialer: &websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout},
		opts:   opts,
		logger: log,
		status: nopStatus{},
	}
}

// ReportStatus publishes this feed's connectivity to reporter: serving while a
// session is open, not serving otherwise. Call it before Start.
func (f *feed[T]) ReportStatus(reporter StatusReporter) {
	if reporter == nil {
		reporter = nopStatus{}
	}
	f.mu.Lock()
	f.status = reporter
	f.mu.Unlock()
}

// Subscribe sets the handler invoked for each decoded event.
func (f *feed[T]) Subscribe(handler func(ctx context.Context, event *T) error) error {
	if handler == nil {
		return errNoHandler
	}
	f.mu.Lock()
	f.handler = handler
	f.mu.Unlock()
	return nil
}

// Start reads from the feed until ctx is cancelled or Stop is called.
func (f *feed[T]) Start(ctx context.Context) error {
	f.mu.Lock()
	handler := f.handler
	if handler == nil {
		f.mu.Unlock()
		return errNoHandler
	}
	if f.stopped {
		f.mu.Unlock()
		return nil
	}
	status := f.status
	ctx, f.cancel = context.WithCancel(ctx)
	f.mu.Unlock()

	status.MarkNotServing(f.source)

	f.logger.InfoContext(ctx, "starting websocket feed",
		logger.Field{Key: "action", Value: "feed_start"},
		logger.Field{Key: "url", Value: f.url},
	)

	backoff := f.opts.MinBackoff
	for {
		connected, err := f.connectAndRead(ctx, handler, status)
		if ctx.Err() != nil {
			f.logger.Info("websocket feed stopped",
				logger.Field{Key: "action", Value: "feed_stop"},
				logger.Field{Key: "source", Value: f.source},
			)
			return nil
		}
		if connected {
			backoff = f.opts.MinBackoff
		}

		f.logger.Warn("websocket feed disconnected, reconnecting",
			logger.Field{Key: "action", Value: "feed_reconnect"},
			logger.Field{Key: "source", Value: f.source},
			logger.Field{Key: "error", Value: fmt.Sprint(err)},
			logger.Field{Key: "backoff", Value: backoff.String()},
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil
		}
		backoff = min(backoff*2, f.opts.MaxBackoff)
	}
}

// connectAndRead holds one session open until it fails or ctx is done. It
// reports whether the dial succeeded.
func (f *feed[T]) connectAndRead(ctx context.Context, handler func(ctx context.Context, event *T) error, status StatusReporter) (bool, error) {
	conn, _, err := f.dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	status.InitService(f.source)
	defer status.MarkNotServing(f.source)

	sessionDone := make(chan struct{})
	defer close(sessionDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-sessionDone:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("read: %w", err)
		}
		f.handle(ctx, payload, handler)
	}
}

func (f *feed[T]) handle(ctx context.Context, payload []byte, handler func(ctx context.Context, event *T) error) {
	ctx = util.WithEventID(util.WithSource(ctx, f.source), f.source+"/"+strconv.FormatUint(f.seq.Add(1), 10))

	var event T
	if err := json.Unmarshal(payload, &event); err != nil {
		f.logger.WarnContext(ctx, "skipping malformed message",
			logger.Field{Key: "action", Value: "unmarshal_event"},
			logger.Field{Key: "code", Value: errors.MalformedEvent.String()},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return
	}

	if err := handler(ctx, &event); err != nil {
		f.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "handle_event"},
			logger.Field{Key: "code", Value: errors.CodeOf(err).String()},
		)
	}
}

// Stop ends a running Start.
func (f *feed[T]) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	if f.cancel != nil {
		f.cancel()
	}
	return nil
}
