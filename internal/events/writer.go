package events

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/DanBirg/http-test/internal/config"
	"github.com/DanBirg/http-test/internal/logging"
)

// Writer drains a sink into one JSON line per event. It is the
// consumer behind detailed mode's event log.
type Writer struct {
	sink    *Sink
	enc     *json.Encoder
	closer  io.Closer
	written atomic.Int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWriter creates a writer that encodes events to out. The caller
// owns out.
func NewWriter(sink *Sink, out io.Writer) *Writer {
	return &Writer{
		sink: sink,
		enc:  json.NewEncoder(out),
	}
}

// NewFileWriter creates a writer backed by a rotating log file.
func NewFileWriter(sink *Sink, path string, rotation config.LogRotationConfig) *Writer {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotation.MaxSize,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAge,
		Compress:   rotation.Compress,
		LocalTime:  rotation.LocalTime,
	}
	w := NewWriter(sink, lj)
	w.closer = lj
	return w
}

// Start launches the consumer goroutine.
func (w *Writer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				w.flush()
				return
			case e := <-w.sink.Events():
				w.write(e)
			}
		}
	}()
}

// flush drains whatever is still buffered in the queue without
// blocking for new events.
func (w *Writer) flush() {
	for {
		select {
		case e := <-w.sink.Events():
			w.write(e)
		default:
			return
		}
	}
}

func (w *Writer) write(e RequestEvent) {
	if err := w.enc.Encode(e); err != nil {
		logging.Warn("event write failed", zap.Error(err))
		return
	}
	w.written.Add(1)
}

// Written returns the number of events successfully encoded.
func (w *Writer) Written() int64 {
	return w.written.Load()
}

// Close stops the consumer, flushes buffered events and closes the
// underlying file if the writer owns one.
func (w *Writer) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
