package loki

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	pushPath      = "/loki/api/v1/push"
	flushEvery    = time.Second
	flushAtLines  = 20
	clientTimeout = 5 * time.Second
)

// Writer buffers log lines and ships them to Loki's push API in one stream.
// It implements io.Writer and zapcore.WriteSyncer.
type Writer struct {
	url    string
	labels map[string]string
	client *http.Client

	mu  sync.Mutex
	buf [][2]string

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWriter returns nil when url is empty so callers can skip the tee.
func NewWriter(url string, labels map[string]string) *Writer {
	if url == "" {
		return nil
	}
	w := &Writer{
		url:    strings.TrimSuffix(url, "/") + pushPath,
		labels: labels,
		client: &http.Client{Timeout: clientTimeout},
		buf:    make([][2]string, 0, flushAtLines),
		ticker: time.NewTicker(flushEvery),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.flushLoop()
	return w
}

func (w *Writer) Write(p []byte) (int, error) {
	now := strconv.FormatInt(time.Now().UnixNano(), 10)

	w.mu.Lock()
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.buf = append(w.buf, [2]string{now, string(line)})
	}
	full := len(w.buf) >= flushAtLines
	w.mu.Unlock()

	if full {
		w.flush()
	}
	return len(p), nil
}

// Sync pushes whatever is buffered.
func (w *Writer) Sync() error {
	return w.flush()
}

func (w *Writer) flushLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case <-w.ticker.C:
			_ = w.flush()
		}
	}
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

func (w *Writer) flush() error {
	w.mu.Lock()
	if len(w.buf) == 0 {
		w.mu.Unlock()
		return nil
	}
	values := w.buf
	w.buf = make([][2]string, 0, flushAtLines)
	w.mu.Unlock()

	raw, err := json.Marshal(pushRequest{Streams: []stream{{Stream: w.labels, Values: values}}})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Close stops the background flusher and pushes the remaining lines.
func (w *Writer) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.ticker.Stop()
		close(w.done)
		w.wg.Wait()
		err = w.flush()
	})
	return err
}
