package testutil

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestNewTestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewTestLogger(buf)
	if logger == nil {
		t.Fatal("NewTestLogger returned nil")
	}

	logger.Debug("test message", "key", "value")
	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("Logger did not write debug record, got %q", buf.String())
	}

	if NewTestLogger(nil) == nil {
		t.Error("NewTestLogger returned nil with nil writer")
	}
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger()
	if logger == nil {
		t.Fatal("DiscardLogger returned nil")
	}

	// Must not panic
	logger.Info("test message", "key", "value")
	logger.Error("error message", "key", "value")
}

func TestBufferLogger(t *testing.T) {
	logger, buf := BufferLogger()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.Info("concurrent", "worker", i)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "msg=concurrent"); got != 8 {
		t.Errorf("Expected 8 records, got %d", got)
	}
}
