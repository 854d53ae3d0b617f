package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithPrincipal(ctx, "admin", 7, "super_admin")

	log.Error(ctx, "boom", errors.New("boom"))

	for _, want := range []string{`"request_id":"req-123"`, `"principal_id":7`, `"stack"`} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Fatalf("expected %s in entry=%s", want, buf.String())
		}
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})
	log.Warn(context.Background(), "quiet")
	if bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("stack should be omitted when warn stack disabled")
	}

	buf.Reset()
	log = New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "loud")
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack when warn stack enabled")
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("warn"), Output: buf})
	log.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level; got %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.NoLevel {
		t.Fatalf("expected NoLevel for blank input, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.NoLevel {
		t.Fatalf("invalid level should fall back to NoLevel, got %v", lvl)
	}
	if lvl := ParseLevel(" WARN "); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", lvl)
	}
}
