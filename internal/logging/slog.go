package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"
)

// Attribute keys shared by every package that logs.
const (
	KeyOperation = "operation"
	KeyList      = "list"
	KeyTaskHash  = "task_hash"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyScript    = "script"
	KeyExitCode  = "exit_code"
)

// MaxScriptLogLength bounds how much of a script or its output is logged.
const MaxScriptLogLength = 512

func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

func List(list string) slog.Attr { return slog.String(KeyList, list) }

func Status(status string) slog.Attr { return slog.String(KeyStatus, status) }

func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }

// Err returns the error attribute. A nil err yields an empty group, which
// handlers omit.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeText hashes free text such as a task title so log lines can be
// correlated without exposing it. Empty input stays empty.
func AnonymizeText(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return "task:" + hex.EncodeToString(sum[:8])
}

// TaskHash returns the anonymized task attribute, or an empty group for an
// empty name.
func TaskHash(name string) slog.Attr {
	if name == "" {
		return slog.Group("")
	}
	return slog.String(KeyTaskHash, AnonymizeText(name))
}

// Truncate shortens s to at most max bytes on a rune boundary and notes how
// many bytes were dropped.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s…[%d more bytes]", s[:cut], len(s)-cut)
}

// Script returns a script or output body cut to MaxScriptLogLength. Scripts
// embed task content, so log them at debug level only.
func Script(body string) slog.Attr {
	return slog.String(KeyScript, Truncate(body, MaxScriptLogLength))
}
