package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderVersionPrettyMinimal(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3"}
	renderVersionPretty(&buf, info, versionOptions{format: "pretty"})

	out := buf.String()
	if !strings.Contains(out, "pyrite 1.2.3") {
		t.Fatalf("missing version line: %q", out)
	}
	if !strings.Contains(out, "--full") {
		t.Fatalf("expected hint about extra flags: %q", out)
	}
}

func TestRenderVersionPrettyFull(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3", GitCommit: "abc123", BuildDate: "2026-01-01"}
	opts := versionOptions{format: "pretty", showHash: true, showMessage: true, showDate: true}
	renderVersionPretty(&buf, info, opts)

	out := buf.String()
	if !strings.Contains(out, "abc123") || !strings.Contains(out, "2026-01-01") {
		t.Fatalf("metadata missing: %q", out)
	}
	if !strings.Contains(out, "unknown") {
		t.Fatalf("empty commit message should render as unknown: %q", out)
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3", GitCommit: "abc123"}
	opts := versionOptions{format: "json", showHash: true}
	if err := renderVersionJSON(&buf, info, opts); err != nil {
		t.Fatal(err)
	}

	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "pyrite" || payload.Version != "1.2.3" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.GitCommit != "abc123" {
		t.Fatalf("commit not included: %+v", payload)
	}
	if payload.BuildDate != "" {
		t.Fatalf("date should be omitted: %+v", payload)
	}
}
