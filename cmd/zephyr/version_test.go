package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersionPrettyDevBuild(t *testing.T) {
	var out strings.Builder
	writeVersionPretty(&out, buildMetadata{
		Version:   "0.1.0-dev",
		GoVersion: "go1.24.0",
		Platform:  "linux/amd64",
	})
	got := out.String()
	if !strings.HasPrefix(got, "zephyr 0.1.0-dev (go1.24.0, linux/amd64)") {
		t.Errorf("header line wrong:\n%s", got)
	}
	if strings.Contains(got, "commit:") || strings.Contains(got, "built:") {
		t.Errorf("dev build printed unstamped metadata:\n%s", got)
	}
}

func TestVersionPrettyStampedBuild(t *testing.T) {
	var out strings.Builder
	writeVersionPretty(&out, buildMetadata{
		Version:    "0.2.0",
		GoVersion:  "go1.24.0",
		Platform:   "linux/amd64",
		GitCommit:  "abc1234",
		GitMessage: "tune clone insertion\n\nlong body",
		BuildDate:  "2026-08-31",
	})
	got := out.String()
	if !strings.Contains(got, "commit: abc1234 (tune clone insertion)") {
		t.Errorf("commit line missing or carries the message body:\n%s", got)
	}
	if !strings.Contains(got, "built:  2026-08-31") {
		t.Errorf("build date missing:\n%s", got)
	}
}

func TestVersionJSONOmitsUnstampedFields(t *testing.T) {
	var out strings.Builder
	if err := writeVersionJSON(&out, buildMetadata{
		Version:   "0.1.0-dev",
		GoVersion: "go1.24.0",
		Platform:  "linux/amd64",
	}); err != nil {
		t.Fatalf("writeVersionJSON: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "git_commit") || strings.Contains(got, "build_date") {
		t.Errorf("JSON includes empty stamp fields:\n%s", got)
	}
	var meta buildMetadata
	if err := json.Unmarshal([]byte(got), &meta); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if meta.Version != "0.1.0-dev" || meta.Platform != "linux/amd64" {
		t.Errorf("round trip lost fields: %+v", meta)
	}
}
