package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const threePacketTrace = `{"kind":"tx","packet_id":1,"node_id":0,"at_ns":0}
{"kind":"tx","packet_id":2,"node_id":1,"at_ns":1000000000}
{"kind":"rx","packet_id":1,"node_id":50,"at_ns":200000000}
{"kind":"tx","packet_id":3,"node_id":2,"at_ns":2000000000}
{"kind":"rx","packet_id":3,"node_id":50,"at_ns":2300000000}
`

func TestReplayCommandPrintsReport(t *testing.T) {
	input := filepath.Join(t.TempDir(), "trace.jsonl")
	if err := os.WriteFile(input, []byte(threePacketTrace), 0o644); err != nil {
		t.Fatalf("write trace: %v", err)
	}

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"replay", "--input", input, "--print-only", "--log-level", "error"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("replay: %v", err)
	}

	got := stdout.String()
	for _, want := range []string{
		"Delivery: Sent: 3, Received: 2, Lost: 1, Delivery ratio: 0.666667\n",
		"Average delay: 0.25 seconds\n",
		"Unresolved: 1\n",
		"Packet 1: 0.2 seconds\n",
		"Packet 2: 0.3 seconds\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestReplayCommandMissingInput(t *testing.T) {
	var stderr bytes.Buffer
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"replay", "--input", filepath.Join(t.TempDir(), "absent.jsonl"), "--print-only", "--log-level", "error"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected error for missing trace file")
	}
}

func TestSimulateCommandClosesTraceFile(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "run.jsonl")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"simulate", "--devices", "2", "--duration", "120s",
		"--trace-file", tracePath, "--print-only", "--log-level", "error"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "Delivery: Sent: ") {
		t.Fatalf("unexpected report:\n%s", stdout.String())
	}

	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 4 || !strings.Contains(lines[0], `"kind":"tx"`) {
		t.Fatalf("trace has %d lines, first %q", len(lines), lines[0])
	}
}
