// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package cmd_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KerlinMichel/tawhiri/cmd"
)

func TestNewRootCommand_Subcommands(t *testing.T) {
	var in, out, errOut bytes.Buffer
	rc := cmd.NewRootCommand(&in, &out, &errOut)

	names := map[string]bool{}
	for _, c := range rc.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"create", "list", "inspect", "generate-config"} {
		if !names[want] {
			t.Fatalf("missing subcommand %q (have %v)", want, names)
		}
	}
}

func TestRootCommand_GenerateConfig(t *testing.T) {
	var in, out, errOut bytes.Buffer
	rc := cmd.NewRootCommand(&in, &out, &errOut)
	rc.SetArgs([]string{"generate-config"})

	if err := rc.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "data-dir") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRootCommand_List_EmptyDir(t *testing.T) {
	var in, out, errOut bytes.Buffer
	rc := cmd.NewRootCommand(&in, &out, &errOut)
	rc.SetArgs([]string{"list", "--data-dir", t.TempDir()})

	if err := rc.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "TIMESTAMP") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

// Ensure the config file generate-config produces is accepted back through
// --config by another command.
func TestRootCommand_ConfigRoundTrip(t *testing.T) {
	var in, out, errOut bytes.Buffer
	rc := cmd.NewRootCommand(&in, &out, &errOut)
	rc.SetArgs([]string{"generate-config"})
	if err := rc.Execute(); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(t.TempDir(), "tawhiri.toml")
	if err := os.WriteFile(cfgPath, out.Bytes(), 0o666); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "2024010100"), nil, 0o666); err != nil {
		t.Fatal(err)
	}

	var listOut bytes.Buffer
	lc := cmd.NewRootCommand(&in, &listOut, &errOut)
	lc.SetArgs([]string{"list", "-c", cfgPath, "--data-dir", dir})
	if err := lc.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(listOut.String(), "2024010100") {
		t.Fatalf("dataset missing from listing:\n%s", listOut.String())
	}
}

// Ensure config file values flow through to the command: the configured
// data-dir is the one listed.
func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "2024010100.gribmirror"), nil, 0o666); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(t.TempDir(), "tawhiri.toml")
	conf := fmt.Sprintf("data-dir = %q\nverbose = true\nstats = \"expvar\"\n", dir)
	if err := os.WriteFile(cfgPath, []byte(conf), 0o666); err != nil {
		t.Fatal(err)
	}

	var in, out, errOut bytes.Buffer
	rc := cmd.NewRootCommand(&in, &out, &errOut)
	rc.SetArgs([]string{"list", "-c", cfgPath})
	if err := rc.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "2024010100.gribmirror") {
		t.Fatalf("configured data-dir not listed:\n%s", out.String())
	}
}

func TestRootCommand_ConfigFile_InvalidKey(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "tawhiri.toml")
	if err := os.WriteFile(cfgPath, []byte("no-such-option = 1\n"), 0o666); err != nil {
		t.Fatal(err)
	}

	var in, out, errOut bytes.Buffer
	rc := cmd.NewRootCommand(&in, &out, &errOut)
	rc.SetArgs([]string{"list", "-c", cfgPath})
	err := rc.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid option") {
		t.Fatalf("expected invalid option error, got %v", err)
	}
}

func TestRootCommand_UnknownStatsClient(t *testing.T) {
	var in, out, errOut bytes.Buffer
	rc := cmd.NewRootCommand(&in, &out, &errOut)
	rc.SetArgs([]string{"list", "--data-dir", t.TempDir(), "--stats", "statsd"})
	err := rc.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown stats client") {
		t.Fatalf("expected unknown stats client error, got %v", err)
	}
}
