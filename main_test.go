package main

import (
	"testing"

	"github.com/ShayHill/todoist-bot/cmd"
)

func TestVersion(t *testing.T) {
	if version != "dev" {
		t.Errorf("Expected default version to be 'dev', got %s", version)
	}
}

func TestVersionIsPassedToCommands(t *testing.T) {
	originalVersion := cmd.GetVersion()
	defer cmd.SetVersion(originalVersion)

	cmd.SetVersion("v1.0.0")
	if got := cmd.GetVersion(); got != "v1.0.0" {
		t.Errorf("Expected version v1.0.0, got %s", got)
	}
}
