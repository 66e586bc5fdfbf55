package main

import (
	"testing"

	"github.com/bft-labs/docship"
)

func TestGetVersionFallsBackToModuleVersion(t *testing.T) {
	// Test binaries carry no module version in their build info.
	if got := getVersion(); got != docship.Version {
		t.Fatalf("getVersion() = %q, want %q", got, docship.Version)
	}
}
