package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dzli7/JVM-Stack-Machine/internal/fixtures"
	"github.com/goccy/go-yaml"
)

type manifestExample struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	ExpectedStdout string `yaml:"expected_stdout"`
	ExpectsValue   bool   `yaml:"expects_value"`
}

type manifest struct {
	Examples []manifestExample `yaml:"examples"`
}

func loadManifest(t *testing.T) manifest {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "testdata", "manifest.yaml"))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		t.Fatalf("parsing manifest: %v", err)
	}
	return m
}

// TestManifestExamplesRunEndToEnd drives every example testdata/manifest.yaml
// lists through the same path a user invoking "minijvm run" would take,
// comparing stdout against the manifest's recorded expectation instead of a
// table hard-coded in Go.
func TestManifestExamplesRunEndToEnd(t *testing.T) {
	m := loadManifest(t)
	if len(m.Examples) == 0 {
		t.Fatal("manifest has no examples")
	}

	for _, ex := range m.Examples {
		t.Run(ex.Name, func(t *testing.T) {
			classBytes, err := fixtures.Build(ex.Name)
			if err != nil {
				t.Fatalf("fixtures.Build(%q): %v", ex.Name, err)
			}
			path := filepath.Join(t.TempDir(), ex.Name+".class")
			if err := os.WriteFile(path, classBytes, 0644); err != nil {
				t.Fatalf("writing class file: %v", err)
			}

			var runErr error
			out := captureStdout(t, func() {
				runErr = runClassFile(runCmd, []string{path})
			})
			if runErr != nil {
				t.Fatalf("runClassFile(%q): %v", ex.Name, runErr)
			}
			if out != ex.ExpectedStdout {
				t.Fatalf("%s: stdout = %q, want %q", ex.Name, out, ex.ExpectedStdout)
			}
		})
	}
}
