package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalSpecYAML = "" +
	"swagger: '2.0'\n" +
	"info:\n" +
	"  title: Test API\n" +
	"  version: '1.0.0'\n" +
	"basePath: /v1\n" +
	"tags:\n" +
	"  - name: greet\n" +
	"    description: Greetings\n" +
	"paths:\n" +
	"  /hello/{name}:\n" +
	"    get:\n" +
	"      tags: [greet]\n" +
	"      summary: Hello\n" +
	"      parameters:\n" +
	"        - {name: name, in: path, type: string, required: true}\n" +
	"      responses:\n" +
	"        '200':\n" +
	"          description: ok\n" +
	"          schema:\n" +
	"            type: object\n" +
	"            properties:\n" +
	"              code: {type: integer}\n" +
	"              data: {type: string}\n"

func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = old }()
	fn()
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func writeSpec(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "swagger.yaml")
	if err := os.WriteFile(path, []byte(minimalSpecYAML), 0o600); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return dir, path
}

func TestGeneratePipeline_Stdout(t *testing.T) {
	_, specPath := writeSpec(t)

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", specPath, "--tag-map", "greet=Greeter", "--response-interceptor", "envelope"})

	out := captureStdout(func() {
		if err := root.Execute(); err != nil {
			t.Fatalf("execute: %v", err)
		}
	})
	for _, want := range []string{
		`export const basePath = "/v1";`,
		"export class Greeter {",
		"static getHelloName(path: {name: string}): Promise<string> {",
		`"key": "Greeter"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestGeneratePipeline_WritesOut(t *testing.T) {
	dir, specPath := writeSpec(t)
	outPath := filepath.Join(dir, "src", "api.ts")
	savedPath := filepath.Join(dir, "saved", "swagger.yaml")

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", specPath, "--out", outPath, "--save-spec", savedPath})

	out := captureStdout(func() {
		if err := root.Execute(); err != nil {
			t.Fatalf("execute: %v", err)
		}
	})
	if out != "" {
		t.Fatalf("expected no stdout when --out is set, got: %s", out)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "getHelloNameResponse") {
		t.Fatalf("unexpected output:\n%s", data)
	}
	saved, err := os.ReadFile(savedPath)
	if err != nil {
		t.Fatalf("read saved spec: %v", err)
	}
	if string(saved) != minimalSpecYAML {
		t.Fatalf("saved spec differs from input")
	}
}

func TestGeneratePipeline_DryRun(t *testing.T) {
	dir, specPath := writeSpec(t)
	outPath := filepath.Join(dir, "out", "api.ts")

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", specPath, "--out", outPath, "--dry-run"})

	out := captureStdout(func() {
		if err := root.Execute(); err != nil {
			t.Fatalf("execute: %v", err)
		}
	})
	if !strings.Contains(out, "Planned write to") || !strings.Contains(out, "- 1 functions") {
		t.Fatalf("expected dry-run plan output, got: %s", out)
	}
	// Dry-run should not create the directory
	if _, err := os.Stat(filepath.Dir(outPath)); err == nil {
		t.Fatalf("expected no writes on dry-run")
	}
}

func TestGeneratePipeline_MissingInput(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", filepath.Join(t.TempDir(), "missing.yaml")})

	err := root.Execute()
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "spec:") {
		t.Fatalf("unexpected error text: %v", err)
	}
}
