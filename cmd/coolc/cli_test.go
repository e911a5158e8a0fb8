package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// binaryPath is set by TestMain once the coolc binary has been built,
// following the teacher's cmd/dwscript/cmd integration-test pattern of
// building the binary under test rather than invoking package internals
// directly — a CLI's observable behaviour is its process output.
var binaryPath string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "coolc-cli-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "coolc")
	build := exec.Command("go", "build", "-o", binaryPath, ".")
	if out, err := build.CombinedOutput(); err != nil {
		panic("failed to build coolc: " + err.Error() + "\n" + string(out))
	}

	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

const helloSource = `class Main inherits IO {
  main(): Object { out_string("Hello, World.\n") };
};
`

func writeSource(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestCompileProducesAssemblyFile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "hello.cl", helloSource)
	out := filepath.Join(dir, "hello.s")

	cmd := exec.Command(binaryPath, src, "-o", out)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("compile failed: %v\n%s", err, output)
	}

	asm, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected %s to be written: %v", out, err)
	}
	if len(asm) == 0 {
		t.Fatal("expected non-empty assembly output")
	}
}

func TestCompileParseErrorExitsOne(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "bad.cl", "class Main { main(): Object { 1 + }; };")

	cmd := exec.Command(binaryPath, src)
	err := cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected the process to exit with an error, got %v", err)
	}
	if code := exitErr.ExitCode(); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestCompileSemanticErrorExitsTwo(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "sem.cl", "class Main { main(): Object { undeclared_id }; };")

	cmd := exec.Command(binaryPath, src)
	err := cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected the process to exit with an error, got %v", err)
	}
	if code := exitErr.ExitCode(); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestCompileMissingFileExitsThree(t *testing.T) {
	cmd := exec.Command(binaryPath, filepath.Join(t.TempDir(), "missing.cl"))
	err := cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected the process to exit with an error, got %v", err)
	}
	if code := exitErr.ExitCode(); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestTokensDump(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "hello.cl", helloSource)

	out, err := exec.Command(binaryPath, "--tokens", src).Output()
	if err != nil {
		t.Fatalf("tokens dump failed: %v", err)
	}
	snaps.MatchSnapshot(t, "tokens_hello", string(out))
}

func TestASTDump(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "hello.cl", helloSource)

	out, err := exec.Command(binaryPath, "--ast", src).Output()
	if err != nil {
		t.Fatalf("ast dump failed: %v", err)
	}
	snaps.MatchSnapshot(t, "ast_hello", string(out))
}

func TestSemanticsDump(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "hello.cl", helloSource)

	out, err := exec.Command(binaryPath, "--semantics", src).Output()
	if err != nil {
		t.Fatalf("semantics dump failed: %v", err)
	}
	snaps.MatchSnapshot(t, "semantics_hello", string(out))
}

func TestNoCodegenSkipsOutfile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "hello.cl", helloSource)
	out := filepath.Join(dir, "hello.s")

	cmd := exec.Command(binaryPath, "--no-codegen", src, "-o", out)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("--no-codegen run failed: %v\n%s", err, output)
	}
	if _, err := os.Stat(out); err == nil {
		t.Errorf("expected no assembly file under --no-codegen, found %s", out)
	}
}

func TestCompileSubcommandMatchesDefault(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "hello.cl", helloSource)
	out := filepath.Join(dir, "hello.s")

	cmd := exec.Command(binaryPath, "compile", src, "-o", out)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("compile subcommand failed: %v\n%s", err, output)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected %s to be written: %v", out, err)
	}
}
