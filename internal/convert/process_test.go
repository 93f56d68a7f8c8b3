// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scriptport/scriptport/internal/classify"
)

func runProcess(t *testing.T, cfg ProcessConfig, req Request) (map[string]string, error) {
	t.Helper()
	svc, err := NewProcessService(cfg)
	if err != nil {
		t.Fatalf("NewProcessService() error: %v", err)
	}
	got := map[string]string{}
	err = svc.Convert(context.Background(), req, func(res Result) {
		got[res.OriginalPath] = res.Content
	})
	return got, err
}

func TestProcessService_StreamsResults(t *testing.T) {
	t.Parallel()

	cmd := `printf '%s\n' '{"path":"A.js","content":"class A {}"}' '{"path":"B.js","content":"class B {}"}'`
	got, err := runProcess(t, ProcessConfig{Command: cmd}, Request{Files: sources("A.js", "B.js")})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if got["A.js"] != "class A {}" || got["B.js"] != "class B {}" {
		t.Errorf("results = %v", got)
	}
}

func TestProcessService_ReceivesRequestOnStdin(t *testing.T) {
	t.Parallel()

	cmd := `read -r req || true
case "$req" in
*'"category":"editor"'*'"defines":["DEBUG"]'*) printf '{"path":"E.js","content":"ok"}' ;;
*) echo "unexpected request: $req" >&2; exit 4 ;;
esac`
	got, err := runProcess(t, ProcessConfig{Command: cmd}, Request{
		Category: classify.Editor,
		Files:    sources("E.js"),
		Defines:  []string{"DEBUG"},
	})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if got["E.js"] != "ok" {
		t.Errorf("results = %v", got)
	}
}

func TestProcessService_Environment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	envFile := filepath.Join(dir, "converter.env")
	if err := os.WriteFile(envFile, []byte("UNITY_VERSION=5.6\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := `printf '{"path":"A.js","content":"%s %s %s"}' "$SCRIPTPORT_CATEGORY" "$SCRIPTPORT_IGNORE_ERRORS" "$UNITY_VERSION"`
	got, err := runProcess(t, ProcessConfig{Command: cmd, EnvFiles: []string{envFile}, Dir: dir}, Request{
		Category:     classify.Plugin,
		Files:        sources("A.js"),
		IgnoreErrors: true,
	})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if want := "plugins 1 5.6"; got["A.js"] != want {
		t.Errorf("content = %q, want %q", got["A.js"], want)
	}
}

func TestProcessService_NonZeroExit(t *testing.T) {
	t.Parallel()

	cmd := `printf '{"path":"A.js","content":"partial"}'; exit 3`

	got, err := runProcess(t, ProcessConfig{Command: cmd}, Request{Files: sources("A.js", "B.js")})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Status != 3 {
		t.Fatalf("Convert() error = %v, want exit status 3", err)
	}
	if got["A.js"] != "partial" {
		t.Errorf("results before failure were not forwarded: %v", got)
	}

	_, err = runProcess(t, ProcessConfig{Command: cmd}, Request{Files: sources("A.js"), IgnoreErrors: true})
	if err != nil {
		t.Errorf("Convert() with IgnoreErrors error = %v, want nil", err)
	}
}

func TestProcessService_MalformedOutput(t *testing.T) {
	t.Parallel()

	cmd := `echo 'this is not json'`
	_, err := runProcess(t, ProcessConfig{Command: cmd}, Request{Files: sources("A.js")})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("Convert() error = %v, want ErrMalformedOutput", err)
	}
}

func TestProcessService_MalformedLineDoesNotStopDecoding(t *testing.T) {
	t.Parallel()

	cmd := `printf '%s\n' '{"path":"A.js","content":"class A {}"}' 'garbage' '' '{"path":"B.js","content":"class B {}"}'`

	tests := []struct {
		name         string
		ignoreErrors bool
		wantErr      bool
	}{
		{"errors tolerated", true, false},
		{"errors not tolerated", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := runProcess(t, ProcessConfig{Command: cmd}, Request{
				Files:        sources("A.js", "B.js"),
				IgnoreErrors: tt.ignoreErrors,
			})
			if gotErr := errors.Is(err, ErrMalformedOutput); gotErr != tt.wantErr {
				t.Errorf("Convert() error = %v, want ErrMalformedOutput: %v", err, tt.wantErr)
			}
			if got["A.js"] != "class A {}" || got["B.js"] != "class B {}" {
				t.Errorf("results around the malformed line = %v, want A.js and B.js", got)
			}
		})
	}
}

func TestProcessService_FileFailuresAreNotForwarded(t *testing.T) {
	t.Parallel()

	cmd := `printf '%s\n' '{"path":"A.js","error":"unsupported construct"}' '{"path":"B.js","content":""}'`
	got, err := runProcess(t, ProcessConfig{Command: cmd}, Request{Files: sources("A.js", "B.js")})
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if _, ok := got["A.js"]; ok {
		t.Error("failed file was forwarded")
	}
	if content, ok := got["B.js"]; !ok || content != "" {
		t.Errorf("empty converted content should still be forwarded, got %q, %v", content, ok)
	}
}

func TestNewProcessService_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewProcessService(ProcessConfig{Command: "  "}); !errors.Is(err, ErrNoConverterCommand) {
		t.Errorf("blank command error = %v", err)
	}
	if _, err := NewProcessService(ProcessConfig{Command: "if then"}); err == nil {
		t.Error("unparsable command should fail")
	}
	if _, err := NewProcessService(ProcessConfig{Command: "true", EnvFiles: []string{filepath.Join(t.TempDir(), "missing.env")}}); err == nil {
		t.Error("missing env file should fail")
	}
}
