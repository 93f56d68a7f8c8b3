// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// EnvCategory tells the converter which category it is converting.
	EnvCategory = "SCRIPTPORT_CATEGORY"
	// EnvIgnoreErrors is "1" when the converter should tolerate per-file failures.
	EnvIgnoreErrors = "SCRIPTPORT_IGNORE_ERRORS"
)

var (
	// ErrNoConverterCommand is returned when no converter command is configured.
	ErrNoConverterCommand = errors.New("no converter command configured")
	// ErrMalformedOutput is returned when converter stdout is not a stream of
	// JSON result objects.
	ErrMalformedOutput = errors.New("malformed converter output")
)

// maxResultLine bounds a single line of converter output.
const maxResultLine = 64 << 20

type (
	// ProcessConfig configures a ProcessService.
	ProcessConfig struct {
		// Command is a shell command line that starts the converter.
		Command string
		// Dir is the converter's working directory.
		Dir string
		// EnvFiles are dotenv files whose variables are added to the
		// converter's environment, later files overriding earlier ones.
		EnvFiles []string
		// Stderr receives the converter's stderr; nil discards it.
		Stderr io.Writer
		Logger *slog.Logger
	}

	// ProcessService runs an external converter once per category. The
	// request is written to the converter's stdin as a single line of JSON;
	// the converter answers with one JSON object per line on stdout, one
	// line per converted file:
	//
	//	{"path": "Assets/Foo.js", "content": "..."}
	//
	// An object carrying "error" instead of "content" reports a per-file
	// failure that is logged and not forwarded.
	ProcessService struct {
		prog    *syntax.File
		dir     string
		dotenv  map[string]string
		stderr  io.Writer
		logger  *slog.Logger
		command string
	}

	// ExitError reports a converter that exited with a non-zero status.
	ExitError struct {
		Status uint8
	}

	wireFile struct {
		Path     string `json:"path"`
		Contents string `json:"contents"`
	}

	wireRequest struct {
		Category     string     `json:"category"`
		Files        []wireFile `json:"files"`
		Defines      []string   `json:"defines"`
		References   []string   `json:"references"`
		IgnoreErrors bool       `json:"ignore_errors"`
	}

	wireResult struct {
		Path    string  `json:"path"`
		Content *string `json:"content"`
		Error   string  `json:"error"`
	}
)

// NewProcessService parses the converter command line and loads the dotenv
// files once, so configuration mistakes surface before any dispatch.
func NewProcessService(cfg ProcessConfig) (*ProcessService, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, ErrNoConverterCommand
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(cfg.Command), "converter")
	if err != nil {
		return nil, fmt.Errorf("parse converter command: %w", err)
	}

	dotenv := map[string]string{}
	if len(cfg.EnvFiles) > 0 {
		dotenv, err = godotenv.Read(cfg.EnvFiles...)
		if err != nil {
			return nil, fmt.Errorf("read converter env files: %w", err)
		}
	}

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ProcessService{
		prog:    prog,
		dir:     cfg.Dir,
		dotenv:  dotenv,
		stderr:  stderr,
		logger:  logger,
		command: cfg.Command,
	}, nil
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return "converter exited with status " + strconv.Itoa(int(e.Status))
}

// Convert runs the converter for one category and forwards every decoded
// result to onConverted as soon as it is read.
func (s *ProcessService) Convert(ctx context.Context, req Request, onConverted func(Result)) error {
	payload, err := json.Marshal(toWire(req))
	if err != nil {
		return fmt.Errorf("encode converter request: %w", err)
	}
	payload = append(payload, '\n')

	stdoutR, stdoutW := io.Pipe()
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(s.environ(req)...)),
		interp.StdIO(bytes.NewReader(payload), stdoutW, s.stderr),
	}
	if s.dir != "" {
		opts = append(opts, interp.Dir(s.dir))
	}
	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("create converter interpreter: %w", err)
	}

	decoded := make(chan error, 1)
	go func() {
		decoded <- s.decode(stdoutR, req, onConverted)
	}()

	s.logger.Debug("starting converter", "command", s.command, "category", req.Category.Slug(), "files", len(req.Files))
	runErr := runner.Run(ctx, s.prog)
	stdoutW.Close() //nolint:errcheck // closing a pipe writer never fails
	decodeErr := <-decoded

	if runErr != nil {
		var status interp.ExitStatus
		if errors.As(runErr, &status) {
			runErr = &ExitError{Status: uint8(status)}
		}
		if req.IgnoreErrors {
			s.logger.Warn("converter failed, continuing because errors are ignored",
				"category", req.Category.Slug(), "error", runErr)
			runErr = nil
		}
	}
	if decodeErr != nil && req.IgnoreErrors {
		s.logger.Warn("ignoring malformed converter output", "category", req.Category.Slug(), "error", decodeErr)
		decodeErr = nil
	}
	return errors.Join(runErr, decodeErr)
}

// decode reads one result object per line until EOF. A line that is not a
// result object is logged and skipped so later results are still forwarded;
// the first such line is reported once the stream ends. A scan failure
// stops decoding but keeps draining r so the converter never blocks on a
// full pipe.
func (s *ProcessService) decode(r io.Reader, req Request, onConverted func(Result)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxResultLine)

	var malformed error
	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var wr wireResult
		if err := json.Unmarshal(line, &wr); err != nil {
			s.logger.Warn("skipping malformed converter output line",
				"category", req.Category.Slug(), "line", n, "error", err)
			if malformed == nil {
				malformed = fmt.Errorf("%w: line %d: %v", ErrMalformedOutput, n, err)
			}
			continue
		}

		switch {
		case wr.Error != "":
			s.logger.Warn("converter reported a file failure",
				"category", req.Category.Slug(), "path", wr.Path, "error", wr.Error)
		case wr.Content == nil || wr.Path == "":
			s.logger.Warn("converter result without path or content", "category", req.Category.Slug(), "path", wr.Path)
		default:
			onConverted(Result{OriginalPath: wr.Path, Content: *wr.Content})
		}
	}
	if err := sc.Err(); err != nil {
		io.Copy(io.Discard, r) //nolint:errcheck // draining only
		return errors.Join(malformed, fmt.Errorf("%w: %v", ErrMalformedOutput, err))
	}
	return malformed
}

// environ builds the converter environment: the caller's environment, then
// dotenv values, then the per-request variables.
func (s *ProcessService) environ(req Request) []string {
	env := os.Environ()
	for k, v := range s.dotenv {
		env = append(env, k+"="+v)
	}
	ignore := "0"
	if req.IgnoreErrors {
		ignore = "1"
	}
	return append(env,
		EnvCategory+"="+req.Category.Slug(),
		EnvIgnoreErrors+"="+ignore,
	)
}

func toWire(req Request) wireRequest {
	files := make([]wireFile, len(req.Files))
	for i, f := range req.Files {
		files[i] = wireFile{Path: f.Path, Contents: f.Contents}
	}
	defines := req.Defines
	if defines == nil {
		defines = []string{}
	}
	refs := req.References
	if refs == nil {
		refs = []string{}
	}
	return wireRequest{
		Category:     req.Category.Slug(),
		Files:        files,
		Defines:      defines,
		References:   refs,
		IgnoreErrors: req.IgnoreErrors,
	}
}
