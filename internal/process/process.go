package process

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/smazurov/movcat/internal/logging"
)

// OutputHandler receives output lines from the subprocess.
type OutputHandler interface {
	HandleLine(source, line string)
}

// LogParser extracts a log level and message from a raw output line.
type LogParser func(line string) (level, msg string)

// Process runs a single subprocess to completion.
type Process struct {
	name string
	args []string

	logger        logging.Logger
	processLogger logging.Logger
	logParser     LogParser
	outputHandler OutputHandler

	gracefulTimeout time.Duration
	killTimeout     time.Duration

	cmd *exec.Cmd
}

// Option configures a Process.
type Option func(*Process)

// WithLogParser routes subprocess output through the given logger,
// using the parser to map each line to a log level.
func WithLogParser(logger logging.Logger, parser LogParser) Option {
	return func(p *Process) {
		p.processLogger = logger
		p.logParser = parser
	}
}

// WithOutputHandler registers a handler for each raw output line.
func WithOutputHandler(handler OutputHandler) Option {
	return func(p *Process) {
		p.outputHandler = handler
	}
}

// WithGracefulTimeout overrides the default 5s wait between SIGINT and
// SIGKILL on cancellation.
func WithGracefulTimeout(d time.Duration) Option {
	return func(p *Process) {
		p.gracefulTimeout = d
	}
}

// New creates a process for the given binary and argument list.
func New(name string, args []string, logger logging.Logger, opts ...Option) *Process {
	p := &Process{
		name:            name,
		args:            args,
		logger:          logger,
		gracefulTimeout: 5 * time.Second,
		killTimeout:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run starts the subprocess and blocks until it exits or ctx is
// cancelled. On cancellation the process receives SIGINT, then SIGKILL
// after the graceful timeout. Returns the subprocess exit code and the
// wait error, if any.
func (p *Process) Run(ctx context.Context) (int, error) {
	p.cmd = exec.Command(p.name, p.args...)
	p.cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		return 1, err
	}
	stderr, err := p.cmd.StderrPipe()
	if err != nil {
		return 1, err
	}

	if err := p.cmd.Start(); err != nil {
		p.logger.Error("Failed to start process", "binary", p.name, "error", err)
		return 1, err
	}
	p.logger.Info("Process started", "binary", p.name, "pid", p.cmd.Process.Pid)

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		p.streamOutput(stdout, "stdout")
	}()
	go func() {
		defer readers.Done()
		p.streamOutput(stderr, "stderr")
	}()

	// Wait closes the pipes, so it must not run until both readers hit
	// EOF or subprocess output is lost.
	processDone := make(chan error, 1)
	go func() {
		readers.Wait()
		processDone <- p.cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		p.logger.Info("Cancelled, stopping process", "pid", p.cmd.Process.Pid)
		p.sendInterrupt()
		code := p.waitForExit(processDone)
		return code, ctx.Err()

	case waitErr := <-processDone:
		code := exitCode(waitErr)
		p.logger.Info("Process exited", "exit_code", code)
		return code, waitErr
	}
}

// sendInterrupt delivers SIGINT to the whole process group so child
// processes spawned by the subprocess stop too.
func (p *Process) sendInterrupt() {
	if p.cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-p.cmd.Process.Pid, syscall.SIGINT); err != nil && !errors.Is(err, syscall.ESRCH) {
		p.logger.Warn("Failed to send SIGINT", "error", err)
	}
}

func (p *Process) waitForExit(processDone <-chan error) int {
	select {
	case err := <-processDone:
		return exitCode(err)
	case <-time.After(p.gracefulTimeout):
		p.logger.Warn("Graceful shutdown timeout, forcing kill", "timeout", p.gracefulTimeout)
		if p.cmd.Process != nil {
			if err := syscall.Kill(-p.cmd.Process.Pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
				p.logger.Error("Failed to kill process", "error", err)
			}
		}
		select {
		case <-processDone:
		case <-time.After(p.killTimeout):
			p.logger.Error("Process did not exit after kill signal")
		}
		return 137
	}
}

// exitCode maps a Wait error to a shell-style exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

func (p *Process) streamOutput(reader io.Reader, source string) {
	logger := p.processLogger
	if logger == nil {
		logger = p.logger
	}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()

		if p.outputHandler != nil {
			p.outputHandler.HandleLine(source, line)
		}

		level, msg := "info", line
		if p.logParser != nil {
			level, msg = p.logParser(line)
		}

		switch level {
		case "fatal", "error":
			logger.Error(msg)
		case "warning":
			logger.Warn(msg)
		case "debug", "trace", "verbose":
			logger.Debug(msg)
		default:
			logger.Info(msg)
		}
	}

	if err := scanner.Err(); err != nil {
		p.logger.Warn("Error reading process output", "source", source, "error", err)
	}
}
