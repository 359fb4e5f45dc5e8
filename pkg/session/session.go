// Package session owns the renderer subprocess: spawning it, writing
// the command stream to its stdin, pumping its diagnostic stream, and
// synchronizing on checkpoint sentinels. Every draw runs a two-phase
// commit: a syntax-check variant under a throwaway terminal first, the
// real command and data only if the check came back clean.
package session

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/plotforge/gplot/pkg/chunk"
	"github.com/plotforge/gplot/pkg/command"
	"github.com/plotforge/gplot/pkg/errors"
	"github.com/plotforge/gplot/pkg/observability"
	"github.com/plotforge/gplot/pkg/options"
	"github.com/plotforge/gplot/pkg/transfer"
)

// State is a session's lifecycle phase.
type State int

const (
	// StateUnstarted means no subprocess exists yet; the first draw
	// starts one.
	StateUnstarted State = iota

	// StateRunning means the subprocess is live and synchronized.
	StateRunning

	// StateStuck means a checkpoint timed out: the subprocess stopped
	// responding and the pipes can no longer be trusted. Only Restart
	// clears it.
	StateStuck

	// StateTerminated means Close ran; the session is done.
	StateTerminated
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateRunning:
		return "running"
	case StateStuck:
		return "stuck"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// sentinelPrefix starts every checkpoint marker. The uuid suffix keeps
// markers unique so stale diagnostic output can never satisfy a newer
// checkpoint.
const sentinelPrefix = "gplot-ckpt-"

// Session drives one renderer subprocess. All methods are safe for
// concurrent use; commands within one session are serialized.
type Session struct {
	mu  sync.Mutex
	cfg Config
	log *charmlog.Logger

	state    State
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	diag     chan []byte
	pending  []byte
	pumpDone chan struct{}

	opts options.Set

	lastArgs   []any
	lastThreeD bool
	hasLast    bool
	warnings   []string

	filter diagnosticFilter
	marker func() string
}

// New returns a session with the given configuration. The subprocess
// starts lazily on the first draw.
func New(cfg Config) *Session {
	cfg = cfg.withDefaults()
	logger := cfg.Logger
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	return &Session{
		cfg:    cfg,
		log:    logger,
		opts:   options.NewSet(),
		filter: defaultFilter{},
		marker: newMarker,
	}
}

// newPiped builds a session over caller-supplied pipes instead of a
// spawned subprocess. Test hook.
func newPiped(cfg Config, stdin io.WriteCloser, diagnostics io.Reader) *Session {
	s := New(cfg)
	s.attach(stdin, diagnostics)
	s.state = StateRunning
	return s
}

func newMarker() string {
	return sentinelPrefix + uuid.NewString()
}

// State returns the session's current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Options returns a copy of the session's accumulated plot options.
func (s *Session) Options() options.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Clone()
}

// Warnings returns the diagnostic warnings collected by the most recent
// draw.
func (s *Session) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// SetOptions resolves and applies plot options to the session set.
// Application is atomic: if any entry fails to resolve or normalize,
// the session set is unchanged. Changing the terminal restarts a
// running subprocess, since terminal state sticks across draws.
func (s *Session) SetOptions(opts map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.opts.Clone()
	if err := next.ApplyMap(options.PlotSchema(), opts); err != nil {
		return err
	}
	termChanged := !equalValues(next["terminal"], s.opts["terminal"])
	s.opts = next

	if termChanged && s.state == StateRunning {
		s.log.Debug("terminal changed, restarting subprocess")
		s.stopLocked()
		s.state = StateUnstarted
	}
	return nil
}

// Plot draws a 2-D plot from the argument list: option maps, data
// columns, and per-curve option set lists, in any chunked order.
func (s *Session) Plot(ctx context.Context, args ...any) error {
	return s.draw(ctx, false, args)
}

// Splot draws a 3-D plot from the argument list.
func (s *Session) Splot(ctx context.Context, args ...any) error {
	return s.draw(ctx, true, args)
}

// Replot repeats the previous draw with any extra arguments appended.
func (s *Session) Replot(ctx context.Context, extra ...any) error {
	s.mu.Lock()
	if !s.hasLast {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeNoData, "nothing to replot")
	}
	args := make([]any, 0, len(s.lastArgs)+len(extra))
	args = append(args, s.lastArgs...)
	args = append(args, extra...)
	threeD := s.lastThreeD
	s.mu.Unlock()
	return s.draw(ctx, threeD, args)
}

// Restart tears the subprocess down and spawns a fresh one. This is
// the only way out of the stuck state. Session options survive; they
// are re-sent with the next draw's preamble.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTerminated {
		return errors.New(errors.ErrCodeExternalProcess, "session is closed")
	}
	s.stopLocked()
	s.state = StateUnstarted
	return s.startLocked()
}

// Close shuts the subprocess down and marks the session terminated.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.state = StateTerminated
	return nil
}

// draw compiles args and runs the two-phase commit. Specification
// errors surface before any byte reaches the subprocess; a failed
// syntax check aborts before any real data is written.
func (s *Session) draw(ctx context.Context, threeD bool, args []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := chunk.Env{ThreeD: threeD, DefaultStyle: s.defaultStyleLocked()}
	res, err := chunk.Split(args, env)
	if err != nil {
		return err
	}
	// The compiler gets its own copy; a draw never aliases the session set.
	plan, err := command.Compile(s.opts.Clone(), res, threeD, s.cfg.DefaultFormat)
	if err != nil {
		return err
	}

	if err := s.ensureRunningLocked(); err != nil {
		return err
	}

	s.warnings = nil
	for _, w := range plan.Warnings {
		s.noteWarning(ctx, w)
	}

	if err := s.validate(ctx, plan); err != nil {
		return err
	}
	if err := s.commit(ctx, plan); err != nil {
		return err
	}

	s.lastArgs = append([]any(nil), args...)
	s.lastThreeD = threeD
	s.hasLast = true
	return nil
}

// validate runs the syntax-check variant under a throwaway terminal:
// push the current terminal, switch to the inert one, draw with
// placeholder data, pop, and checkpoint. Diagnostics the placeholder
// provokes by construction are filtered; anything else fails the call
// before real data is sent.
func (s *Session) validate(ctx context.Context, plan *command.Plan) error {
	if plan.Preamble != "" {
		if err := s.send(ctx, plan.Preamble); err != nil {
			return err
		}
	}
	if err := s.send(ctx, "set terminal push\nset terminal unknown\n"); err != nil {
		return err
	}
	if err := s.send(ctx, plan.Test+"\n"); err != nil {
		return err
	}
	for i := range plan.Chunks {
		if err := transfer.WriteTest(s.stdin, &plan.Chunks[i], plan.Formats[i]); err != nil {
			return s.ioError(err, "writing placeholder data")
		}
	}
	if err := s.send(ctx, "set terminal pop\n"); err != nil {
		return err
	}

	diag, err := s.checkpoint(ctx)
	if err != nil {
		return err
	}
	warns, err := s.analyze(ctx, diag, true)
	for _, w := range warns {
		s.noteWarning(ctx, w)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeExternalProcess, err,
			"command rejected during syntax check")
	}
	return nil
}

// commit sends the real draw command and its data, then checkpoints.
func (s *Session) commit(ctx context.Context, plan *command.Plan) error {
	if err := s.send(ctx, plan.Draw+"\n"); err != nil {
		return err
	}
	for i := range plan.Chunks {
		c := &plan.Chunks[i]
		err := transfer.Write(s.stdin, c, plan.Formats[i])
		observability.Protocol().OnTransfer(ctx, plan.Formats[i].String(), c.Points, err)
		if err != nil {
			return s.ioError(err, "writing chunk data")
		}
	}

	diag, err := s.checkpoint(ctx)
	if err != nil {
		return err
	}
	warns, err := s.analyze(ctx, diag, false)
	for _, w := range warns {
		s.noteWarning(ctx, w)
	}
	return err
}

// checkpoint writes a sentinel print and consumes the diagnostic
// stream up to the sentinel's echo. The text before the sentinel is
// returned; bytes after it stay pending for the next checkpoint. Each
// read is bounded by the configured timeout; elapsing marks the
// session stuck.
func (s *Session) checkpoint(ctx context.Context) (string, error) {
	marker := s.marker()
	start := time.Now()
	if err := s.send(ctx, "print \""+marker+"\"\n"); err != nil {
		return "", err
	}

	buf := s.pending
	s.pending = nil
	needle := []byte(marker)
	for {
		if i := bytes.Index(buf, needle); i >= 0 {
			rest := bytes.TrimPrefix(buf[i+len(needle):], []byte("\n"))
			s.pending = append([]byte(nil), rest...)
			observability.Protocol().OnCheckpoint(ctx, marker, time.Since(start), nil)
			return string(buf[:i]), nil
		}
		select {
		case chunk, ok := <-s.diag:
			if !ok {
				err := errors.New(errors.ErrCodeExternalProcess,
					"subprocess closed its diagnostic stream")
				observability.Protocol().OnCheckpoint(ctx, marker, time.Since(start), err)
				s.state = StateStuck
				return "", err
			}
			buf = append(buf, chunk...)
		case <-ctx.Done():
			s.state = StateStuck
			err := errors.Wrap(errors.ErrCodeStuck, ctx.Err(), "waiting for checkpoint")
			observability.Protocol().OnCheckpoint(ctx, marker, time.Since(start), err)
			return "", err
		case <-time.After(s.cfg.CheckpointTimeout):
			s.state = StateStuck
			err := errors.New(errors.ErrCodeStuck,
				"no diagnostic output for %s while waiting for checkpoint; restart the session",
				s.cfg.CheckpointTimeout)
			observability.Protocol().OnCheckpoint(ctx, marker, time.Since(start), err)
			return "", err
		}
	}
}

// analyze splits checkpoint diagnostics into warnings and faults.
// During validation, lines the placeholder draw provokes by
// construction are dropped before anything else is considered.
func (s *Session) analyze(ctx context.Context, diag string, validating bool) ([]string, error) {
	var warnings, faults []string
	for _, line := range strings.Split(diag, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if validating && s.filter.Benign(line) {
			continue
		}
		if w, ok := warningText(line); ok {
			warnings = append(warnings, w)
			continue
		}
		faults = append(faults, line)
	}
	if len(faults) > 0 {
		return warnings, errors.New(errors.ErrCodeExternalProcess,
			"subprocess reported: %s", strings.Join(faults, " / "))
	}
	return warnings, nil
}

// warningText extracts the message of a "Warning: ..." diagnostic line.
func warningText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	const prefix = "warning:"
	if len(trimmed) >= len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
		return strings.TrimSpace(trimmed[len(prefix):]), true
	}
	return "", false
}

func (s *Session) noteWarning(ctx context.Context, w string) {
	s.warnings = append(s.warnings, w)
	s.log.Warn(w)
	observability.Protocol().OnWarning(ctx, w)
}

// send writes one or more command lines to the subprocess stdin.
func (s *Session) send(ctx context.Context, text string) error {
	if _, err := io.WriteString(s.stdin, text); err != nil {
		return s.ioError(err, "writing command")
	}
	s.log.Debug("sent", "command", strings.TrimRight(text, "\n"))
	observability.Protocol().OnCommand(ctx, strings.TrimRight(text, "\n"))
	return nil
}

func (s *Session) ioError(err error, doing string) error {
	s.state = StateStuck
	return errors.Wrap(errors.ErrCodeExternalProcess, err, "%s", doing)
}

func (s *Session) ensureRunningLocked() error {
	switch s.state {
	case StateRunning:
		return nil
	case StateUnstarted:
		return s.startLocked()
	case StateStuck:
		return errors.New(errors.ErrCodeStuck,
			"session is stuck; call Restart before drawing again")
	}
	return errors.New(errors.ErrCodeExternalProcess, "session is closed")
}

// startLocked spawns the subprocess and wires its pipes.
func (s *Session) startLocked() error {
	var flags []string
	if s.cfg.PersistWindow {
		flags = append(flags, "-persist")
	}
	cmd := exec.Command(s.cfg.Executable, flags...)
	cmd.Stdout = os.Stdout

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeExternalProcess, err, "opening stdin pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(errors.ErrCodeExternalProcess, err, "opening diagnostic pipe")
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeExternalProcess, err,
			"starting %s", s.cfg.Executable)
	}
	s.log.Debug("subprocess started", "executable", s.cfg.Executable, "pid", cmd.Process.Pid)

	s.cmd = cmd
	s.attach(stdin, stderr)
	s.state = StateRunning
	return nil
}

// attach wires the command pipe and starts the diagnostic pump.
func (s *Session) attach(stdin io.WriteCloser, diagnostics io.Reader) {
	s.stdin = stdin
	s.pending = nil
	s.diag = make(chan []byte, 16)
	s.pumpDone = make(chan struct{})
	go pump(diagnostics, s.diag, s.pumpDone)
}

// pump moves diagnostic bytes onto the channel until the reader ends.
// It runs for the life of the subprocess; closing the channel tells
// checkpoint readers the stream is gone.
func pump(r io.Reader, out chan<- []byte, done chan<- struct{}) {
	defer close(done)
	defer close(out)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- chunk
		}
		if err != nil {
			return
		}
	}
}

// stopLocked shuts the subprocess down: polite exit first, kill after
// a grace period.
func (s *Session) stopLocked() {
	if s.stdin != nil {
		io.WriteString(s.stdin, "exit\n")
		s.stdin.Close()
		s.stdin = nil
	}
	if s.cmd != nil {
		waited := make(chan error, 1)
		go func(c *exec.Cmd) { waited <- c.Wait() }(s.cmd)
		select {
		case <-waited:
		case <-time.After(2 * time.Second):
			s.cmd.Process.Kill()
			<-waited
		}
		s.cmd = nil
	}
	// The pump may be blocked writing unread diagnostics; keep draining
	// the channel until it exits or teardown deadlocks.
	for s.pumpDone != nil {
		select {
		case <-s.pumpDone:
			s.pumpDone = nil
		case <-s.diag:
		}
	}
	s.diag = nil
	s.pending = nil
}

// defaultStyleLocked reads the session's globalwith option, if set.
func (s *Session) defaultStyleLocked() string {
	if l, ok := s.opts["globalwith"].([]any); ok && len(l) > 0 {
		if name, ok := l[0].(string); ok {
			return name
		}
	}
	return ""
}

// equalValues compares two normalized option values. Lists compare
// element-wise; anything else compares directly.
func equalValues(a, b any) bool {
	la, aok := a.([]any)
	lb, bok := b.([]any)
	if aok && bok {
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if la[i] != lb[i] {
				return false
			}
		}
		return true
	}
	return a == b
}
