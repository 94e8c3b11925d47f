package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/logger"
	cerr "github.com/cockroachdb/errors"
)

const (
	// DefaultRenameThreshold is the default threshold for detecting file renames
	DefaultRenameThreshold = "90%"
)

// Runner defines an interface for running git commands
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// Ensure DefaultRunner implements Runner interface
var _ Runner = (*DefaultRunner)(nil)

// DefaultRunner implements the Runner interface using exec.Command
type DefaultRunner struct {
	RepoPath string
}

// NewDefaultRunner creates a new instance of DefaultRunner
func NewDefaultRunner(repoPath string) *DefaultRunner {
	return &DefaultRunner{
		RepoPath: repoPath,
	}
}

// Run executes a command and returns its output without the trailing
// newline. Leading whitespace is kept, porcelain output depends on it.
func (r *DefaultRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if r.RepoPath != "" {
		cmd.Dir = r.RepoPath
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("Running %s %s", name, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return "", cerr.Wrapf(err, "%s %s: %s", name, firstArg(args), strings.TrimSpace(stderr.String()))
	}

	return strings.TrimRight(stdout.String(), "\r\n"), nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// Client wraps the git operations the commit and branch flows need
type Client struct {
	runner Runner
}

// NewClient creates a new Git client
func NewClient(runner Runner) *Client {
	return &Client{
		runner: runner,
	}
}

// IsRepo reports whether the working directory is inside a work tree.
func (c *Client) IsRepo() bool {
	out, err := c.runner.Run("git", "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// unsafePathChars are refused in paths passed on the command line.
const unsafePathChars = "|&;`$()<>\n\r\x00"

// ValidateFilePath rejects absolute paths, parent traversal and shell
// metacharacters.
func ValidateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return cerr.New("file path cannot be empty")
	}
	if i := strings.IndexAny(path, unsafePathChars); i >= 0 {
		return cerr.Newf("file path %q contains a disallowed character %q", path, path[i])
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return cerr.Newf("absolute path %q is not allowed; use a path relative to the repository", path)
	}
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return cerr.Newf("path %q leaves the repository", path)
		}
	}
	return nil
}

// StageFiles stages the given paths after validating each of them.
func (c *Client) StageFiles(files []string) error {
	if len(files) == 0 {
		return nil
	}
	for _, file := range files {
		if err := ValidateFilePath(file); err != nil {
			return errs.Git(err, "pass paths relative to the repository root")
		}
	}

	args := append([]string{"add", "--"}, files...)
	if _, err := c.runner.Run("git", args...); err != nil {
		return errs.Git(cerr.Wrap(err, "staging files"), "check that the paths exist")
	}
	return nil
}

// StageAll stages every change in the work tree, untracked files included.
func (c *Client) StageAll() error {
	if _, err := c.runner.Run("git", "add", "--all"); err != nil {
		return errs.Git(cerr.Wrap(err, "staging all changes"), "")
	}
	return nil
}

// hasHead reports whether the repository has a commit yet.
func (c *Client) hasHead() bool {
	_, err := c.runner.Run("git", "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// GetDiff returns the staged diff, or with all the diff of the work tree
// against HEAD.
func (c *Client) GetDiff(all bool) (string, error) {
	params := []string{
		"diff",
		"--no-color",
		"--no-ext-diff",
		"--find-renames=" + DefaultRenameThreshold,
	}
	if all && c.hasHead() {
		params = append(params, "HEAD")
	} else {
		params = append(params, "--cached")
	}

	out, err := c.runner.Run("git", params...)
	if err != nil {
		return "", errs.Diff(cerr.Wrap(err, "reading diff"), "make sure git works in this directory")
	}
	return out, nil
}

// GetChangedFiles lists the changed paths with their status, one per line
// as git prints them.
func (c *Client) GetChangedFiles(all bool) ([]string, error) {
	var (
		out string
		err error
	)
	if all {
		out, err = c.runner.Run("git", "status", "--porcelain")
	} else {
		out, err = c.runner.Run("git", "diff", "--cached", "--name-status")
	}
	if err != nil {
		return nil, errs.Diff(cerr.Wrap(err, "listing changed files"), "")
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// HasStagedChanges reports whether anything is staged.
func (c *Client) HasStagedChanges() (bool, error) {
	out, err := c.runner.Run("git", "diff", "--cached", "--name-only")
	if err != nil {
		return false, errs.Git(cerr.Wrap(err, "checking staged changes"), "")
	}
	return strings.TrimSpace(out) != "", nil
}

// Commit records the staged changes with message as one argument.
func (c *Client) Commit(message string, amend bool) error {
	args := []string{"commit", "-m", message}
	if amend {
		args = append(args, "--amend")
	}
	if _, err := c.runner.Run("git", args...); err != nil {
		return errs.Git(cerr.Wrap(err, "committing"), "check `git status` and your git user configuration")
	}
	return nil
}

// Push pushes the current branch.
func (c *Client) Push(force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	if _, err := c.runner.Run("git", args...); err != nil {
		return errs.Git(cerr.Wrap(err, "pushing"), "set an upstream with `git push -u origin <branch>`")
	}
	return nil
}

// CurrentBranch returns the checked out branch name.
func (c *Client) CurrentBranch() (string, error) {
	out, err := c.runner.Run("git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", errs.Git(cerr.Wrap(err, "reading current branch"), "")
	}
	return strings.TrimSpace(out), nil
}

// BranchExists reports whether a local branch named name exists.
func (c *Client) BranchExists(name string) bool {
	_, err := c.runner.Run("git", "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// CreateBranch creates name from HEAD and switches to it.
func (c *Client) CreateBranch(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.Git(cerr.New("branch name cannot be empty"), "")
	}
	if c.BranchExists(name) {
		return errs.Git(cerr.Newf("branch %q already exists", name), fmt.Sprintf("switch to it with `git switch %s` or pick another name", name))
	}
	if _, err := c.runner.Run("git", "checkout", "-b", name); err != nil {
		return errs.Git(cerr.Wrapf(err, "creating branch %q", name), "")
	}
	return nil
}
