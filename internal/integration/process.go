// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package integration

import (
	"bufio"
	"os"
	"os/user"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/prometheus/procfs"
)

const (
	// DefaultProcRoot is where procfs is mounted.
	DefaultProcRoot = "/proc"

	// SPOpenStackGroup is the group OpenStack services must run with to
	// access the StorPool volumes.
	SPOpenStackGroup = "spopenstack"
)

// ProcessChecker looks for running OpenStack services and whether they
// carry the spopenstack group.
type ProcessChecker struct {
	root        string
	fs          procfs.FS
	lookupGroup func(name string) (*user.Group, error)
}

// NewProcessChecker returns a ProcessChecker reading procfs at root.
func NewProcessChecker(root string) (*ProcessChecker, error) {
	fs, err := procfs.NewFS(root)
	if err != nil {
		return nil, errors.Annotatef(err, "opening %s", root)
	}
	return &ProcessChecker{root: root, fs: fs, lookupGroup: user.LookupGroup}, nil
}

// Check returns, for every process running command, whether it is a
// member of the spopenstack group.
func (pc *ProcessChecker) Check(command string) (map[int]bool, error) {
	group, err := pc.lookupGroup(SPOpenStackGroup)
	if err != nil {
		return nil, errors.Annotatef(err, "looking up the %s group", SPOpenStackGroup)
	}
	procs, err := pc.fs.AllProcs()
	if err != nil {
		return nil, errors.Annotate(err, "listing processes")
	}
	result := make(map[int]bool)
	for _, proc := range procs {
		cmdline, err := proc.CmdLine()
		if err != nil || !runs(cmdline, command) {
			continue
		}
		groups, err := pc.groups(proc.PID)
		if os.IsNotExist(errors.Cause(err)) {
			continue
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		result[proc.PID] = slices.Contains(groups, group.Gid)
	}
	return result, nil
}

// runs reports whether the command line is that of command, either run
// directly or through an interpreter.
func runs(cmdline []string, command string) bool {
	for i, arg := range cmdline {
		if i > 1 {
			break
		}
		if filepath.Base(arg) == command {
			return true
		}
	}
	return false
}

// groups returns the supplementary groups of a process, which procfs
// does not parse out of the status file.
func (pc *ProcessChecker) groups(pid int) ([]string, error) {
	f, err := os.Open(filepath.Join(pc.root, strconv.Itoa(pid), "status"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if value, ok := strings.CutPrefix(line, "Groups:"); ok {
			return strings.Fields(value), nil
		}
	}
	return nil, errors.Trace(scanner.Err())
}
