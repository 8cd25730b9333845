// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/storpool/charm-cinder-storpool/core/status"
	"github.com/storpool/charm-cinder-storpool/internal/presence"
)

// Status messages, in order of precedence.
const (
	MessageNoCinderHook  = "No Cinder hook yet"
	MessageNoPresence    = "No presence data from our parent node"
	MessageNoTemplate    = `No "storpool_template" in the charm config`
	MessageNotReady      = "Something went wrong, please look at the unit log"
	MessageReady         = "The StorPool Cinder backend should be up and running"
	examiningStatusError = "Examining the status: "
)

// DefaultSpoolDir is where the StorPool integration queues requests.
const DefaultSpoolDir = "/var/spool/openstack-storpool"

// ServiceCommands are the OpenStack services that must run with the
// spopenstack group to attach StorPool volumes.
var ServiceCommands = []string{"cinder-volume", "nova-compute"}

// Report describes the state of the charm, as returned by the
// sp-status action.
type Report struct {
	CinderHook  bool                    `json:"cinder-hook"`
	Node        string                  `json:"node"`
	ParentNode  string                  `json:"parent-node"`
	CharmConfig map[string]interface{}  `json:"charm-config"`
	Presence    presence.Record         `json:"presence"`
	Proc        map[string]map[int]bool `json:"proc,omitempty"`
	Ready       bool                    `json:"ready"`
	Message     string                  `json:"message"`
}

// Report examines the charm and the node and explains why the backend
// is not usable yet, if it isn't.
func (c *Coordinator) Report() (Report, error) {
	report := Report{
		CinderHook: c.gates.Has(BackendConfigure),
		Node:       c.config.MachineID,
		ParentNode: c.config.ParentNode,
	}
	raw, err := c.config.Tools.ConfigGet()
	if err != nil {
		return report, errors.Annotate(err, "reading the charm config")
	}
	report.CharmConfig = raw
	config, err := ParseConfig(raw)
	if err != nil {
		return report, errors.Trace(err)
	}
	report.Presence, err = c.config.Channel.Fetch()
	if err != nil {
		return report, errors.Annotate(err, "fetching presence data")
	}

	_, haveParent := report.Presence.Nodes[presence.BlockPrefix+c.config.ParentNode]
	switch {
	case !report.CinderHook:
		report.Message = MessageNoCinderHook
	case !haveParent:
		report.Message = MessageNoPresence
	case config.Template == "":
		report.Message = MessageNoTemplate
	case !c.gates.Has(Ready):
		report.Message = MessageNotReady
	}
	if report.Message != "" {
		return report, nil
	}

	found := false
	report.Proc = make(map[string]map[int]bool)
	for _, cmd := range ServiceCommands {
		procs, err := c.config.Processes.Check(cmd)
		if err != nil {
			return report, errors.Annotatef(err, "checking the %s processes", cmd)
		}
		report.Proc[cmd] = procs
		if len(procs) > 0 {
			found = true
		}
		var bad []int
		for pid, ok := range procs {
			if !ok {
				bad = append(bad, pid)
			}
		}
		if len(bad) > 0 {
			sort.Ints(bad)
			report.Message = "No spopenstack group: " + formatPIDs(bad)
			return report, nil
		}
	}

	if found {
		info, err := os.Stat(c.config.SpoolDir)
		if err != nil || !info.IsDir() {
			report.Message = fmt.Sprintf("No %s directory", c.config.SpoolDir)
			return report, nil
		}
		if info.Mode().Perm()&0020 == 0 {
			report.Message = fmt.Sprintf("%s not group-writable", c.config.SpoolDir)
			return report, nil
		}
	}

	report.Message = MessageReady
	report.Ready = true
	return report, nil
}

func formatPIDs(pids []int) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = strconv.Itoa(pid)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Status returns the workload status to report. It never fails: a
// problem examining the charm is itself reported as the status.
func (c *Coordinator) Status() status.StatusInfo {
	now := c.config.Clock.Now()
	report, err := c.Report()
	if err != nil {
		msg := examiningStatusError + err.Error()
		c.logger.Errorf("%s", msg)
		return status.StatusInfo{Status: status.Maintenance, Message: msg, Since: &now}
	}
	info := status.StatusInfo{Status: status.Maintenance, Message: report.Message, Since: &now}
	if report.Ready {
		info.Status = status.Active
	}
	return info
}

// updateStatus reports the status to Juju unless the unit is stopping.
func (c *Coordinator) updateStatus() {
	if c.gates.Has(Stopped) {
		return
	}
	info := c.Status()
	if err := c.config.Tools.SetStatus(info); err != nil {
		c.logger.Errorf("setting the unit status: %v", err)
	}
}
