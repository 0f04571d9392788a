package passes

import (
	"fmt"

	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// Scheduler owns the work queues and per-run bookkeeping for one
// Elaborate call. It is not reused across runs.
type Scheduler struct {
	mgr       *elab.Manager
	modByName map[string]*ptree.Module
	udpByName map[string]*ptree.UdpDefn

	phase2 []func()
	phase3 []func()

	defparams []*elab.Defparam

	genSeq int // disambiguates synthesized names for unnamed generate blocks
}

func newScheduler(mgr *elab.Manager) *Scheduler {
	return &Scheduler{
		mgr:       mgr,
		modByName: make(map[string]*ptree.Module),
		udpByName: make(map[string]*ptree.UdpDefn),
	}
}

// Elaborate runs the full phase pipeline against design and returns the
// number of error-severity diagnostics reported.
func Elaborate(mgr *elab.Manager, design *ptree.Design) int {
	s := newScheduler(mgr)
	mgr.Log.Logf("seed: indexing module and UDP definitions")
	s.seed(design)
	mgr.Log.Logf("phase 1: instantiating top modules")
	s.phase1(design)
	mgr.Log.Logf("phase 2: instantiating queued modules and generate constructs")
	s.drain(&s.phase2)
	mgr.Log.Logf("defparam: resolving defparam overrides")
	s.fixDefparams()
	mgr.Log.Logf("phase 3: linking assigns, gates, ports and processes")
	s.drain(&s.phase3)
	return mgr.Diags.Count(diag.SeverityError)
}

// drain processes *q in FIFO order, allowing callbacks to append more
// work to the same queue (module/generate instantiation enqueues its
// own children's linking work).
func (s *Scheduler) drain(q *[]func()) {
	for len(*q) > 0 {
		next := (*q)[0]
		*q = (*q)[1:]
		next()
	}
}

// seed indexes every module/UDP definition by name and registers each
// UDP's elaborated form immediately (UDPs have no parameters or
// hierarchy, so there is nothing more to elaborate about them later).
func (s *Scheduler) seed(design *ptree.Design) {
	for _, m := range design.Modules {
		s.modByName[m.Name] = m
	}
	for _, u := range design.Udps {
		s.udpByName[u.Name] = u
		s.mgr.RegisterUdp(s.elabUdp(u))
	}
}

func (s *Scheduler) elabUdp(u *ptree.UdpDefn) *elab.UdpDefn {
	rows := make([]elab.UdpTableRow, len(u.Table))
	for i, r := range u.Table {
		rows[i] = elab.UdpTableRow{Inputs: r.Inputs, State: r.State, Output: r.Output}
	}
	return elab.NewUdpDefn(u.Name, u.FileRegion(), u.Sequential, u.InitVal, u.InputNames, u.OutputName, rows)
}

// phase1 creates the top scope, determines the top-module set (every
// module definition never named by a ModuleInstItem anywhere in the
// design, including nested inside generate regions), and instantiates
// each one.
func (s *Scheduler) phase1(design *ptree.Design) {
	s.mgr.Top = elab.NewScope(elab.ScopeTop, "$root", nil, fileset.Region{})

	instantiated := map[string]bool{}
	for _, m := range design.Modules {
		collectInstantiated(m.Items, instantiated)
	}

	for _, m := range design.Modules {
		if instantiated[m.Name] {
			continue
		}
		s.instantiateModule(s.mgr.Top, m.Name, m.Name, m.FileRegion(), nil, nil, 0, true, nil)
	}
}

// collectInstantiated walks items (recursing through generate
// constructs, which are the only items that can nest further items)
// and records every module-definition name referenced by a
// ModuleInstItem.
func collectInstantiated(items []ptree.Item, out map[string]bool) {
	for _, item := range items {
		switch it := item.(type) {
		case *ptree.ModuleInstItem:
			out[it.ModuleName] = true
		case *ptree.GenerateItem:
			collectInstantiated(it.Body, out)
		case *ptree.GenBlockItem:
			collectInstantiated(it.Body, out)
		case *ptree.GenIfItem:
			collectInstantiated([]ptree.Item{it.Then}, out)
			if it.Else != nil {
				collectInstantiated([]ptree.Item{it.Else}, out)
			}
		case *ptree.GenCaseItem:
			for _, arm := range it.Arms {
				collectInstantiated([]ptree.Item{arm.Body}, out)
			}
		case *ptree.GenForItem:
			collectInstantiated([]ptree.Item{it.Body}, out)
		}
	}
}

func arrayElemName(base string, index int) string {
	return fmt.Sprintf("%s[%d]", base, index)
}
