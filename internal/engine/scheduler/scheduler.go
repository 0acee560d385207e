// Package scheduler decides which nodes of a module graph to rebuild and runs them leaf first.
//
// Phase 1 walks the graph from the selected nodes, marks stale nodes and
// enqueues the leaves of the rebuild set. Phase 2 drains the queue with a
// worker pool, compiling nodes whose imported interfaces changed and
// touching the rest, and releases importers as their imports finish.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/cppm/internal/core/ports"
	"go.trai.ch/cppm/internal/engine/graph"
	"go.trai.ch/cppm/internal/engine/staleness"
	"go.trai.ch/cppm/internal/engine/toolchain"
	"go.trai.ch/zerr"
)

// Request describes one scheduling run.
type Request struct {
	Graph *graph.Graph
	// Targets are the selected nodes. They need object files.
	Targets []graph.NodeID
	// Scope lists the projects whose nodes may be rebuilt. Nodes of other
	// projects are treated as built.
	Scope []*domain.Project
	// Jobs bounds the number of concurrent compiles. Zero means one per CPU.
	Jobs int
}

// Report summarizes what a run did, by node label.
type Report struct {
	// Compiled lists compiled nodes in completion order.
	Compiled []string
	// Touched lists nodes whose outputs were refreshed without compiling.
	Touched []string
	// Outcomes holds the final outcome of every visited node.
	Outcomes map[string]domain.Outcome
}

// Scheduler runs incremental builds over a module graph.
type Scheduler struct {
	executor ports.Executor
	store    ports.BuildInfoStore
	hasher   ports.Hasher
	fs       ports.FileSystem
	tlog     ports.TrackingLog
	metrics  ports.Metrics
	logger   ports.Logger
	tracer   ports.Tracer
	detector *staleness.Detector
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	executor ports.Executor,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	fsys ports.FileSystem,
	tlog ports.TrackingLog,
	metrics ports.Metrics,
	logger ports.Logger,
	tracer ports.Tracer,
) *Scheduler {
	return &Scheduler{
		executor: executor,
		store:    store,
		hasher:   hasher,
		fs:       fsys,
		tlog:     tlog,
		metrics:  metrics,
		logger:   logger,
		tracer:   tracer,
		detector: staleness.New(fsys, logger),
	}
}

// Run builds the selected nodes of the graph and everything they need.
func (s *Scheduler) Run(ctx context.Context, req Request) (*Report, error) {
	state := s.newRunState(ctx, req)

	_, span := s.tracer.Start(ctx, "staleness")
	err := state.loadStaleness()
	if err != nil {
		span.RecordError(err)
	}
	span.End()
	if err != nil {
		return nil, err
	}

	if err := state.mark(); err != nil {
		return nil, err
	}
	state.emitPlan()

	runErr := state.runExecutionLoop()
	if runErr == nil {
		runErr = state.touchUpToDate()
	}
	runErr = errors.Join(runErr, state.checkTargets())

	persistErr := state.persist()
	report := state.report()
	s.logger.Info(fmt.Sprintf("%d compiled, %d touched, %d up to date",
		len(report.Compiled), len(report.Touched), len(report.Outcomes)-len(report.Compiled)-len(report.Touched)))

	return report, errors.Join(runErr, persistErr)
}

type job struct {
	id       graph.NodeID
	label    string
	compile  bool
	command  string
	artifact string
	object   string
	dir      string
	prior    *domain.BuildInfo
}

type result struct {
	id       graph.NodeID
	err      error
	compiled bool
	changed  bool
	hash     string
	modTime  time.Time
	duration time.Duration
}

type runState struct {
	ctx         context.Context
	s           *Scheduler
	g           *graph.Graph
	walker      *graph.Walker
	targets     []graph.NodeID
	scope       map[*domain.Project]bool
	parallelism int

	stale   map[string]bool
	oodList map[*domain.Project]map[string]string
	tables  map[*domain.Project]*toolchain.Table

	infos    map[graph.NodeID]*domain.BuildInfo
	hashes   map[graph.NodeID]string
	mtimes   map[graph.NodeID]time.Time
	commands map[graph.NodeID]string
	pending  []bool
	visited  []bool
	onStack  []bool
	closure  []graph.NodeID

	ready     []graph.NodeID
	active    int
	failed    bool
	resultsCh chan result
	errs      error

	compiled []graph.NodeID
	touched  []graph.NodeID
}

func (s *Scheduler) newRunState(ctx context.Context, req Request) *runState {
	parallelism := req.Jobs
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	scope := make(map[*domain.Project]bool, len(req.Scope))
	for _, p := range req.Scope {
		scope[p] = true
	}
	n := req.Graph.Len()
	return &runState{
		ctx:         ctx,
		s:           s,
		g:           req.Graph,
		walker:      req.Graph.NewWalker(),
		targets:     req.Targets,
		scope:       scope,
		parallelism: parallelism,
		stale:       make(map[string]bool),
		oodList:     make(map[*domain.Project]map[string]string),
		tables:      make(map[*domain.Project]*toolchain.Table),
		infos:       make(map[graph.NodeID]*domain.BuildInfo),
		hashes:      make(map[graph.NodeID]string),
		mtimes:      make(map[graph.NodeID]time.Time),
		commands:    make(map[graph.NodeID]string),
		pending:     make([]bool, n),
		visited:     make([]bool, n),
		onStack:     make([]bool, n),
		resultsCh:   make(chan result, parallelism),
	}
}

// loadStaleness collects the out-of-date sources of every project in scope from
// the compile tracking logs and the persisted out-of-date lists.
func (st *runState) loadStaleness() error {
	byProject := make(map[*domain.Project][]graph.NodeID)
	var order []*domain.Project
	for i := range st.g.Len() {
		id := graph.NodeID(i)
		p := st.g.Node(id).Project
		if !st.scope[p] {
			continue
		}
		if _, ok := byProject[p]; !ok {
			order = append(order, p)
		}
		byProject[p] = append(byProject[p], id)
	}

	for _, p := range order {
		ids := byProject[p]
		sources := make([]string, 0, len(ids))
		commands := make(map[string]string, len(ids))
		for _, id := range ids {
			entry := st.g.Node(id).Entry
			sources = append(sources, entry.SourceFile)
			commands[domain.PathKey(entry.SourceFile)] = entry.BuildCommand
		}

		recorded, err := st.s.tlog.Read(p.IntDir)
		if err != nil {
			return zerr.With(err, "project", p.Name)
		}
		ood, err := st.s.detector.OutOfDate(recorded, sources, commands)
		if err != nil {
			return zerr.With(err, "project", p.Name)
		}
		for _, source := range ood {
			st.stale[domain.PathKey(source)] = true
		}

		list, err := st.readOutOfDateList(p)
		if err != nil {
			return err
		}
		st.oodList[p] = list
		for key := range list {
			st.stale[key] = true
		}
	}
	return nil
}

func (st *runState) readOutOfDateList(p *domain.Project) (map[string]string, error) {
	data, ok, err := st.s.fs.ReadFile(p.OutOfDateListFile())
	if err != nil {
		return nil, zerr.With(err, "project", p.Name)
	}
	list := make(map[string]string)
	if !ok {
		return list, nil
	}
	for line := range strings.Lines(string(data)) {
		if source := strings.TrimSpace(line); source != "" {
			list[domain.PathKey(source)] = source
		}
	}
	return list, nil
}

func (st *runState) isDone() bool {
	return st.active == 0 && (len(st.ready) == 0 || st.failed)
}

func (st *runState) runExecutionLoop() error {
	done := st.ctx.Done()
	for !st.isDone() {
		st.schedule()

		if st.isDone() {
			break
		}

		if st.ctx.Err() != nil && st.active == 0 {
			break
		}

		select {
		case res := <-st.resultsCh:
			st.handleResult(res)
		case <-done:
			// Stop dispatching and wait for work in flight.
			done = nil
		}
	}

	if st.ctx.Err() != nil {
		st.errs = errors.Join(st.errs, st.ctx.Err())
	}
	return st.errs
}

func (st *runState) schedule() {
	for len(st.ready) > 0 && st.active < st.parallelism && !st.failed && st.ctx.Err() == nil {
		id := st.ready[0]
		st.ready = st.ready[1:]

		j, err := st.newJob(id)
		if err != nil {
			st.fail(id, err)
			return
		}
		st.active++
		go st.execute(j)
	}
}

func (st *runState) newJob(id graph.NodeID) (job, error) {
	n := st.g.Node(id)
	table, err := st.table(n.Project)
	if err != nil {
		return job{}, err
	}
	refs, err := st.walker.References(id)
	if err != nil {
		return job{}, err
	}
	prior, err := st.info(id)
	if err != nil {
		return job{}, err
	}
	command := table.NodeCommand(&n.Entry.ModuleDefinition, refs)
	st.commands[id] = command
	return job{
		id:       id,
		label:    st.g.Label(id),
		compile:  n.InterfaceChanged || n.HasWork(),
		command:  command,
		artifact: n.Entry.InterfaceArtifact,
		object:   n.Entry.ObjectFile,
		dir:      n.Project.Dir,
		prior:    prior,
	}, nil
}

func (st *runState) execute(j job) {
	// The span ends before the result is sent so the run never finishes
	// ahead of its spans.
	res := func() result {
		ctx, span := st.s.tracer.Start(st.ctx, j.label)
		defer span.End()

		if !j.compile {
			touched, err := st.touch(j)
			if err != nil {
				span.RecordError(err)
				return result{id: j.id, err: err}
			}
			if touched {
				return result{id: j.id}
			}
			// Outputs went missing, so touching cannot stand in for a compile.
		}

		res := st.compile(ctx, j, span)
		if res.err != nil {
			span.RecordError(res.err)
		}
		span.SetAttribute("cppm.interface_changed", res.changed)
		return res
	}()

	st.resultsCh <- res
}

func (st *runState) touch(j job) (bool, error) {
	outputs := []string{j.object}
	if j.artifact != "" {
		outputs = append(outputs, j.artifact)
	}
	for _, out := range outputs {
		_, ok, err := st.s.fs.ModTime(out)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	for _, out := range outputs {
		if err := st.s.fs.Touch(out); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (st *runState) compile(ctx context.Context, j job, span ports.Span) result {
	res := result{id: j.id, compiled: true}

	var before string
	if j.artifact != "" {
		hash, err := st.priorHash(j)
		if err != nil {
			res.err = err
			return res
		}
		before = hash
	}

	start := time.Now()
	_, err := st.s.executor.Execute(ctx, ports.Invocation{
		Name:    j.label,
		Command: j.command,
		Dir:     j.dir,
		Output:  span,
	})
	res.duration = time.Since(start)
	if err != nil {
		res.err = zerr.With(zerr.Wrap(err, domain.ErrCompileFailure.Error()), "source", j.label)
		return res
	}

	if j.artifact == "" {
		return res
	}
	mtime, ok, err := st.s.fs.ModTime(j.artifact)
	if err != nil || !ok {
		res.err = zerr.With(zerr.With(domain.ErrMissingInterfaceArtifact, "source", j.label), "artifact", j.artifact)
		return res
	}
	after, err := st.s.hasher.ComputeFileHash(j.artifact)
	if err != nil {
		res.err = zerr.With(zerr.Wrap(err, domain.ErrMissingInterfaceArtifact.Error()), "source", j.label)
		return res
	}
	res.hash = after
	res.modTime = mtime
	res.changed = before == "" || before != after
	return res
}

// priorHash returns the interface hash before compiling. The recorded hash is
// trusted while the artifact keeps its recorded modification time.
func (st *runState) priorHash(j job) (string, error) {
	mtime, ok, err := st.s.fs.ModTime(j.artifact)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	if j.prior != nil && j.prior.InterfaceHash != "" && j.prior.InterfaceModTime.Equal(mtime) {
		return j.prior.InterfaceHash, nil
	}
	hash, err := st.s.hasher.ComputeFileHash(j.artifact)
	if err != nil {
		// An unreadable artifact is replaced by the compile anyway.
		return "", nil //nolint:nilerr // treated as absent
	}
	return hash, nil
}

func (st *runState) handleResult(res result) {
	st.active--

	if res.err != nil {
		st.fail(res.id, res.err)
		return
	}

	n := st.g.Node(res.id)
	n.BuildFinished = true
	if res.compiled {
		n.Outcome = domain.OutcomeCompiled
		st.compiled = append(st.compiled, res.id)
		st.s.metrics.NodeCompiled(res.duration)
		if n.Entry.Exports() {
			st.hashes[res.id] = res.hash
			st.mtimes[res.id] = res.modTime
			if !res.changed {
				st.s.metrics.InterfaceUnchanged()
			}
		}
	} else {
		n.Outcome = domain.OutcomeTouched
		st.touched = append(st.touched, res.id)
		st.s.metrics.NodeTouched()
	}

	for _, dep := range n.ImportedBy {
		m := st.g.Node(dep)
		if res.changed {
			m.InterfaceChanged = true
		}
		m.PendingImports--
		if m.PendingImports == 0 {
			st.ready = append(st.ready, dep)
		}
	}
}

// fail records the first and any later failures. No new work is dispatched
// once a node failed; work in flight is allowed to finish.
func (st *runState) fail(id graph.NodeID, err error) {
	st.g.Node(id).Outcome = domain.OutcomeFailed
	st.failed = true
	st.errs = errors.Join(st.errs, err)
}

// touchUpToDate refreshes the outputs of up-to-date nodes of projects in scope.
func (st *runState) touchUpToDate() error {
	for _, id := range st.closure {
		n := st.g.Node(id)
		if n.Outcome != domain.OutcomeUpToDate || !st.scope[n.Project] {
			continue
		}
		j := job{id: id, object: n.Entry.ObjectFile, artifact: n.Entry.InterfaceArtifact}
		touched, err := st.touch(j)
		if err != nil {
			return err
		}
		if !touched {
			continue
		}
		n.Outcome = domain.OutcomeTouched
		st.touched = append(st.touched, id)
		st.s.metrics.NodeTouched()
	}
	return nil
}

func (st *runState) checkTargets() error {
	var missing []string
	for _, id := range st.targets {
		if !st.g.Node(id).BuildFinished {
			missing = append(missing, st.g.Label(id))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return zerr.With(domain.ErrTargetsNotBuilt, "targets", strings.Join(missing, ", "))
}

func (st *runState) table(p *domain.Project) (*toolchain.Table, error) {
	if t, ok := st.tables[p]; ok {
		return t, nil
	}
	t, err := toolchain.Lookup(p.Toolchain)
	if err != nil {
		return nil, zerr.With(err, "project", p.Name)
	}
	st.tables[p] = t
	return t, nil
}

func (st *runState) info(id graph.NodeID) (*domain.BuildInfo, error) {
	if info, ok := st.infos[id]; ok {
		return info, nil
	}
	n := st.g.Node(id)
	info, err := st.s.store.Get(n.Project.StoreDir(), n.Entry.SourceFile)
	if err != nil {
		return nil, zerr.With(err, "source", n.Entry.SourceFile)
	}
	st.infos[id] = info
	return info, nil
}

// currentHash returns the latest known interface hash of an exporter.
func (st *runState) currentHash(id graph.NodeID) (string, error) {
	if hash, ok := st.hashes[id]; ok {
		return hash, nil
	}
	info, err := st.info(id)
	if err != nil || info == nil {
		return "", err
	}
	return info.InterfaceHash, nil
}

func (st *runState) report() *Report {
	r := &Report{Outcomes: make(map[string]domain.Outcome, len(st.closure))}
	for _, id := range st.compiled {
		r.Compiled = append(r.Compiled, st.g.Label(id))
	}
	for _, id := range st.touched {
		r.Touched = append(r.Touched, st.g.Label(id))
	}
	for _, id := range st.closure {
		r.Outcomes[st.g.Label(id)] = st.g.Node(id).Outcome
	}
	return r
}
