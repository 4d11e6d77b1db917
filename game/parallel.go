package game

import (
	"cmp"
	"runtime"
	"slices"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/clique/systems"
	"github.com/pthm-cable/clique/telemetry"
)

// defaultParallelThreshold applies when the config leaves the threshold unset.
const defaultParallelThreshold = 64

// entitySnapshot captures read-only state for the decide phase.
type entitySnapshot struct {
	Entity ecs.Entity
	systems.Snapshot
}

// intent captures a computed decision to apply after the parallel phase.
type intent struct {
	systems.Decision
	Crowded bool
	Kin     bool
}

// workChunk represents a range of agents for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for parallel vote computation.
type parallelState struct {
	threshold  int
	entities   []entitySnapshot // sorted by ID
	agents     []systems.Snapshot
	index      *systems.NeighborIndex
	intents    []intent
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(threshold int) *parallelState {
	if threshold < 1 {
		threshold = defaultParallelThreshold
	}
	return &parallelState{
		threshold:  threshold,
		numWorkers: runtime.GOMAXPROCS(0),
		entities:   make([]entitySnapshot, 0, 64),
		agents:     make([]systems.Snapshot, 0, 64),
		intents:    make([]intent, 0, 64),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// takeSnapshot copies every agent's state, ordered by ID, and indexes the
// positions for neighbor queries.
func (g *Game) takeSnapshot() {
	p := g.parallel
	p.entities = p.entities[:0]

	query := g.agentFilter.Query()
	for query.Next() {
		id, pos, _, body, persona, _ := query.Get()
		p.entities = append(p.entities, entitySnapshot{
			Entity: query.Entity(),
			Snapshot: systems.Snapshot{
				ID:      id.ID,
				Player:  id.Player,
				Pos:     *pos,
				Body:    *body,
				Persona: *persona,
			},
		})
	}

	slices.SortFunc(p.entities, func(a, b entitySnapshot) int {
		return cmp.Compare(a.ID, b.ID)
	})

	p.agents = p.agents[:0]
	for i := range p.entities {
		p.agents = append(p.agents, p.entities[i].Snapshot)
	}
	p.index = systems.NewNeighborIndex(p.agents)
}

// decide computes every agent's votes, then resolves and stages the moves.
func (g *Game) decide() {
	n := len(g.parallel.entities)
	if n == 0 {
		return
	}

	if cap(g.parallel.intents) < n {
		g.parallel.intents = make([]intent, n)
	}
	g.parallel.intents = g.parallel.intents[:n]

	// Votes are pure, so they can be computed in any order
	if n < g.parallel.threshold {
		g.computeChunk(0, n)
	} else {
		g.computeParallel(n)
	}

	// Draws consume the shared rng, so they run single-threaded in ID order
	g.applyIntents()
}

// computeParallel dispatches work to the worker pool.
func (g *Game) computeParallel(n int) {
	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		g.parallel.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

// computeChunk tallies votes for a range of agents. It only reads the
// snapshot and writes its own intents.
func (g *Game) computeChunk(i0, i1 int) {
	p := g.parallel
	for i := i0; i < i1; i++ {
		snap := &p.entities[i].Snapshot
		in := &p.intents[i]
		*in = intent{}

		if snap.Player {
			continue
		}

		rel, ok := p.index.Nearest(*snap)
		if !ok {
			in.Votes = systems.Idle(g.weights)
			continue
		}
		in.Votes = systems.Tally(*snap, rel, g.weights)
		in.Neighbor = rel.Neighbor.ID
		in.HasNeighbor = true
		in.Dist = rel.Dist
		in.Crowded = snap.Persona.Crowded(rel.Dist)
		in.Kin = rel.Neighbor.Body.Kind == snap.Body.Kind
	}
}

// applyIntents resolves each tally and writes the staged position.
func (g *Game) applyIntents() {
	p := g.parallel
	for i := range p.entities {
		snap := &p.entities[i]
		in := &p.intents[i]

		staged := g.stagedMap.Get(snap.Entity)
		if snap.Player {
			in.Direction = systems.Stay
			*staged = systems.Move(snap.Pos, systems.Stay)
			continue
		}

		in.Direction = g.resolver.Resolve(in.Votes)
		*staged = systems.Move(snap.Pos, in.Direction)

		g.collector.RecordMove(in.Direction)
		if in.Crowded {
			g.collector.RecordCrowded()
		}
		if !in.HasNeighbor {
			g.collector.RecordIsolated()
		}
		g.lifetimes.RecordDecision(snap.ID, telemetry.Outcome{
			Stayed:   in.Direction == systems.Stay,
			Crowded:  in.Crowded,
			Kin:      in.Kin,
			Isolated: !in.HasNeighbor,
		})
	}
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
