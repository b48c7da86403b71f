package meshing

import (
	"context"
	"fmt"
	"log"
	"sync"

	"blockmesh/internal/registry"
	"blockmesh/internal/world"
)

// Kind selects which mesh a job builds.
type Kind int

const (
	KindRender Kind = iota
	KindCollision
)

func (k Kind) String() string {
	if k == KindCollision {
		return kindCollision
	}
	return kindRender
}

// Job represents a meshing job request. The pool meshes a private copy of
// Volume taken at submit time, so the caller may keep editing it.
type Job struct {
	Tile      world.TileCoord
	Volume    *world.Volume
	Neighbors [registry.NumFaces][]registry.BlockType
	Kind      Kind
	// Result channel - will be sent the result when done
	ResultChan chan Result
}

// Result contains the result of a meshing operation.
type Result struct {
	Tile world.TileCoord
	Kind Kind
	Mesh *Mesh
	Err  error
}

// WorkerPool manages goroutines for mesh generation
type WorkerPool struct {
	jobQueue chan Job
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	once     sync.Once
}

// NewWorkerPool creates a new mesh worker pool. The pool stops when ctx is
// cancelled or Shutdown is called.
func NewWorkerPool(ctx context.Context, workers int, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(ctx)
	pool := &WorkerPool{
		jobQueue: make(chan Job, queueSize),
		workers:  max(workers, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// snapshot copies the job's inputs so workers never share memory with the caller.
func snapshot(job Job) Job {
	if job.Volume != nil {
		job.Volume = job.Volume.Clone()
	}
	for f, nb := range job.Neighbors {
		if nb != nil {
			job.Neighbors[f] = append([]registry.BlockType(nil), nb...)
		}
	}
	return job
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool) SubmitJob(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- snapshot(job):
		return true
	default:
		return false
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued or the pool
// stops, returning the context error in the latter case.
func (p *WorkerPool) SubmitJobBlocking(job Job) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	job = snapshot(job)
	select {
	case p.jobQueue <- job:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := run(job)
			if result.Err != nil {
				poolJobFailures.Inc()
				log.Printf("meshing: worker %d: tile %v: %v", id, job.Tile, result.Err)
			}

			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// run builds one job, converting a panic from a contract violation into an error.
func run(job Job) (res Result) {
	res = Result{Tile: job.Tile, Kind: job.Kind}
	defer func() {
		if r := recover(); r != nil {
			res.Mesh = nil
			res.Err = fmt.Errorf("mesh %s: %v", job.Kind, r)
		}
	}()

	b := NewBuilderForVolume(job.Volume, job.Neighbors)
	if job.Kind == KindCollision {
		res.Mesh = b.GenerateCollisionMesh()
	} else {
		res.Mesh = b.GenerateRenderMesh()
	}
	return res
}

// Shutdown stops the workers and waits for them to exit. Queued jobs that
// have not started are dropped.
func (p *WorkerPool) Shutdown() {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}

// QueueLength returns the current number of jobs in the queue
func (p *WorkerPool) QueueLength() int {
	return len(p.jobQueue)
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}
