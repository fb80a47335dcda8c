package renderer

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Task is a unit of work executed by exactly one worker
type Task func()

// WorkerPool runs submitted tasks on a fixed set of goroutines.
// Tasks are taken from the queue in submission order. Closing the queue is the
// only termination signal, so every worker drains all earlier tasks before it exits.
type WorkerPool struct {
	taskQueue  chan Task
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
	started    atomic.Bool
	stopped    atomic.Bool
	completed  atomic.Int64
}

// Worker executes tasks from the shared queue until it is closed
type Worker struct {
	ID        int
	taskQueue chan Task
	pool      *WorkerPool
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// numWorkers <= 0 uses one worker per CPU. queueSize is the channel buffer; Submit
// blocks while the buffer is full.
func NewWorkerPool(numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if queueSize < 0 {
		queueSize = 0
	}

	wp := &WorkerPool{
		taskQueue:  make(chan Task, queueSize),
		numWorkers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:        i,
			taskQueue: wp.taskQueue,
			pool:      wp,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		panic("renderer: worker pool started twice")
	}

	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Submit queues a task. It panics if the pool is not running.
func (wp *WorkerPool) Submit(task Task) {
	if !wp.started.Load() {
		panic("renderer: submit to a worker pool that was not started")
	}
	if wp.stopped.Load() {
		panic("renderer: submit to a stopped worker pool")
	}
	wp.taskQueue <- task
}

// Stop closes the queue and waits until every submitted task has run
func (wp *WorkerPool) Stop() {
	if !wp.started.Load() {
		panic("renderer: stop of a worker pool that was not started")
	}
	if !wp.stopped.CompareAndSwap(false, true) {
		panic("renderer: worker pool stopped twice")
	}

	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// CompletedTasks returns how many tasks have finished so far
func (wp *WorkerPool) CompletedTasks() int {
	return int(wp.completed.Load())
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		task()
		w.pool.completed.Add(1)
	}
}
