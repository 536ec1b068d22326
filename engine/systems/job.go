package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/j3dview/engine/core"
)

/**
 * @brief A unit of work for the job system. Run executes on a worker
 * goroutine; OnComplete and OnFailure execute on the goroutine that calls
 * Update, which is the render loop.
 */
type JobTask struct {
	Name       string
	Run        func() (interface{}, error)
	OnComplete func(result interface{})
	OnFailure  func(err error)
}

type jobResult struct {
	task   JobTask
	result interface{}
	err    error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	results    chan jobResult
	wg         sync.WaitGroup

	mutex    sync.Mutex
	pending  int
	shutdown bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemShutdown = fmt.Errorf("job system is shut down")
var ErrJobQueueFull = fmt.Errorf("job queue is full")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
		results:    make(chan jobResult, numWorkers+channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := job.Run()
				if err != nil {
					core.LogError("Job '%s' failed: %s", job.Name, err.Error())
				}
				js.results <- jobResult{task: job, result: result, err: err}
			}
		}()
	}
}

/**
 * @brief Shuts the job system down. Queued jobs still run; their
 * callbacks are dropped.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.shutdown {
		js.mutex.Unlock()
		return nil
	}
	js.shutdown = true
	js.mutex.Unlock()

	close(js.jobQueue)
	go func() {
		// keep workers from blocking on a full results channel
		for range js.results {
		}
	}()
	js.wg.Wait()
	close(js.results)
	return nil
}

/**
 * @brief Runs the callbacks of every finished job. Should happen once an
 * update cycle. Returns the number of callbacks run.
 */
func (js *JobSystem) Update() int {
	ran := 0
	for {
		select {
		case r, ok := <-js.results:
			if !ok {
				return ran
			}
			js.mutex.Lock()
			js.pending--
			js.mutex.Unlock()
			if r.err != nil {
				if r.task.OnFailure != nil {
					r.task.OnFailure(r.err)
				}
			} else if r.task.OnComplete != nil {
				r.task.OnComplete(r.result)
			}
			ran++
		default:
			return ran
		}
	}
}

// Pending counts submitted jobs whose callbacks have not run yet.
func (js *JobSystem) Pending() int {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	return js.pending
}

/**
 * @brief Submits the provided job to be queued for execution. Never blocks:
 * once as many jobs are outstanding as workers and queue slots combined,
 * ErrJobQueueFull is returned until Update collects some results.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	js.mutex.Lock()
	if js.shutdown {
		js.mutex.Unlock()
		return ErrJobSystemShutdown
	}
	if js.pending >= cap(js.results) {
		js.mutex.Unlock()
		return ErrJobQueueFull
	}
	js.pending++
	// under the lock so Shutdown cannot close the queue mid-send
	js.jobQueue <- jt
	js.mutex.Unlock()
	return nil
}
