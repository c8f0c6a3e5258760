package driver

import (
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

// WorkerFunction is one unit of work handed to a pool worker; it returns a
// fatal error only when the whole pool should shut down.
type WorkerFunction func(t *tomb.Tomb, task any) error

// WorkerPool maintains a fixed number of goroutines draining a shared task
// channel, each re-spawned as soon as it finishes a task. It is used to
// accept connections concurrently while leaving the Book itself untouched
// by more than one goroutine at a time (see Server.applyLoop).
type WorkerPool struct {
	n     int
	tasks chan any
	log   zerolog.Logger
}

const taskChanSize = 256

func NewWorkerPool(size int, log zerolog.Logger) WorkerPool {
	return WorkerPool{
		n:     size,
		tasks: make(chan any, taskChanSize),
		log:   log,
	}
}

// AddTask enqueues a unit of work for the pool.
func (p *WorkerPool) AddTask(task any) {
	p.tasks <- task
}

// Setup keeps the pool topped up at n workers until t starts dying.
func (p *WorkerPool) Setup(t *tomb.Tomb, work WorkerFunction) {
	p.log.Info().Int("workers", p.n).Msg("starting worker pool")
	active := 0
	for {
		select {
		case <-t.Dying():
			return
		default:
			if active < p.n {
				t.Go(func() error {
					err := p.worker(t, work)
					active--
					return err
				})
				active++
			}
		}
	}
}

func (p *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	select {
	case <-t.Dying():
		return nil
	case task := <-p.tasks:
		if err := work(t, task); err != nil {
			p.log.Error().Err(err).Msg("worker exiting")
			return err
		}
	}
	return nil
}
