package games

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Job é um trabalho executado depois que a mesa libera o lock (persistência,
// notificações).
type Job struct {
	Name string
	Run  func() error
}

// Dispatcher executa os jobs em ordem, um por vez, numa goroutine própria.
type Dispatcher struct {
	jobs    chan Job
	log     logrus.FieldLogger
	pending sync.WaitGroup
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewDispatcher inicia a fila com espaço para buffer jobs.
func NewDispatcher(buffer int, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	d := &Dispatcher{
		jobs: make(chan Job, buffer),
		log:  log.WithField("component", "dispatcher"),
		done: make(chan struct{}),
	}
	go d.processQueue()
	return d
}

// Enqueue coloca o job na fila. Depois de Close o job é descartado.
func (d *Dispatcher) Enqueue(job Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.WithField("job", job.Name).Warn("dispatcher closed, dropping job")
		return
	}
	d.pending.Add(1)
	d.jobs <- job
}

// Pending é o número de jobs ainda na fila.
func (d *Dispatcher) Pending() int {
	return len(d.jobs)
}

// Flush espera todos os jobs enfileirados terminarem.
func (d *Dispatcher) Flush() {
	d.pending.Wait()
}

// Close termina a fila depois de executar o que já foi enfileirado.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) processQueue() {
	defer close(d.done)
	for job := range d.jobs {
		if err := job.Run(); err != nil {
			d.log.WithError(err).WithField("job", job.Name).Error("job failed")
		}
		d.pending.Done()
	}
}
