package systems

import (
	"runtime"
	"sync"
)

// rowChunk is a range of lattice rows for one worker.
type rowChunk struct {
	start, end int
	fn         func(row int)
}

// rowPool is a persistent set of workers that split lattice rows between them.
type rowPool struct {
	numWorkers int

	workChan chan rowChunk  // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

func newRowPool() *rowPool {
	return &rowPool{numWorkers: runtime.GOMAXPROCS(0)}
}

// start launches the worker goroutines.
func (p *rowPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan rowChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *rowPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *rowPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			for row := chunk.start; row < chunk.end; row++ {
				chunk.fn(row)
			}
			p.doneChan <- struct{}{}
		}
	}
}

// run calls fn for every row in [0, rows) and returns when all are done.
func (p *rowPool) run(rows int, fn func(row int)) {
	p.start()

	chunkSize := (rows + p.numWorkers - 1) / p.numWorkers
	if chunkSize < 1 {
		chunkSize = 1
	}

	dispatched := 0
	for start := 0; start < rows; start += chunkSize {
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		p.workChan <- rowChunk{start: start, end: end, fn: fn}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
