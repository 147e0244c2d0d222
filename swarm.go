// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"log"
	"runtime"
	"sync"
)

// jobQueue is an unbounded multi-producer multi-consumer queue of
// normalized queries. Producers never block; consumers block until a
// job arrives or the queue is closed. A bounded channel would risk
// deadlock here, since every worker is also a producer.
type jobQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []ite
	closed bool
}

func newJobQueue() *jobQueue {
	q := &jobQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *jobQueue) push(job ite) {
	q.mu.Lock()
	q.items = append(q.items, job)
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks for the next job. ok is false once the queue is closed
// and drained.
func (q *jobQueue) pop() (job ite, ok bool) {
	q.mu.Lock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) > 0 {
		job, ok = q.items[0], true
		q.items = q.items[1:]
	}
	q.mu.Unlock()
	return job, ok
}

func (q *jobQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// worker advances one query at a time. A freshly delegated sub-query
// is kept in the next slot instead of going through the shared queue,
// so a worker follows its own chain of work while it can.
type worker struct {
	id      int
	state   *workState
	queue   *jobQueue
	answers chan<- NID
	next    ite
	hasNext bool
}

func (w *worker) push(job ite) {
	if !w.hasNext {
		w.next, w.hasNext = job, true
	} else {
		w.queue.push(job)
	}
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		var job ite
		if w.hasNext {
			job, w.hasNext = w.next, false
		} else {
			var ok bool
			job, ok = w.queue.pop()
			if !ok {
				return
			}
		}
		w.workJob(job)
	}
}

// workJob performs one step for a query and routes the outcome: a
// finished nid resolves the query; otherwise the partial node is
// registered and the branch sub-queries are linked in, delegating the
// ones nobody has seen before.
func (w *worker) workJob(q ite) {
	st := w.state
	var ans NID
	found := false
	step := st.iteStep(q)
	if step.isNid {
		ans, found = st.resolveNid(q, step.nid)
	} else {
		st.addWip(q, step.v, false)
		for _, sub := range [2]struct {
			n    norm
			part HiLoPart
		}{{step.hi, HiPart}, {step.lo, LoPart}} {
			if sub.n.done {
				if a, ok := st.resolvePart(q, sub.part, sub.n.nid, false); ok {
					ans, found = a, true
				}
			} else {
				fresh, a, ok := st.addDep(sub.n.key, dep{q: q, part: sub.part, invert: sub.n.inv})
				if ok {
					ans, found = a, true
				}
				if fresh {
					w.push(sub.n.key)
				}
			}
		}
	}
	if found {
		if w.hasNext {
			// drained answer while holding a local job; hand it off
			w.queue.push(w.next)
			w.hasNext = false
		}
		w.answers <- ans
	}
}

// swarm owns the worker pool and the shared state behind one Base.
type swarm struct {
	state   *workState
	queue   *jobQueue
	answers chan NID
	wg      sync.WaitGroup
	qmu     sync.Mutex
	nw      int
	once    sync.Once
}

// defaultWorkers is the worker count used when the Workers option is
// absent: one goroutine per CPU, minus one for the caller, at least
// one.
func defaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

func newSwarm(nworkers, nshards int) *swarm {
	if nworkers < 1 {
		nworkers = defaultWorkers()
	}
	s := &swarm{
		state:   newWorkState(nshards),
		queue:   newJobQueue(),
		answers: make(chan NID, 1),
		nw:      nworkers,
	}
	for i := 0; i < nworkers; i++ {
		w := &worker{id: i, state: s.state, queue: s.queue, answers: s.answers}
		s.wg.Add(1)
		go w.run(&s.wg)
	}
	return s
}

// ite runs one top-level query to completion. Queries are serialized:
// there is exactly one answer slot, so a second caller waits here
// until the first answer lands.
func (s *swarm) ite(f, g, h NID) NID {
	if _LOGLEVEL > 0 {
		log.Printf("ite(%s, %s, %s)", f, g, h)
	}
	nm := normIte(f, g, h)
	if nm.done {
		return nm.nid
	}
	s.qmu.Lock()
	defer s.qmu.Unlock()
	if n, ok := s.state.getDone(nm.key); ok {
		if nm.inv {
			n = n.Not()
		}
		return n
	}
	s.state.addTask(nm.key)
	s.queue.push(nm.key)
	n := <-s.answers
	if nm.inv {
		n = n.Not()
	}
	return n
}

// shutdown stops the workers and waits for them to exit.
func (s *swarm) shutdown() {
	s.once.Do(func() {
		s.queue.close()
		s.wg.Wait()
	})
}
