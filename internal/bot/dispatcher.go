package bot

import "sync"

// dispatcher выполняет задачи одного пользователя строго по очереди,
// задачи разных пользователей - параллельно.
type dispatcher struct {
	mu     sync.Mutex
	queues map[int64]*queue
	closed bool
	wg     sync.WaitGroup
}

type queue struct {
	jobs []func()
}

func newDispatcher() *dispatcher {
	return &dispatcher{queues: make(map[int64]*queue)}
}

// Dispatch ставит задачу в очередь ключа; после Close задачи не принимаются
func (d *dispatcher) Dispatch(key int64, job func()) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	if q, ok := d.queues[key]; ok {
		q.jobs = append(q.jobs, job)
		d.mu.Unlock()
		return true
	}
	q := &queue{jobs: []func(){job}}
	d.queues[key] = q
	d.wg.Add(1)
	d.mu.Unlock()

	go d.drain(key, q)
	return true
}

func (d *dispatcher) drain(key int64, q *queue) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(q.jobs) == 0 {
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		job := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		d.mu.Unlock()

		job()
	}
}

// Close перестаёт принимать задачи и ждёт, пока опустеют все очереди.
// Повторный вызов безопасен.
func (d *dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
