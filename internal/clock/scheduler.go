// Package clock drives the cooperative timing of the simulations.
//
// A Scheduler owns simulated time. Front-ends advance it once per rendered
// frame and every due task runs on the caller's goroutine, so tasks never
// interleave with each other or with the frame work.
package clock

import "time"

// DefaultMaxCatchUp bounds how many times one repeating task may fire within a
// single Advance. A stalled frame therefore slows a session down instead of
// replaying hundreds of ticks at once.
const DefaultMaxCatchUp = 8

// Timer schedules cancelable callbacks.
type Timer interface {
	Every(period time.Duration, fn func()) *Task
	After(delay time.Duration, fn func()) *Task
}

// Task is a handle to a scheduled callback.
type Task struct {
	fn      func()
	period  time.Duration
	next    time.Duration
	repeat  bool
	stopped bool
	fired   int
}

// Stop cancels the task. Stopping a nil or finished task is a no-op.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.stopped = true
}

// Active reports whether the task can still fire.
func (t *Task) Active() bool {
	return t != nil && !t.stopped
}

// Fired returns how many times the task has run.
func (t *Task) Fired() int {
	if t == nil {
		return 0
	}
	return t.fired
}

// Scheduler is a manually advanced timer wheel.
type Scheduler struct {
	MaxCatchUp int

	now   time.Duration
	tasks []*Task
}

// NewScheduler creates a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{MaxCatchUp: DefaultMaxCatchUp}
}

// Now returns the scheduler's simulated time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Every runs fn each period, first at now+period.
func (s *Scheduler) Every(period time.Duration, fn func()) *Task {
	if period <= 0 {
		period = time.Millisecond
	}
	t := &Task{fn: fn, period: period, next: s.now + period, repeat: true}
	s.tasks = append(s.tasks, t)
	return t
}

// After runs fn once when delay has elapsed.
func (s *Scheduler) After(delay time.Duration, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	t := &Task{fn: fn, next: s.now + delay}
	s.tasks = append(s.tasks, t)
	return t
}

// Pending returns the number of live tasks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// StopAll cancels every task.
func (s *Scheduler) StopAll() {
	for _, t := range s.tasks {
		t.stopped = true
	}
	s.tasks = s.tasks[:0]
}

// Advance moves time forward by dt, running due tasks in time order.
// Tasks scheduled or stopped by a callback take effect immediately.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	limit := s.MaxCatchUp
	if limit <= 0 {
		limit = DefaultMaxCatchUp
	}
	burst := make(map[*Task]int)

	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.next
		if t.repeat {
			t.next += t.period
			burst[t]++
			if burst[t] >= limit && t.next <= target {
				// Drop the backlog; resume on the period grid after target.
				missed := (target-t.next)/t.period + 1
				t.next += missed * t.period
			}
		} else {
			t.stopped = true
		}
		t.fired++
		t.fn()
	}
	s.now = target
	s.compact()
}

func (s *Scheduler) nextDue(target time.Duration) *Task {
	var due *Task
	for _, t := range s.tasks {
		if t.stopped || t.next > target {
			continue
		}
		if due == nil || t.next < due.next {
			due = t
		}
	}
	return due
}

func (s *Scheduler) compact() {
	live := 0
	for _, t := range s.tasks {
		if t.stopped {
			continue
		}
		s.tasks[live] = t
		live++
	}
	for i := live; i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = s.tasks[:live]
}
