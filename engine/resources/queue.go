package resources

import (
	"github.com/petar/GoLLRB/llrb"

	"github.com/spaghettifunk/gameengine/engine/containers"
)

const initialBucketSize = 8

type priorityBucket struct {
	priority int
	tasks    *containers.RingQueue[*Task]
}

func (b *priorityBucket) Less(than llrb.Item) bool {
	return b.priority < than.(*priorityBucket).priority
}

// loadingQueue buckets tasks by priority, FIFO inside a bucket. Buckets
// are created on demand and never removed. highestPriority is -1 when the
// queue is empty; after a bucket drains it may point at an empty bucket
// until the next pop moves it down. Callers hold the manager queue lock.
type loadingQueue struct {
	buckets         *llrb.LLRB
	highestPriority int
	count           int
}

func newLoadingQueue() *loadingQueue {
	return &loadingQueue{
		buckets:         llrb.New(),
		highestPriority: -1,
	}
}

func (q *loadingQueue) push(task *Task) {
	key := &priorityBucket{priority: task.Priority}
	var bucket *priorityBucket
	if item := q.buckets.Get(key); item != nil {
		bucket = item.(*priorityBucket)
	} else {
		bucket = &priorityBucket{
			priority: task.Priority,
			tasks:    containers.NewGrowableRingQueue[*Task](initialBucketSize),
		}
		q.buckets.ReplaceOrInsert(bucket)
	}
	// growable queues never report full
	_ = bucket.tasks.Enqueue(task)
	q.count++
	if task.Priority > q.highestPriority {
		q.highestPriority = task.Priority
	}
}

func (q *loadingQueue) pop() (*Task, bool) {
	if q.count == 0 {
		q.highestPriority = -1
		return nil, false
	}

	var bucket *priorityBucket
	q.buckets.DescendLessOrEqual(&priorityBucket{priority: q.highestPriority}, func(i llrb.Item) bool {
		b := i.(*priorityBucket)
		if b.tasks.IsEmpty() {
			return true
		}
		bucket = b
		return false
	})
	if bucket == nil {
		// count and buckets disagree; treat as empty
		q.count = 0
		q.highestPriority = -1
		return nil, false
	}

	q.highestPriority = bucket.priority
	task, err := bucket.tasks.Dequeue()
	if err != nil {
		return nil, false
	}
	q.count--
	if q.count == 0 {
		q.highestPriority = -1
	}
	return task, true
}

func (q *loadingQueue) len() int {
	return q.count
}

// drain empties every bucket and returns the removed tasks.
func (q *loadingQueue) drain() []*Task {
	var tasks []*Task
	for {
		t, ok := q.pop()
		if !ok {
			return tasks
		}
		tasks = append(tasks, t)
	}
}
