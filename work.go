package adstrat

import (
	"context"

	"github.com/pbanos/adstrat/queue"
	"github.com/pbanos/adstrat/tree"
)

// Work takes a context, a node store, a queue and a logger
// and enters a loop in which it:
//   * pulls a task from the queue,
//   * grows the tree for the task on the node store using Grow,
//   * marks the task as completed on the queue
//
// All tasks of a forest are pushed before workers start, so as
// soon as no task can be pulled from the queue the worker ends
// returning nil.
//
// Work will return a non-nil error if the given context
// times out or is cancelled, if Grow returns a non-nil
// error or if an operation with the given queue returns a
// non-nil error. The task being worked on is dropped back
// into the queue in that case.
func Work(ctx context.Context, ns tree.NodeStore, q queue.Queue, l Logger) error {
	for {
		task, tctx, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			return nil
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, ns, q, l)
		cancel()
		if err != nil {
			return err
		}
	}
}

func workTask(ctx context.Context, task *queue.Task, ns tree.NodeStore, q queue.Queue, l Logger) error {
	t, err := Grow(ctx, ns, task.Sample, task.Attributes)
	if err != nil {
		q.Drop(context.Background(), task.ID())
		return err
	}
	task.Tree = t
	if t == nil {
		l.Logf("Tree %d is absent: its bootstrap sample is empty", task.Index)
	} else {
		l.Logf("Grew tree %d from %d records splitting on %v", task.Index, len(task.Sample), task.Attributes)
	}
	return q.Complete(ctx, task.ID())
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}
