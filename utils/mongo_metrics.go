package utils

import (
	"sync/atomic"
)

// StoreOpCounts carries cheap in-process counters for persistence traffic.
// The prometheus histograms cover scrape-time observability; these atomics
// back the traffic line the verify command prints after a repair.
type StoreOpCounts struct {
	Finds   int64
	Saves   int64
	Deletes int64
	Pulls   int64 // child-list detaches
	Pushes  int64 // child-list attaches
}

var storeOps StoreOpCounts

func CountFind()   { atomic.AddInt64(&storeOps.Finds, 1) }
func CountSave()   { atomic.AddInt64(&storeOps.Saves, 1) }
func CountDelete() { atomic.AddInt64(&storeOps.Deletes, 1) }
func CountPull()   { atomic.AddInt64(&storeOps.Pulls, 1) }
func CountPush()   { atomic.AddInt64(&storeOps.Pushes, 1) }

func GetStoreOpCounts() StoreOpCounts {
	return StoreOpCounts{
		Finds:   atomic.LoadInt64(&storeOps.Finds),
		Saves:   atomic.LoadInt64(&storeOps.Saves),
		Deletes: atomic.LoadInt64(&storeOps.Deletes),
		Pulls:   atomic.LoadInt64(&storeOps.Pulls),
		Pushes:  atomic.LoadInt64(&storeOps.Pushes),
	}
}
