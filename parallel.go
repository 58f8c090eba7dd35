package galsim

// parallelFor runs fn over [0, n) split into dynamically claimed chunks of
// the given size. The last worker runs on the calling goroutine; the
// completion channel is the join barrier. fn is called with disjoint
// [lo, hi) ranges, so it may write shared output slices without locking as
// long as writes stay inside the range.
func parallelFor(n, workers, chunk int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers <= 1 || n <= chunk {
		fn(0, n)
		return
	}

	work := make(chan int, (n+chunk-1)/chunk)
	for lo := 0; lo < n; lo += chunk {
		work <- lo
	}
	close(work)

	out := make(chan int, workers)
	worker := func(id int) {
		for lo := range work {
			hi := lo + chunk
			if hi > n {
				hi = n
			}
			fn(lo, hi)
		}
		out <- id
	}

	for id := 0; id < workers-1; id++ {
		go worker(id)
	}
	worker(workers - 1)

	for i := 0; i < workers; i++ {
		<-out
	}
}
