// Package workerpool bounds how many expensive calls run at once and lets a
// caller stop waiting for one without interrupting it.
//
// Password hashing and RSA key generation take tens to hundreds of
// milliseconds of CPU. Running an unbounded number of them from request
// handlers starves everything else, so handlers hand them to a Pool:
//
//	pool := workerpool.New(4)
//
//	hash, err := workerpool.Run(ctx, pool, func() (string, error) {
//	    return vault.Hash(password)
//	})
//	if errors.Is(err, context.DeadlineExceeded) {
//	    // the hash is still being computed; its result will be dropped
//	}
//
// A call that has started always runs to completion and holds its slot
// until it returns. Nothing is retried.
package workerpool
