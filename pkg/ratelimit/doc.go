// Package ratelimit throttles calls to the photo service.
//
// The service allows a handful of requests per second per client; batch
// renders share one TokenBucket so concurrent workers stay under that limit.
//
//	limiter := ratelimit.PerSecond(3)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err // ctx cancelled while waiting
//	}
package ratelimit
