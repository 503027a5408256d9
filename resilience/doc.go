// Package resilience limits how much work the service takes on at once.
//
// A Bulkhead caps concurrent transcriptions. Each one may hold an ffmpeg
// process and an outbound upload, so the cap bounds both.
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "transcribe", MaxConcurrent: 4, MaxWait: 30 * time.Second})
//	release, err := bh.Acquire(ctx)
//	if err != nil {
//	    return err // ErrBulkheadFull, ErrBulkheadTimeout or ctx.Err()
//	}
//	defer release()
package resilience
