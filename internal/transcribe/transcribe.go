package transcribe

import "context"

// Transcriber converts stored audio to text. The ref argument is the storage
// reference returned by the ingest store. Any failure from the engine
// propagates to the caller; the upload orchestrator decides how to record it.
type Transcriber interface {
	Transcribe(ctx context.Context, ref string) (string, error)
}

// Func adapts a plain function to the Transcriber interface. Used by tests
// and for stubbing out the engine.
type Func func(ctx context.Context, ref string) (string, error)

func (f Func) Transcribe(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}
