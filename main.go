package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/YLivay/delimited/log"
)

func main() {
	ctx, cancelCtx := context.WithCancel(context.Background())

	cleanupOsSignals := setupOsSignals(ctx, cancelCtx)
	err := newRootCmd().ExecuteContext(ctx)
	cleanupOsSignals()

	if err != nil {
		log.Fatalln("Error:", err)
	}
}

func setupOsSignals(ctx context.Context, cancelCtx context.CancelFunc) (cleanup func()) {
	// Catch ctrl+c signal and make it close the context instead of immediately
	// exiting. Workers stop between records and temporary files get removed.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)

	cleanup = func() {
		signal.Stop(signalChan)
		cancelCtx()
	}

	go func() {
		select {
		case <-signalChan:
			log.Debugln("Ctrl+C pressed")
			cancelCtx()
		case <-ctx.Done():
		}
	}()

	return cleanup
}
