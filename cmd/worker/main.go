package main

import (
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Gamepig/coach-rocks-ai-sub001/internal/bootstrap"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/config"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/shared/telemetry"
	"github.com/Gamepig/coach-rocks-ai-sub001/internal/workerproc"
)

const maxConcurrentAnalyses = 4

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg, bootstrap.Options{Worker: true})
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentAnalyses)

	log.Printf("worker consuming %s", cfg.NATSSubject)
	err = app.NATS.Subscribe(ctx, func(_ context.Context, body []byte) {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			// Detached from the signal context so a drain does not abort
			// an analysis that is already past its queue hand-off.
			if err := workerproc.HandleMessage(context.Background(), app.Service, body); err != nil {
				meta := workerproc.ComputeMeta(body)
				telemetry.Error("worker.message_rejected", map[string]any{
					"body_len": meta.BodyLen,
					"body_sha": meta.BodySHA,
					"error":    err.Error(),
				})
			}
		}()
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	// Let in-flight analyses finish before closing the connections.
	wg.Wait()
	log.Printf("worker stopped")
}
