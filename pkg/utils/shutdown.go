package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupGracefulShutdown отменяет контекст запуска по SIGINT/SIGTERM.
//
// Возвращаемую функцию вызывают через defer: она снимает обработчик
// сигналов и закрывает лог.
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer utils.SetupGracefulShutdown(cancel)()
//
// Незавершённый HTTP запрос к Rakuten или к модели прерывается вместе с ctx.
func SetupGracefulShutdown(cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			Info("Received signal, cancelling run", "signal", sig.String())
			cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
		Close()
	}
}

// SetupGracefulShutdownWithContext — обёртка для типичного случая:
//
//	ctx, shutdown := utils.SetupGracefulShutdownWithContext(parent)
//	defer shutdown()
func SetupGracefulShutdownWithContext(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	shutdown := SetupGracefulShutdown(cancel)
	return ctx, func() {
		shutdown()
		cancel()
	}
}
