package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"documate/internal/shared/telemetry"
)

const (
	defaultWorkers      = 4
	workerQueueDepth    = 16
	defaultDrainTimeout = 30 * time.Second
)

// Run dispatches updates until ctx is done or updates is closed, then waits
// for queued updates. A chat always lands on the same worker so its updates
// are handled in arrival order. Handlers outlive ctx by at most DrainTimeout.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	workers := b.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	drain := b.DrainTimeout
	if drain <= 0 {
		drain = defaultDrainTimeout
	}

	handleCtx, cancelHandle := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelHandle()

	queues := make([]chan tgbotapi.Update, workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan tgbotapi.Update, workerQueueDepth)
		wg.Add(1)
		go func(id int, queue <-chan tgbotapi.Update) {
			defer wg.Done()
			for update := range queue {
				b.safeHandle(handleCtx, id, update)
			}
		}(i, queues[i])
	}

	telemetry.Info("bot.started", map[string]any{"workers": workers})

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			queue := queues[shard(update, workers)]
			select {
			case queue <- update:
				continue
			default:
			}
			select {
			case queue <- update:
			case <-ctx.Done():
				break loop
			}
		}
	}

	for _, queue := range queues {
		close(queue)
	}
	if ctx.Err() != nil {
		timer := time.AfterFunc(drain, cancelHandle)
		defer timer.Stop()
	}
	wg.Wait()
	telemetry.Info("bot.stopped", nil)
}

func shard(update tgbotapi.Update, workers int) int {
	chat := update.FromChat()
	if chat == nil {
		return 0
	}
	id := chat.ID
	if id < 0 {
		id = -id
	}
	return int(id % int64(workers))
}

func (b *Bot) safeHandle(ctx context.Context, worker int, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("bot.panic", map[string]any{
				"worker":    worker,
				"update_id": update.UpdateID,
				"panic":     fmt.Sprint(r),
				"stack":     string(debug.Stack()),
			})
		}
	}()
	b.HandleUpdate(ctx, update)
}
