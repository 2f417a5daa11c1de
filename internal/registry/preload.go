package registry

import (
	"io"
	"runtime"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/remeh/sizedwaitgroup"

	"github.com/vovakirdan/frontline/internal/mainthread"
)

// PreloadResult summarises a finished preload.
type PreloadResult struct {
	Loaded int
	Failed int
}

// levelTask hands a parsed level to the main goroutine.
type levelTask struct {
	c   *Catalog
	lvl *Level
}

func (t *levelTask) Run() { t.c.store(t.lvl) }

func (t *levelTask) Release() { t.lvl = nil }

// Preload parses refs on background workers. Each parsed level is posted to
// q and enters the cache when the owner drains it; done is posted last. An
// empty refs preloads the whole catalog. Preload returns immediately.
func (c *Catalog) Preload(refs []LevelRef, q *mainthread.Queue, logger *log.Logger, done func(PreloadResult)) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(refs) == 0 {
		refs = c.List()
	}

	go func() {
		var loaded, failed atomic.Int32
		wg := sizedwaitgroup.New(runtime.NumCPU())
		for _, ref := range refs {
			wg.Add()
			go func(ref LevelRef) {
				defer wg.Done()
				lvl, err := c.read(ref)
				if err != nil {
					logger.Warn("level preload failed", "level", ref.Name, "err", err)
					failed.Add(1)
					return
				}
				if err := q.Post(&levelTask{c: c, lvl: lvl}); err != nil {
					logger.Debug("preloaded level dropped", "level", ref.Name, "err", err)
					failed.Add(1)
					return
				}
				loaded.Add(1)
			}(ref)
		}
		wg.Wait()

		res := PreloadResult{Loaded: int(loaded.Load()), Failed: int(failed.Load())}
		logger.Debug("level preload finished", "loaded", res.Loaded, "failed", res.Failed)
		if done != nil {
			if err := q.PostFunc(func() { done(res) }); err != nil {
				logger.Warn("preload result dropped", "err", err)
			}
		}
	}()
}
