package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fashionhub/internal/client/api"
	"fashionhub/internal/client/catalog"
	"fashionhub/internal/client/config"
	"fashionhub/internal/client/events"
	"fashionhub/internal/client/identity"
	"fashionhub/internal/client/logger"
	"fashionhub/internal/client/shop"
	"fashionhub/internal/client/storage"
	"fashionhub/internal/client/tui"
)

// current is the session built for the running command.
var current *app

// app is everything one invocation needs, restored from config and storage.
type app struct {
	ctx     context.Context
	cfg     *config.Config
	bus     *events.Bus
	busCh   <-chan events.Event
	client  *api.Client
	ids     *identity.Store
	kv      storage.KV
	shop    *shop.Shop
	catalog *catalog.Catalog
	out     io.Writer
	errOut  io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.ServerURL == "" && ServerURL != "" {
		cfg.ServerURL = ServerURL
	}

	bus := events.NewBus()
	a := &app{ctx: ctx, cfg: cfg, bus: bus, busCh: bus.Subscribe(), out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}

	logger.SetEventBus(bus)
	logger.SetQuiet(!verbose)

	a.client = api.New(cfg.Server(),
		api.WithTimeout(cfg.RequestTimeout(api.DefaultTimeout)),
		api.WithSession(cfg.Session),
		api.WithSessionHook(a.saveSession),
	)

	a.kv, err = cfg.OpenStorage()
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.catalog, err = catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	a.ids = identity.NewStore(a.client, bus)
	a.shop = shop.New(a.ids, a.kv, shop.WithEventBus(bus))
	a.ids.RestoreSession(ctx)
	return a, nil
}

func (a *app) saveSession(value string) {
	a.cfg.Session = value
	if err := config.SaveConfig(a.cfg); err != nil {
		logger.Error("Failed to save session: %v", err)
	}
}

// close reports failures that were absorbed during the command and
// releases the store.
func (a *app) close() {
	a.reportFailures()
	a.bus.Close()
	if c, ok := a.kv.(io.Closer); ok {
		c.Close()
	}
}

func (a *app) reportFailures() {
	for {
		select {
		case ev, ok := <-a.busCh:
			if !ok {
				return
			}
			if msg := failureMessage(ev); msg != "" {
				fmt.Fprintln(a.errOut, tui.ErrorText(msg))
			}
		default:
			return
		}
	}
}

func failureMessage(ev events.Event) string {
	switch data := ev.Data.(type) {
	case events.ErrorData:
		if ev.Type == events.EventSessionRestoreFailed {
			return fmt.Sprintf("warning: could not reach server, continuing as guest (%v)", data.Error)
		}
		if ev.Type == events.EventLogoutFailed {
			return fmt.Sprintf("warning: server logout failed, local session cleared (%v)", data.Error)
		}
	case events.StorageErrorData:
		if ev.Type == events.EventStorageLoadFailed {
			return fmt.Sprintf("warning: %s was unreadable and has been reset (%v)", data.Key, data.Error)
		}
		if ev.Type == events.EventStorageSaveFailed {
			return fmt.Sprintf("warning: %s could not be saved (%v)", data.Key, data.Error)
		}
	}
	return ""
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}
