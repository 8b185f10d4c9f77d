package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/ythdp/ythdp/constant"
	"github.com/ythdp/ythdp/controller"
	"github.com/ythdp/ythdp/key"
	"github.com/ythdp/ythdp/lifecycle"
	"github.com/ythdp/ythdp/log"
	"github.com/ythdp/ythdp/menu"
	"github.com/ythdp/ythdp/metrics"
	"github.com/ythdp/ythdp/player"
	"github.com/ythdp/ythdp/settings"
	"github.com/ythdp/ythdp/util"
	"github.com/ythdp/ythdp/version"
	"github.com/ythdp/ythdp/where"
)

const updateCheckInterval = 24 * time.Hour

type daemonOptions struct {
	// URL is launched in a new mpv when set. Otherwise the daemon attaches to the socket.
	URL    string
	NoMenu bool
}

func socketPath() string {
	if path := viper.GetString(key.PlayerSocket); path != "" {
		return path
	}
	return where.Socket()
}

func newSettingsService() *settings.Service {
	return settings.NewService(settings.NewFileStore(where.Settings()))
}

func runDaemon(options daemonOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newSettingsService()
	svc.Cleanup(ctx)
	if svc.RecordRun(ctx, constant.Version) {
		log.Infof("%s %s started for the first time", constant.App, constant.Version)
	}
	prefs := svc.Load(ctx)

	socket := socketPath()
	locator := &player.SocketLocator{Path: socket}

	if options.URL != "" {
		binary := viper.GetString(key.PlayerBinary)
		CheckDependencies(binary)

		mpv, err := player.Launch(ctx, player.LaunchOptions{
			Binary:     binary,
			SocketPath: socket,
			URL:        options.URL,
			Target:     prefs.TargetQuality,
			AllFormats: viper.GetBool(key.PlayerAllFormats),
		})
		if err != nil {
			return err
		}
		defer util.Ignore(mpv.Close)
		locator.Launched = mpv

		go func() {
			select {
			case <-mpv.Wait():
				log.Infof("mpv exited, stopping")
				stop()
			case <-ctx.Done():
			}
		}()
	}

	recorder := metrics.Recorder{}
	metrics.Register(prometheus.DefaultRegisterer)
	if addr := viper.GetString(key.MetricsAddress); addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				log.Warnf("metrics endpoint: %v", err)
			}
		}()
	}

	loop := lifecycle.NewLoop(nil)
	ctrl := controller.New(controller.Options{
		MaxRetries:       viper.GetInt(key.ResolutionMaxRetries),
		RetryDelay:       viper.GetDuration(key.ResolutionRetryDelay),
		ErrorBackoffBase: viper.GetDuration(key.ResolutionErrorBackoffBase),
		ErrorBackoffStep: viper.GetDuration(key.ResolutionErrorBackoffStep),
	}, loop, recorder)

	orchestrator := lifecycle.New(loop, locator, ctrl, svc.Preferences, lifecycle.Options{
		Debounce:   viper.GetDuration(key.LifecycleDebounce),
		ReadyDelay: viper.GetDuration(key.LifecycleReadyDelay),
	}, recorder)

	watcher, err := lifecycle.NewWatcher(loop.Clock(), socket, where.Settings())
	if err != nil {
		log.Warnf("file watching disabled: %v", err)
	} else {
		go watcher.Run(ctx, lifecycle.WatchHandlers{
			PlayerAppeared: func() {
				orchestrator.Signal(lifecycle.Signal{Kind: lifecycle.PlayerAppeared})
			},
			SettingsChanged: func() {
				log.Debugf("settings changed on disk, reloading")
				svc.Load(ctx)
				orchestrator.Trigger()
			},
		})
	}

	interactive := !options.NoMenu && viper.GetBool(key.MenuInteractive) && util.IsInteractive()

	if viper.GetBool(key.CliVersionCheck) {
		scheduler, err := scheduleUpdateChecks(ctx, interactive)
		if err != nil {
			log.Warnf("update checks disabled: %v", err)
		} else {
			defer util.Ignore(scheduler.Shutdown)
		}
	}

	if interactive {
		presenter := menu.New(svc.Preferences, menu.Actions{
			Update:  svc.Update,
			Trigger: orchestrator.Trigger,
			CheckUpdates: func(ctx context.Context) {
				version.Print(version.Check(ctx, viper.GetString(key.UpdateManifestURL), false))
			},
		})

		// Leaving the menu with ctrl+c stops the daemon, as it would without a menu.
		go func() {
			defer stop()
			if err := presenter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warnf("menu: %v", err)
			}
		}()
	}

	log.Infof("watching %s for mpv", socket)
	if err := orchestrator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// scheduleUpdateChecks checks for a new release now and then once a day.
// Results are only printed to an interactive terminal.
func scheduleUpdateChecks(ctx context.Context, interactive bool) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(updateCheckInterval),
		gocron.NewTask(func() {
			outcome := version.Check(ctx, viper.GetString(key.UpdateManifestURL), true)
			log.Infof("update check: %s", outcome)
			if interactive && outcome.Status == version.Available {
				version.Print(outcome)
			}
		}),
		gocron.WithName("update-check"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}

	scheduler.Start()
	return scheduler, nil
}
