package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ziadkadry99/testgen/internal/api"
	"github.com/ziadkadry99/testgen/internal/config"
	"github.com/ziadkadry99/testgen/internal/logging"
	"github.com/ziadkadry99/testgen/internal/progress"
	"github.com/ziadkadry99/testgen/internal/session"
	"github.com/ziadkadry99/testgen/internal/tui"
	"github.com/ziadkadry99/testgen/internal/workflow"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `testgen init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// app bundles what every backend command needs.
type app struct {
	cfg     *config.Config
	logger  *logging.ZapLogger
	session *session.Session
	client  *api.Client
	view    *tui.Terminal
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Options{FilePath: cfg.LogFile, Verbose: verbose})
	for _, w := range cfg.Warnings() {
		logger.Warn("config", w, nil)
	}

	sess := session.New()
	if sessionID != "" {
		sess, err = session.Resume(sessionID)
		if err != nil {
			return nil, err
		}
	}

	client := api.NewClient(cfg.Endpoints(), cfg.RequestTimeout(),
		api.WithSessionID(sess.ID()),
		api.WithLogger(logger),
	)
	logger.Debug("cmd", "client ready", map[string]interface{}{
		"host":       cfg.API.Host,
		"timeout_ms": cfg.API.Timeout,
		"session":    sess.ID(),
	})

	return &app{
		cfg:     cfg,
		logger:  logger,
		session: sess,
		client:  client,
		view:    tui.NewTerminal(os.Stdout, progress.NewReporter(os.Stderr)),
	}, nil
}

// controller creates a workflow controller writing exports to outDir.
func (a *app) controller(state *workflow.State, outDir string) *workflow.Controller {
	if state == nil {
		state = workflow.NewState(a.cfg.Defaults, a.cfg.InitialLevels())
	}
	return workflow.NewController(a.client, a.session, state, a.view, workflow.Options{
		OutputDir: outDir,
		Logger:    a.logger,
	})
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// printSession tells the user how to reach the same results later.
func (a *app) printSession() {
	fmt.Fprintf(os.Stderr, "Session: %s (pass --session to reuse)\n", a.session.ID())
}

// parseLevels splits a comma separated level list and checks each entry.
func parseLevels(s string) ([]string, error) {
	var levels []string
	for _, part := range strings.Split(s, ",") {
		l := strings.ToLower(strings.TrimSpace(part))
		if l == "" {
			continue
		}
		if !config.IsKnownTestLevel(l) {
			return nil, fmt.Errorf("unknown test level %q (known: %s)", l, strings.Join(config.KnownTestLevels, ", "))
		}
		levels = append(levels, l)
	}
	return levels, nil
}
