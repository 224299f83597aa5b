package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/daniacca/metrobox/internal/energy"
	"github.com/daniacca/metrobox/internal/metro"
	"github.com/daniacca/metrobox/internal/metro/notifiers"
)

// Notifier IDs the box routes its move events to. The WebSocket notifier is
// always registered; the webhook notifier only when a URL is configured.
const (
	wsNotifierID      = "server-ws"
	webhookNotifierID = "server-webhook"
)

// Server drives one simulation box over HTTP: load a system, step it, read
// its state, subscribe to its move events.
type Server struct {
	mu         sync.RWMutex
	cfg        ServerConfig
	logger     *Logger
	notifMgr    *metro.NotificationManager
	wsNotifier  *notifiers.WebSocketNotifier
	notifierIDs []string

	box        metro.Box
	systemName string
	evaluator  energy.Evaluator
	rng        metro.Source
	current    float64
	moveCount  int64
}

// NewServer creates a new server instance
func NewServer(cfg ServerConfig, logger *Logger) *Server {
	wsNotifier := notifiers.NewWebSocketNotifier(wsNotifierID)
	notifMgr := metro.NewNotificationManagerWithLogger(logger)
	if err := notifMgr.RegisterNotifier(wsNotifier); err != nil {
		logger.Fatalf("cannot register websocket notifier: %v", err)
	}

	notifierIDs := []string{wsNotifierID}
	if cfg.WebhookURL != "" {
		webhook := notifiers.NewWebhookNotifier(webhookNotifierID, cfg.WebhookURL)
		if err := notifMgr.RegisterNotifier(webhook); err != nil {
			logger.Fatalf("cannot register webhook notifier: %v", err)
		}
		notifierIDs = append(notifierIDs, webhookNotifierID)
		logger.Infof("webhook notifier registered: %s", cfg.WebhookURL)
	}

	return &Server{
		cfg:         cfg,
		logger:      logger,
		notifMgr:    notifMgr,
		wsNotifier:  wsNotifier,
		notifierIDs: notifierIDs,
		evaluator:   energy.LennardJones{},
	}
}

// loadSystem validates and builds a system config and replaces the current
// box with a fresh one over it.
func (s *Server) loadSystem(cfg metro.SystemConfig) error {
	if err := metro.ValidateSystemConfig(cfg); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	sys, err := metro.BuildSystemFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("building system: %w", err)
	}

	rng := metro.NewRandSource(s.cfg.Seed)
	var box metro.Box
	if s.cfg.Parallel {
		pb := metro.NewParallelBox(sys, rng, s.logger, s.cfg.Workers)
		pb.SetNotificationManager(s.notifMgr, s.notifierIDs)
		box = pb
	} else {
		sb := metro.NewSerialBox(sys, rng, s.logger)
		sb.SetNotificationManager(s.notifMgr, s.notifierIDs)
		box = sb
	}

	s.mu.Lock()
	s.box = box
	s.systemName = cfg.Name
	s.rng = rng
	s.current = s.evaluator.Total(sys)
	s.moveCount = 0
	s.mu.Unlock()

	s.logger.Infof("System loaded: name=%s molecules=%d atoms=%d",
		cfg.Name, sys.Environment.NumOfMolecules, sys.Environment.NumOfAtoms)
	return nil
}

func loadSystemConfigFromFile(path string) (metro.SystemConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return metro.SystemConfig{}, err
	}

	var cfg metro.SystemConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return metro.SystemConfig{}, err
	}

	return cfg, nil
}

func main() {
	cfg := loadServerConfig()
	logger := NewLogger(cfg.LogLevel)
	srv := NewServer(cfg, logger)

	if cfg.ConfigFile != "" {
		sysCfg, err := loadSystemConfigFromFile(cfg.ConfigFile)
		if err != nil {
			logger.Fatalf("cannot read startup config %s: %v", cfg.ConfigFile, err)
		}
		if err := srv.loadSystem(sysCfg); err != nil {
			logger.Fatalf("cannot load startup system: %v", err)
		}
	}

	http.HandleFunc("/healthz", srv.handleHealth)
	http.HandleFunc("/system", srv.handleSystem)
	http.HandleFunc("/step", srv.handleStep)
	http.HandleFunc("/state", srv.handleState)
	http.HandleFunc("/events/ws", srv.handleEventsWS)

	logger.Infof("metrobox-server listening on %s", cfg.Addr)
	logger.Fatalf("%v", http.ListenAndServe(cfg.Addr, nil))
}
