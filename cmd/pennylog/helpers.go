package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pennylog/pennylog/internal/classifier"
	"github.com/pennylog/pennylog/internal/config"
	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/remote"
	"github.com/pennylog/pennylog/internal/service"
	"github.com/pennylog/pennylog/internal/session"
	syncer "github.com/pennylog/pennylog/internal/sync"
)

// tokenPath is where the backend access token is kept between runs.
func tokenPath() string {
	return filepath.Join(config.DataDir(), "session.token")
}

// loadSession derives the current session from the stored access token.
// No token, or an expired one, means guest mode.
func loadSession() model.Session {
	raw, err := os.ReadFile(tokenPath())
	if err != nil {
		return model.GuestSession()
	}

	sess, err := model.SessionFromToken(strings.TrimSpace(string(raw)), time.Now())
	if err != nil {
		return model.GuestSession()
	}
	return sess
}

// appContext bundles the per-invocation services.
type appContext struct {
	store       service.LocalStore
	coordinator *syncer.Coordinator
	session     model.Session
}

// initApp opens the session-scoped store and wires the coordinator.
// The caller must Close the returned context.
func initApp(ctx context.Context) (*appContext, error) {
	sess := loadSession()

	store, err := session.Open(ctx, config.DataDir(), sess)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	var remoteStore service.RemoteStore
	if sess.Authenticated() {
		client, clientErr := remote.NewClient(remote.Config{
			BaseURL: viper.GetString("remote.url"),
			APIKey:  viper.GetString("remote.api_key"),
			Token:   loadRawToken(),
		})
		if clientErr != nil {
			_ = store.Close()
			return nil, clientErr
		}
		remoteStore = client
	}

	trainer := classifier.NewTrainer(store)
	clf := classifier.New(&storeTrainingSource{ctx: ctx, store: store})

	return &appContext{
		store:       store,
		coordinator: syncer.New(store, remoteStore, clf, trainer),
		session:     sess,
	}, nil
}

func (a *appContext) Close() {
	_ = a.store.Close()
}

func loadRawToken() string {
	raw, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// storeTrainingSource adapts the local store to the classifier's
// TrainingSource. Read failures degrade to keyword-only classification.
type storeTrainingSource struct {
	ctx   context.Context
	store service.LocalStore
}

func (s *storeTrainingSource) TrainingExamples() []model.TrainingExample {
	examples, err := s.store.GetTrainingExamples(s.ctx)
	if err != nil {
		return nil
	}
	return examples
}
