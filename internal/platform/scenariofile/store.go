// Package scenariofile implements store.ScenarioStore on top of a directory
// of YAML scenario files. Scenarios are parsed and validated once at
// construction and served read-only thereafter.
package scenariofile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kanaptse/eduparent-api/internal/domain"
	"github.com/kanaptse/eduparent-api/internal/store"
	"github.com/spf13/viper"
)

// Store serves the scenario catalog loaded from a directory.
type Store struct {
	scenarios map[string]*domain.Scenario
	ordered   []*domain.Scenario
	logger    *slog.Logger
}

// Ensure Store implements store.ScenarioStore
var _ store.ScenarioStore = (*Store)(nil)

// NewStore loads every *.yaml/*.yml file under dir as a scenario.
// A scenario without an explicit id takes its filename (sans extension);
// one without its own attempt limit inherits defaultMaxAttempts.
// Returns an error if the directory cannot be read or any file fails
// parsing or validation.
func NewStore(dir string, defaultMaxAttempts int, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "scenario_store"))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory %s: %w", dir, err)
	}

	scenarios := make(map[string]*domain.Scenario)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		scenario, err := loadFile(filepath.Join(dir, entry.Name()), defaultMaxAttempts)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario %s: %w", entry.Name(), err)
		}

		if _, exists := scenarios[scenario.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate scenario id %q", store.ErrDuplicate, scenario.ID)
		}
		scenarios[scenario.ID] = scenario
	}

	ordered := make([]*domain.Scenario, 0, len(scenarios))
	for _, scenario := range scenarios {
		ordered = append(ordered, scenario)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	logger.Info("scenario catalog loaded",
		slog.Int("count", len(ordered)),
		slog.String("dir", dir))

	return &Store{scenarios: scenarios, ordered: ordered, logger: logger}, nil
}

// loadFile parses one scenario YAML file.
func loadFile(path string, defaultMaxAttempts int) (*domain.Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var scenario domain.Scenario
	if err := v.Unmarshal(&scenario); err != nil {
		return nil, err
	}

	if scenario.ID == "" {
		base := filepath.Base(path)
		scenario.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if scenario.MaxRoundAttempts == 0 {
		scenario.MaxRoundAttempts = defaultMaxAttempts
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Get implements store.ScenarioStore.Get.
func (s *Store) Get(_ context.Context, id string) (*domain.Scenario, error) {
	scenario, ok := s.scenarios[id]
	if !ok {
		return nil, store.ErrScenarioNotFound
	}
	return scenario, nil
}

// List implements store.ScenarioStore.List.
func (s *Store) List(_ context.Context) ([]*domain.Scenario, error) {
	out := make([]*domain.Scenario, len(s.ordered))
	copy(out, s.ordered)
	return out, nil
}
