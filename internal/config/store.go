package config

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

// DefaultFilterWindowDays is the filter window used when nothing is configured.
const DefaultFilterWindowDays = 365

// Store holds the runtime-mutable settings: the filter window and the allow-list.
// Readers are request handlers; writers are the dashboard and the config watcher.
type Store struct {
	mu               sync.RWMutex
	filterWindowDays int
	allowList        map[string]struct{}
	validate         *validator.Validate
	logger           *logger.Logger
}

// NewStore creates a Store. Invalid seed values are rejected. Every rejected change is logged on log.
func NewStore(runtime RuntimeConfig, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}

	s := &Store{
		mu:               sync.RWMutex{},
		filterWindowDays: DefaultFilterWindowDays,
		allowList:        make(map[string]struct{}),
		validate:         validator.New(),
		logger:           log,
	}

	if err := s.Apply(runtime.FilterWindowDays, runtime.AllowList); err != nil {
		return nil, err
	}

	return s, nil
}

// FilterWindowDays returns the current filter window.
func (s *Store) FilterWindowDays() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterWindowDays
}

// AllowList returns the allow-list, sorted. Never nil.
func (s *Store) AllowList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]string, 0, len(s.allowList))
	for addr := range s.allowList {
		list = append(list, addr)
	}

	slices.Sort(list)

	return list
}

// IsAllowed reports whether origin may call the API. An empty allow-list allows everyone.
func (s *Store) IsAllowed(origin string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.allowList) == 0 {
		return true
	}

	_, ok := s.allowList[origin]

	return ok
}

// SetFilterWindow parses raw operator input as a positive number of days.
// On error the previous value is kept.
func (s *Store) SetFilterWindow(raw string) error {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return s.reject("filter_window", raw, errors.Wrapf(errors.ErrCodeInvalidFilterWindow, err,
			"filter window must be a whole number of days, got %q", raw))
	}

	if days < 1 {
		return s.reject("filter_window", raw, errors.Newf(errors.ErrCodeInvalidFilterWindow,
			"filter window must be at least 1 day, got %d", days))
	}

	s.mu.Lock()
	s.filterWindowDays = days
	s.mu.Unlock()

	s.logger.Info("Filter window changed", zap.Int("filter_window_days", days))

	return nil
}

// SetAllowList parses a comma-separated list of addresses. Blank input clears the list.
// On error the previous list is kept.
func (s *Store) SetAllowList(raw string) error {
	list, err := s.parseAllowList(strings.Split(raw, ","))
	if err != nil {
		return s.reject("allow_list", raw, err)
	}

	s.mu.Lock()
	s.allowList = list
	s.mu.Unlock()

	s.logger.Info("Allow-list changed", zap.Int("entries", len(list)))

	return nil
}

// Apply replaces both values at once. Nothing changes if either is invalid.
func (s *Store) Apply(filterWindowDays int, allowList []string) error {
	if filterWindowDays < 1 {
		return s.reject("runtime", strconv.Itoa(filterWindowDays), errors.Newf(errors.ErrCodeInvalidFilterWindow,
			"filter window must be at least 1 day, got %d", filterWindowDays))
	}

	list, err := s.parseAllowList(allowList)
	if err != nil {
		return s.reject("runtime", strings.Join(allowList, ","), err)
	}

	s.mu.Lock()
	s.filterWindowDays = filterWindowDays
	s.allowList = list
	s.mu.Unlock()

	return nil
}

// reject logs a refused change and returns err unchanged.
func (s *Store) reject(setting, input string, err error) error {
	s.logger.Warn("Rejected runtime config change",
		zap.String("setting", setting),
		zap.String("input", input),
		zap.Int("code", int(errors.GetCode(err))),
		zap.Error(err),
	)

	return err
}

func (s *Store) parseAllowList(entries []string) (map[string]struct{}, error) {
	list := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		addr := strings.TrimSpace(entry)
		if addr == "" {
			continue
		}

		if err := s.validate.Var(addr, "ip"); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidAllowList, err, "%q is not an IP address", addr)
		}

		list[addr] = struct{}{}
	}

	return list, nil
}
