package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bytedance/sonic"

	errorvalues "github.com/swaranjjalii/daily-execution-app/internal/error_values"
	"github.com/swaranjjalii/daily-execution-app/pkg/calendar"
	"github.com/swaranjjalii/daily-execution-app/pkg/entity"
)

const DefaultStorageKey = "daily-execution-data"

// UserDataRepository stores the whole UserData aggregate as one JSON document under a single key.
// Without a backend it degrades: Load returns fresh defaults and Save does nothing.
// Load and Save are serialized so a first-access seed never overwrites a later write.
type UserDataRepository struct {
	kv     KVStoreI
	key    string
	clock  calendar.Clock
	logger *slog.Logger
	warn   sync.Once
	mu     sync.Mutex
}

type Option func(*UserDataRepository)

func WithClock(clock calendar.Clock) Option {
	return func(r *UserDataRepository) {
		r.clock = clock
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *UserDataRepository) {
		r.logger = logger
	}
}

func NewUserDataRepo(kv KVStoreI, key string, opts ...Option) *UserDataRepository {
	if key == "" {
		key = DefaultStorageKey
	}
	repo := &UserDataRepository{
		kv:     kv,
		key:    key,
		clock:  calendar.SystemClock,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Persistent reports whether writes reach a durable backend.
func (repo *UserDataRepository) Persistent() bool {
	return repo.kv != nil
}

func (repo *UserDataRepository) Load(ctx context.Context) (*entity.UserData, error) {
	if !repo.Persistent() {
		repo.warnUnavailable()
		return repo.defaults(), nil
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	raw, err := repo.kv.Get(ctx, repo.key)
	if err != nil {
		if errors.Is(err, errorvalues.ErrKeyNotFound) {
			data := repo.defaults()
			if err := repo.save(ctx, data); err != nil {
				return nil, err
			}
			return data, nil
		}
		return nil, errors.New("loading user data error: " + err.Error())
	}
	data, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (repo *UserDataRepository) Save(ctx context.Context, data *entity.UserData) error {
	if data == nil {
		return errors.New("user data is nil")
	}
	if !repo.Persistent() {
		repo.warnUnavailable()
		return nil
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.save(ctx, data)
}

func (repo *UserDataRepository) save(ctx context.Context, data *entity.UserData) error {
	raw, err := Encode(data)
	if err != nil {
		return err
	}
	if err := repo.kv.Set(ctx, repo.key, raw); err != nil {
		return errors.New("saving user data error: " + err.Error())
	}
	return nil
}

func (repo *UserDataRepository) defaults() *entity.UserData {
	return &entity.UserData{
		CurrentStreak: 0,
		LongestStreak: 0,
		LastVisitDate: calendar.DateOf(repo.clock()),
		Achievements:  entity.AchievementCatalog(),
		DailyRecords:  []entity.DailyRecord{},
		Tasks:         []entity.Task{},
	}
}

func (repo *UserDataRepository) warnUnavailable() {
	repo.warn.Do(func() {
		repo.logger.Warn("no storage backend configured: reads return defaults, writes are dropped")
	})
}

// Encode serializes the aggregate to its persisted document form.
func Encode(data *entity.UserData) ([]byte, error) {
	raw, err := sonic.ConfigStd.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding user data: %w", err)
	}
	return raw, nil
}

// Decode parses a persisted document. Unparseable input yields ErrCorruptedData.
func Decode(raw []byte) (*entity.UserData, error) {
	var data entity.UserData
	if err := sonic.ConfigStd.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", errorvalues.ErrCorruptedData, err)
	}
	if !calendar.IsDate(data.LastVisitDate) {
		return nil, fmt.Errorf("%w: invalid lastVisitDate %q", errorvalues.ErrCorruptedData, data.LastVisitDate)
	}
	if data.Achievements == nil {
		data.Achievements = []entity.Achievement{}
	}
	if data.DailyRecords == nil {
		data.DailyRecords = []entity.DailyRecord{}
	}
	if data.Tasks == nil {
		data.Tasks = []entity.Task{}
	}
	return &data, nil
}
