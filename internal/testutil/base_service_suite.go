package testutil

import (
	"context"

	"github.com/billflow/billflow/internal/cache"
	"github.com/billflow/billflow/internal/config"
	"github.com/billflow/billflow/internal/logger"
	"github.com/billflow/billflow/internal/repository/memory"
	"github.com/billflow/billflow/internal/types"
	"github.com/stretchr/testify/suite"
)

// BaseServiceTestSuite provides fresh in-memory infrastructure for each
// service test: logger, config, cache and repositories.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	cfg   *config.Configuration
	log   *logger.Logger
	cache cache.Cache
	repos *memory.Repositories
}

// SetupTest rebuilds all stores so tests never share state.
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = types.SetUserID(context.Background(), types.DefaultUserID)
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	s.cache = cache.NewInMemoryCache()
	s.repos = memory.NewRepositories()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetStores() *memory.Repositories {
	return s.repos
}
