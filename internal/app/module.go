package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/propfolio/metering/internal/app/api/server"
	"github.com/propfolio/metering/internal/app/service/aggregator"
	"github.com/propfolio/metering/internal/app/service/metering"
	"github.com/propfolio/metering/internal/app/service/trend"
	"github.com/propfolio/metering/internal/platform/billing"
	"github.com/propfolio/metering/internal/platform/db"
	"github.com/propfolio/metering/pkg/config"
	"github.com/propfolio/metering/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	billing.Module,
	aggregator.Module,
	trend.Module,
	metering.Module,
)
