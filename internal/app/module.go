package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/hyosobang/passgate/internal/app/api/server"
	"github.com/hyosobang/passgate/internal/app/service/adminauth"
	"github.com/hyosobang/passgate/internal/app/service/ledger"
	"github.com/hyosobang/passgate/internal/app/service/member"
	"github.com/hyosobang/passgate/internal/app/service/memberlog"
	"github.com/hyosobang/passgate/internal/app/service/redemption"
	"github.com/hyosobang/passgate/internal/app/service/statistics"
	"github.com/hyosobang/passgate/internal/app/service/ticket"
	"github.com/hyosobang/passgate/internal/platform/db"
	"github.com/hyosobang/passgate/pkg/config"
	"github.com/hyosobang/passgate/pkg/logger"
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
	memberlog.Module,
	ledger.Module,
	ticket.Module,
	member.Module,
	redemption.Module,
	adminauth.Module,
	statistics.Module,
)
