package internal

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tirta-iot/tirta/internal/core"
	"github.com/tirta-iot/tirta/internal/core/debug"
	"github.com/tirta-iot/tirta/internal/data"
	"github.com/tirta-iot/tirta/internal/web"
)

// Controller is the main entrypoint for tirta. It's responsible for
// initializing the shared resources (such as database and logging) and
// launching the web server.
type Controller struct {
	Config *core.Config

	logger *logrus.Logger
	db     *gorm.DB
}

func (c *Controller) Start(ctx context.Context) error {
	defer c.Shutdown()

	var err error
	// Set up the logger, which will be used by all components.
	c.logger, err = core.NewLogger(c.Config)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}

	// Start any debug utilities if we're configured to do so.
	if c.Config.Debugging.PprofEnabled {
		debug.StartUtilities(c.logger, c.Config.Debugging.PprofPort)
	}

	c.db, err = data.Initialize(
		c.Config.Database.Engine,
		c.Config.DatabaseURL(),
		c.Config.Debugging.DatabaseLoggingEnabled,
	)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	c.logger.Infof("connected to %s database", c.Config.Database.Engine)

	return web.NewServer(c.Config, c.db, c.logger).Start(ctx)
}

func (c *Controller) Shutdown() {
	if c.db == nil {
		return
	}
	if err := data.Shutdown(c.db); err != nil && c.logger != nil {
		c.logger.Errorf("error closing database: %v", err)
	}
}
