package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lomoval/otus-golang/eventrsvp/internal/app"
	"github.com/lomoval/otus-golang/eventrsvp/internal/config"
	"github.com/lomoval/otus-golang/eventrsvp/internal/logger"
	"github.com/lomoval/otus-golang/eventrsvp/internal/menu"
	"github.com/lomoval/otus-golang/eventrsvp/internal/rabbit"
	"github.com/lomoval/otus-golang/eventrsvp/internal/storage"
	"github.com/lomoval/otus-golang/eventrsvp/internal/storagebuilder"
	colorable "github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const closeTimeout = 3 * time.Second

// errReported is returned when the failure is already printed to the user.
var errReported = errors.New("command failed")

var errNotMigratable = errors.New("storage does not support migrations")

type cli struct {
	configFile string
	config     Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:               "rsvp",
		Short:             "Manage event RSVPs",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: c.prepare,
		RunE:              c.runMenu,
	}
	root.PersistentFlags().StringVar(&c.configFile, "config", "./configs/rsvp.yaml", "Path to configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "menu",
			Short: "Run the interactive menu",
			Args:  cobra.NoArgs,
			RunE:  c.runMenu,
		},
		&cobra.Command{
			Use:   "add <user-id> <event-id>",
			Short: "Add an RSVP",
			Args:  cobra.ExactArgs(2),
			RunE:  c.runAdd,
		},
		&cobra.Command{
			Use:   "remove <user-id> <event-id>",
			Short: "Remove an RSVP",
			Args:  cobra.ExactArgs(2),
			RunE:  c.runRemove,
		},
		&cobra.Command{
			Use:   "attendees <event-id>",
			Short: "List attendees of an event",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runAttendees,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database schema migrations",
			Args:  cobra.NoArgs,
			RunE:  c.runMigrate,
		},
	)
	return root
}

func (c *cli) prepare(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := NewConfig(c.configFile)
	if err != nil {
		return err
	}
	if err := logger.PrepareLogger(cfg.Logger); err != nil {
		return err
	}
	switch cfg.Logger.Output {
	case "", "stderr":
		log.SetOutput(colorable.NewColorableStderr())
	case "stdout":
		log.SetOutput(colorable.NewColorableStdout())
	}
	c.config = cfg
	return nil
}

func (c *cli) runMenu(cmd *cobra.Command, _ []string) error {
	return c.withMenu(cmd, func(m *menu.Menu) error {
		return m.Run(cmd.Context())
	})
}

func (c *cli) runAdd(cmd *cobra.Command, args []string) error {
	userID, eventID, err := parsePair(args)
	if err != nil {
		return err
	}
	return c.withMenu(cmd, func(m *menu.Menu) error {
		return reported(m.Add(cmd.Context(), userID, eventID))
	})
}

func (c *cli) runRemove(cmd *cobra.Command, args []string) error {
	userID, eventID, err := parsePair(args)
	if err != nil {
		return err
	}
	return c.withMenu(cmd, func(m *menu.Menu) error {
		return reported(m.Remove(cmd.Context(), userID, eventID))
	})
}

func (c *cli) runAttendees(cmd *cobra.Command, args []string) error {
	eventID, err := menu.ParseID(args[0])
	if err != nil {
		return fmt.Errorf("incorrect event id: %w", err)
	}
	return c.withMenu(cmd, func(m *menu.Menu) error {
		return reported(m.Attendees(cmd.Context(), eventID))
	})
}

func (c *cli) runMigrate(cmd *cobra.Command, _ []string) error {
	stor, err := storagebuilder.New(c.config.Storage)
	if err != nil {
		return err
	}
	defer closeStorage(stor)

	m, ok := stor.(interface{ Migrate() (int, error) })
	if !ok {
		return fmt.Errorf("%w: %s", errNotMigratable, c.config.Storage.StorageType)
	}
	n, err := m.Migrate()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migration successful! Applied a total of %d migrations.\n", n)
	return nil
}

// withMenu opens the storage and the optional notification queue for the
// duration of f.
func (c *cli) withMenu(cmd *cobra.Command, f func(m *menu.Menu) error) error {
	stor, err := storagebuilder.New(c.config.Storage)
	if err != nil {
		return err
	}
	defer closeStorage(stor)

	var opts []app.Option
	if c.config.Rabbit.Enabled {
		provider := rabbit.New(c.config.Rabbit)
		if err := provider.Connect(); err != nil {
			log.Warnf("notifications are disabled: %v", err)
		} else {
			opts = append(opts, app.WithPublisher(provider))
		}
		defer func() {
			if err := provider.Close(); err != nil {
				log.Errorf("failed to close amqp connection: %v", err)
			}
		}()
	}

	return f(menu.New(cmd.InOrStdin(), cmd.OutOrStdout(), app.New(stor, opts...)))
}

func parsePair(args []string) (int64, int64, error) {
	userID, err := menu.ParseID(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("incorrect user id: %w", err)
	}
	eventID, err := menu.ParseID(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("incorrect event id: %w", err)
	}
	return userID, eventID, nil
}

func reported(ok bool) error {
	if !ok {
		return errReported
	}
	return nil
}

func closeStorage(stor storage.Storage) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := stor.Close(ctx); err != nil {
		log.Errorf("failed to close storage: %v", err)
	}
}
