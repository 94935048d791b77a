// Package container wires the MoneyWorks client and its collaborators from a
// loaded configuration.
package container

import (
	"fmt"

	"ari/moneyworks-cli/internal/batch"
	"ari/moneyworks-cli/internal/client"
	"ari/moneyworks-cli/internal/config"
	"ari/moneyworks-cli/internal/logging"
	"ari/moneyworks-cli/internal/mailer"
	"ari/moneyworks-cli/internal/store"
)

// Option adjusts how the container builds its dependencies.
type Option func(*options)

type options struct {
	logger     logging.Logger
	clientOpts []client.Option
	mailerOpts []mailer.Option
	draftDir   string
}

// WithLogger uses logger instead of building one from the [log] section.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClientOptions passes extra options to client.New.
func WithClientOptions(opts ...client.Option) Option {
	return func(o *options) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// WithMailerOptions passes extra options to mailer.New.
func WithMailerOptions(opts ...mailer.Option) Option {
	return func(o *options) {
		o.mailerOpts = append(o.mailerOpts, opts...)
	}
}

// WithDraftDir sets the directory searched for transaction drafts.
func WithDraftDir(dir string) Option {
	return func(o *options) {
		o.draftDir = dir
	}
}

// Container holds the application dependencies. It is immutable after
// creation.
type Container struct {
	logger  logging.Logger
	config  *config.Config
	client  *client.Client
	mailer  *mailer.Mailer
	mailErr error
	poster  *batch.Poster
	drafts  *store.DraftStore
}

// NewContainer creates and wires all application dependencies. A missing
// [mail] SEND_FROM is not fatal here: only commands that send mail need it,
// and they get the error from Mailer.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	mw, err := client.New(cfg.Server, append([]client.Option{client.WithLogger(logger)}, o.clientOpts...)...)
	if err != nil {
		return nil, err
	}

	m, mailErr := mailer.New(cfg.Mail, append([]mailer.Option{mailer.WithLogger(logger)}, o.mailerOpts...)...)

	logger.Debug("Container initialized",
		logging.F(logging.FieldURL, mw.BaseURL()),
		logging.F("mail_enabled", mailErr == nil))

	return &Container{
		logger:  logger,
		config:  cfg,
		client:  mw,
		mailer:  m,
		mailErr: mailErr,
		poster:  batch.NewPoster(mw, logger),
		drafts:  store.NewDraftStore(o.draftDir, logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the configuration the container was built from.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetClient returns the MoneyWorks client.
func (c *Container) GetClient() *client.Client {
	return c.client
}

// GetMailer returns the mailer, or the configuration error that prevented
// building it.
func (c *Container) GetMailer() (*mailer.Mailer, error) {
	if c.mailErr != nil {
		return nil, c.mailErr
	}
	return c.mailer, nil
}

// GetPoster returns the batch poster bound to the client.
func (c *Container) GetPoster() *batch.Poster {
	return c.poster
}

// GetDraftStore returns the transaction draft store.
func (c *Container) GetDraftStore() *store.DraftStore {
	return c.drafts
}
