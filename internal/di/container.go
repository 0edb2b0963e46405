package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/orbit-mail/internal/config"
	"github.com/mikey/orbit-mail/internal/core"
	"github.com/mikey/orbit-mail/internal/factory"
	"github.com/mikey/orbit-mail/internal/logging"
	"github.com/mikey/orbit-mail/internal/textutil"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTransportFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSpamFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAssistantFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *textutil.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register pipeline statistics
	if err := container.Provide(core.NewStats); err != nil {
		return nil, err
	}

	// Register schedule store
	if err := container.Provide(func(f *factory.StoreFactory) (core.ScheduleStore, error) {
		return f.CreateScheduleStore()
	}); err != nil {
		return nil, err
	}

	// Register transport gateway and mailbox source
	if err := container.Provide(func(f *factory.TransportFactory) (core.TransportGateway, error) {
		return f.CreateTransportGateway()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TransportFactory) core.MailboxSource {
		return f.CreateMailboxSource()
	}); err != nil {
		return nil, err
	}

	// Register contact directory and spam scorer
	if err := container.Provide(func(f *factory.SpamFactory) (core.ContactDirectory, error) {
		return f.CreateContactDirectory()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.SpamFactory, directory core.ContactDirectory, stats *core.Stats) *core.SpamScorer {
		return f.CreateSpamScorer(directory, stats)
	}); err != nil {
		return nil, err
	}

	// Register assistant
	if err := container.Provide(func(f *factory.AssistantFactory) (core.Assistant, error) {
		return f.CreateAssistant()
	}); err != nil {
		return nil, err
	}

	// Register dispatcher
	if err := container.Provide(func(
		cfg *config.Config,
		store core.ScheduleStore,
		gateway core.TransportGateway,
		stats *core.Stats,
		logger *zap.Logger,
	) (*core.Dispatcher, error) {
		interval, err := cfg.GetDuration("scheduler.tick_interval")
		if err != nil {
			return nil, err
		}
		return core.NewDispatcher(store, gateway, stats, logger, interval), nil
	}); err != nil {
		return nil, err
	}

	return container, nil
}
