package backend

import (
	"fmt"

	"grocer/internal/config"
)

// FromAppConfig builds a backend config from the application config and the
// three positional file arguments.
func FromAppConfig(appConfig *config.Config, groceryFile, transactionFile, userFile string) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	cfg := Config{
		Type: BackendType(appConfig.Backend),

		GroceryFile:     groceryFile,
		TransactionFile: transactionFile,
		UserFile:        userFile,

		JournalPath:  appConfig.JournalPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}
	return cfg, cfg.Validate()
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	if c.Type == CSVBackend {
		if c.GroceryFile == "" {
			return fmt.Errorf("grocery file is required for csv backend")
		}
		if c.TransactionFile == "" {
			return fmt.Errorf("transaction file is required for csv backend")
		}
		if c.UserFile == "" {
			return fmt.Errorf("user file is required for csv backend")
		}
	}
	// Journal and AMQP are optional

	return nil
}
