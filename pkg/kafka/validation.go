package kafka

import "errors"

// ============================================================================
// Validation
// ============================================================================

func (c *GatewayConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New("brokers cannot be empty")
	}
	if c.Topic == "" {
		return errors.New("topic cannot be empty")
	}
	if c.WriteTimeout < 0 {
		return errors.New("writeTimeout cannot be negative")
	}
	if c.MaxRetries < 0 {
		return errors.New("maxRetries cannot be negative")
	}
	return nil
}

func (c *ProberConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New("brokers cannot be empty")
	}
	if c.Topic == "" {
		return errors.New("topic cannot be empty")
	}
	if c.GroupID == "" {
		return errors.New("groupID cannot be empty")
	}
	if c.MinBytes < 0 || c.MaxBytes < 0 {
		return errors.New("fetch byte bounds cannot be negative")
	}
	return nil
}
