package conferencehall

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agentstation/confkit/pkg/constants"
	"github.com/agentstation/confkit/pkg/errors"
)

// Config locates an event on a Conference Hall instance.
type Config struct {
	URL     string `mapstructure:"url" validate:"required,url"`
	EventID string `mapstructure:"event_id" validate:"required"`
	APIKey  string `mapstructure:"api_key" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration, filling the default URL.
func (c *Config) Validate() error {
	if c.URL == "" {
		c.URL = constants.DefaultConferenceHallURL
	}
	c.URL = strings.TrimRight(c.URL, "/")

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.NewConfigError("conference-hall", "source."+strings.ToLower(fe.Field())+" failed on the '"+fe.Tag()+"' rule", err)
		}
		return errors.NewConfigError("conference-hall", "invalid configuration", err)
	}
	return nil
}
