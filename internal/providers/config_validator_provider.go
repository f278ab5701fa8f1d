package providers

import (
	"errors"
	"fmt"

	"checkin-importer/internal/models"
	"checkin-importer/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidatorInterface interface {
	Validate() error
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) CnfValidatorInterface {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}

	if c.conf.Registry.Kind == "file" && c.conf.Registry.SeedPath == "" {
		return errors.New("registry.seedPath is required when registry.kind is file")
	}
	needsDB := c.conf.Registry.Kind == "database" || c.conf.Storage.Kind == "postgres"
	if needsDB && c.conf.Database.DSN == "" {
		return errors.New("database.dsn is required for the database registry or postgres storage")
	}
	for _, r := range c.conf.Import.SupportRoles {
		if _, ok := models.ParseRole(r); !ok {
			return fmt.Errorf("import.supportRoles: unknown role %q", r)
		}
	}
	return nil
}
