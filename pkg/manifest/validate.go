// manifest/validate.go
package manifest

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Projects.Default != "" && c.Projects.RootDir == "" {
		return errors.New("projects: default set but root_dir missing")
	}
	seen := map[string]struct{}{}
	for i, f := range c.Filters {
		if f.Name == "" {
			return fmt.Errorf("filter[%d]: name required", i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("filter %q: duplicate name", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Priority < 0 {
			return fmt.Errorf("filter %q: negative priority", f.Name)
		}
	}
	if c.Auth.Secret == "" && (c.Auth.Issuer != "" || c.Auth.Audience != "") {
		return errors.New("auth: issuer/audience set without a secret")
	}
	return nil
}
