// manifest/config.go
package manifest

/* ===========================
   Top-level worker config
   =========================== */

type Config struct {
	Server   Server       `toml:"server"`
	Projects Projects     `toml:"projects"`
	Filters  []FilterSpec `toml:"filter"`
	Auth     Auth         `toml:"auth"`
	Monitor  Monitor      `toml:"monitor"`
	Logging  Logging      `toml:"logging"`
}

/* ===========================
   HTTP front-end
   =========================== */

type Server struct {
	Listen         string `toml:"listen"`
	ReadTimeoutMS  int    `toml:"read_timeout_ms"`
	WriteTimeoutMS int    `toml:"write_timeout_ms"`
	IdleTimeoutMS  int    `toml:"idle_timeout_ms"`
}

/* ===========================
   Project store
   =========================== */

type Projects struct {
	RootDir string `toml:"root_dir"`
	Default string `toml:"default"`
}

/* ===========================
   Filter chain
   =========================== */

// FilterSpec declares one plugin filter entry. Lower priority runs
// first; names must be unique across the table.
type FilterSpec struct {
	Name     string `toml:"name"`
	Priority int    `toml:"priority"`
	Disabled bool   `toml:"disabled"`
}

/* ===========================
   Gateway auth / monitoring / logs
   =========================== */

type Auth struct {
	Secret        string `toml:"secret"` // empty disables the guard
	Issuer        string `toml:"issuer"`
	Audience      string `toml:"audience"`
	LeewaySeconds int    `toml:"leeway_seconds"`
}

type Monitor struct {
	Topic string `toml:"topic"` // empty disables publishing
}

type Logging struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}
