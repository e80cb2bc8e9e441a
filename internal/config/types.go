package config

// FormFactor identifies the target platform test cases are generated for.
type FormFactor string

const (
	FormFactorWeb     FormFactor = "web"
	FormFactorMobile  FormFactor = "mobile"
	FormFactorDesktop FormFactor = "desktop"
	FormFactorAPI     FormFactor = "api"
)

// Test levels understood by the generation service.
const (
	LevelUnit        = "unit"
	LevelIntegration = "integration"
	LevelSystem      = "system"
	LevelAcceptance  = "acceptance"
	LevelRegression  = "regression"
	LevelPerformance = "performance"
	LevelSecurity    = "security"
	LevelUsability   = "usability"
)

// Config is the top-level testgen configuration, corresponding to .testgen.yml.
type Config struct {
	API      APIConfig    `yaml:"api" koanf:"api"`
	App      AppConfig    `yaml:"app" koanf:"app"`
	Defaults FormDefaults `yaml:"defaults" koanf:"defaults"`
	LogFile  string       `yaml:"log_file" koanf:"log_file"`

	// loadWarnings collects env values Load ignored.
	loadWarnings []string
}

// APIConfig locates the backend service.
type APIConfig struct {
	Host string `yaml:"host" koanf:"host"`
	// Timeout is in milliseconds. Zero disables the per-request timeout.
	Timeout int `yaml:"timeout" koanf:"timeout"`
}

// AppConfig holds display metadata.
type AppConfig struct {
	Name    string `yaml:"name" koanf:"name"`
	Version string `yaml:"version" koanf:"version"`
}

// FormDefaults pre-fills the generation form.
type FormDefaults struct {
	ProjectName string     `yaml:"project_name" koanf:"project_name"`
	FormFactor  FormFactor `yaml:"form_factor" koanf:"form_factor"`
	// TestLevels left empty means every level starts selected.
	TestLevels []string `yaml:"test_levels" koanf:"test_levels"`
	Count      int      `yaml:"count" koanf:"count"`
	TopK       int      `yaml:"top_k" koanf:"top_k"`
	Model      string   `yaml:"model" koanf:"model"`
}
