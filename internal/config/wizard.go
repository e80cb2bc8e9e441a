package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to testgen! Let's point it at your generation service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend host.
	hostPrompt := promptui.Prompt{
		Label:    "API host",
		Default:  DefaultHost,
		Validate: validateHost,
	}
	host, err := hostPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api host: %w", err)
	}
	cfg.API.Host = strings.TrimRight(strings.TrimSpace(host), "/")

	// 2. Request timeout.
	timeoutPrompt := promptui.Prompt{
		Label:   "Request timeout in milliseconds (0 disables)",
		Default: strconv.Itoa(DefaultTimeoutMS),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 0 {
				return fmt.Errorf("enter a non-negative number")
			}
			return nil
		},
	}
	timeoutStr, err := timeoutPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("timeout: %w", err)
	}
	cfg.API.Timeout, _ = strconv.Atoi(strings.TrimSpace(timeoutStr))

	// 3. Default form factor.
	factors := make([]string, len(KnownFormFactors))
	for i, f := range KnownFormFactors {
		factors[i] = string(f)
	}
	factorPrompt := promptui.Select{
		Label: "Default form factor",
		Items: factors,
	}
	factorIdx, _, err := factorPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("form factor selection: %w", err)
	}
	cfg.Defaults.FormFactor = KnownFormFactors[factorIdx]

	// 4. Test levels.
	levelsPrompt := promptui.Prompt{
		Label:   "Default test levels (comma-separated, leave blank for all)",
		Default: "",
		Validate: func(s string) error {
			for _, level := range splitAndTrim(s) {
				if !IsKnownTestLevel(level) {
					return fmt.Errorf("unknown test level %q", level)
				}
			}
			return nil
		},
	}
	levelsStr, err := levelsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("test levels: %w", err)
	}
	cfg.Defaults.TestLevels = splitAndTrim(levelsStr)

	// 5. Project name.
	projectPrompt := promptui.Prompt{
		Label:   "Default project name",
		Default: "",
	}
	project, err := projectPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project name: %w", err)
	}
	cfg.Defaults.ProjectName = strings.TrimSpace(project)

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateHost(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter an absolute URL such as %s", DefaultHost)
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
