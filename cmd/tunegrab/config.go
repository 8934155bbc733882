package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"github.com/handiism/tunegrab/internal/config"
)

// configCommand handles "config show|path|reset".
func configCommand(f flags, args []string) error {
	action := "show"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "path":
		fmt.Println(f.configPath)
		return nil

	case "show":
		settings, err := config.Load(f.configPath)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(settings)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s", f.configPath, out)
		return nil

	case "reset":
		if !f.yes {
			ok := false
			prompt := &survey.Confirm{Message: fmt.Sprintf("Reset %s to defaults?", f.configPath)}
			if err := survey.AskOne(prompt, &ok); err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		if err := config.DefaultSettings().Save(f.configPath); err != nil {
			return err
		}
		fmt.Printf("Settings reset: %s\n", f.configPath)
		return nil

	default:
		return fmt.Errorf("unknown config action %q (want show, path or reset)", action)
	}
}
