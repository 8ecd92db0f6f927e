// Package version tracks the running release and discovers newer ones.
package version

import (
	"fmt"

	"github.com/anigrab-cli/anigrab/color"
	"github.com/anigrab-cli/anigrab/constant"
	"github.com/anigrab-cli/anigrab/icon"
	"github.com/anigrab-cli/anigrab/key"
	"github.com/anigrab-cli/anigrab/style"
	"github.com/anigrab-cli/anigrab/util"
	"github.com/spf13/viper"
)

// Notify prints a terminal alert when a newer release is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest()
	erase()
	if err == nil {
		comp, err := Compare(version, constant.Version)
		if err == nil && comp <= 0 {
			return
		}
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/anigrab-cli/anigrab/releases/tag/v"+version),
	)
}
