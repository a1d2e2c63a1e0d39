/*
Copyright 2024 The RedwoodJS Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package quickstart

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/tcnksm/go-input"
	"golang.org/x/term"
)

// terminalConfirm asks on the terminal attached to in. When in is not a
// terminal every question is answered yes.
func terminalConfirm(in *os.File, out io.Writer) func(string) (bool, error) {
	return func(question string) (bool, error) {
		if !term.IsTerminal(int(in.Fd())) {
			return true, nil
		}
		ui := &input.UI{
			Writer: out,
			Reader: in,
		}
		answer, err := ui.Ask(question+" [Y/n]", &input.Options{
			Default:     "y",
			HideDefault: true,
			HideOrder:   true,
			Loop:        true,
			ValidateFunc: func(s string) error {
				switch strings.ToLower(strings.TrimSpace(s)) {
				case "y", "yes", "n", "no":
					return nil
				}
				return errors.New("please answer y or n")
			},
		})
		if err != nil {
			return false, err
		}
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y"), nil
	}
}
