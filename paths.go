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
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/redwoodjs/quickstart/fault"
)

// expandPath expands a leading ~ and makes path absolute.
func expandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fault.Wrap(fault.Usage, fmt.Sprintf("invalid path %s", path), err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fault.Wrap(fault.Usage, fmt.Sprintf("invalid path %s", path), err)
	}
	return abs, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fault.Wrap(fault.ReadError, fmt.Sprintf("failed to stat %s", path), err)
}
