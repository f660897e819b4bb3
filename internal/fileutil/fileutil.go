/*
Copyright The Helm Authors.

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

package fileutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// AtomicWriteFile atomically (as atomic as os.Rename allows) writes a file to a
// disk.
func AtomicWriteFile(filename string, reader io.Reader, mode os.FileMode) error {
	tempFile, err := os.CreateTemp(filepath.Split(filename))
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	if _, err := io.Copy(tempFile, reader); err != nil {
		tempFile.Close() // return value is ignored as we are already on error path
		os.Remove(tempName)
		return err
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Chmod(tempName, mode); err != nil {
		os.Remove(tempName)
		return err
	}

	return os.Rename(tempName, filename)
}

// PublishDir moves a fully populated staging directory to dst in a single
// rename, so dst is never observed half written.
//
// If dst already exists, or appears while the rename is in flight, the
// staging directory is left in place and PublishDir reports published=false
// with a nil error. Callers remove the staging directory in that case.
func PublishDir(staging, dst string) (published bool, err error) {
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	}

	if err := os.Rename(staging, dst); err != nil {
		if _, statErr := os.Stat(dst); statErr == nil {
			return false, nil
		}
		return false, errors.Wrapf(err, "cannot move %s to %s", staging, dst)
	}
	return true, nil
}
