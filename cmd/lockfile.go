// Copyright 2018-2019 The logrange Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// LockFile is an exclusive advisory lock on a file. The file holds the pid of
// the process which owns the lock, so a failed attempt can report it.
type LockFile struct {
	fn string
	fl *flock.Flock
}

// NewLockFile creates new LockFile struct by the file name
func NewLockFile(fn string) *LockFile {
	return &LockFile{fn: fn}
}

// LockOutput returns the locked LockFile which guards the output file out
// against concurrent writers
func LockOutput(out string) (*LockFile, error) {
	lf := NewLockFile(out + ".lock")
	if err := lf.Lock(); err != nil {
		return nil, err
	}
	return lf, nil
}

// Lock tries to acquire the file lock and write the current process Id there.
// It does not wait, an error is returned if the lock is held by someone else.
func (lf *LockFile) Lock() error {
	if lf.fl != nil {
		panic("Lock() must not be called twice")
	}

	fl := flock.New(lf.fn)
	if ok, err := fl.TryLock(); !ok || err != nil {
		if err != nil {
			return errors.Wrapf(err, "could not lock %s", lf.fn)
		}
		if pid, _ := lf.ReadPid(); pid > 0 {
			return errors.Errorf("%s is locked by pid=%d", lf.fn, pid)
		}
		return errors.Errorf("%s is locked", lf.fn)
	}

	if err := ioutil.WriteFile(lf.fn, []byte(strconv.Itoa(os.Getpid())), 0640); err != nil {
		fl.Unlock()
		return errors.Wrapf(err, "could not write current pid to %s", lf.fn)
	}
	lf.fl = fl
	return nil
}

// Unlock releases the lock acquired by Lock and removes the file
func (lf *LockFile) Unlock() {
	if lf.fl == nil {
		panic("Must be locked!")
	}
	os.Remove(lf.fn)
	lf.fl.Unlock()
	lf.fl = nil
}

// ReadPid tries to read the lock file and returns pid value, if possible. -1
// is returned if there is no file.
func (lf *LockFile) ReadPid() (int, error) {
	res, err := ioutil.ReadFile(lf.fn)
	if err != nil {
		return -1, nil
	}

	content := strings.TrimSpace(string(res))
	if len(content) > 10 {
		return -1, fmt.Errorf("wrong content of %s", lf.fn)
	}

	pid, err := strconv.Atoi(content)
	if err != nil {
		return -1, fmt.Errorf("could not parse content=\"%s\" of the file %s", content, lf.fn)
	}
	return pid, nil
}
