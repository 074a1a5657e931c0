// Copyright 2025 Zintix Labs
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

package perf_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/ivpid/sdk/perf"
)

func TestRunPProfWritesProfiles(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, mode := range []string{"cpu", "heap", "allocs"} {
		ran := false
		if err := perf.RunPProf(func() error { ran = true; return nil }, mode); err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if !ran {
			t.Fatalf("%s: exe not called", mode)
		}
		if _, err := os.Stat(filepath.Join(perf.Dir, mode+".pprof")); err != nil {
			t.Fatalf("%s profile missing: %v", mode, err)
		}
	}
}

func TestRunPProfPassesError(t *testing.T) {
	t.Chdir(t.TempDir())
	boom := errors.New("boom")
	for _, mode := range []string{"", "cpu", "heap"} {
		if err := perf.RunPProf(func() error { return boom }, mode); !errors.Is(err, boom) {
			t.Fatalf("%q: got %v want boom", mode, err)
		}
	}
	if err := perf.RunPProf(func() error { return nil }, "trace"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
	if _, err := os.Stat(perf.Dir); err == nil {
		entries, _ := os.ReadDir(perf.Dir)
		for _, e := range entries {
			if e.Name() == "trace.pprof" {
				t.Fatalf("unknown mode should not write a profile")
			}
		}
	}
}
