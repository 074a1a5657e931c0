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

// Package perf 讓 CLI 以旗標切換 pprof，把整段搜尋包進 profile。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/ivpid/errs"
)

// Dir 為 pprof 檔案寫入路徑
const Dir = "build/profiling"

// Modes 列出可用的 profile 種類
var Modes = []string{"", "cpu", "heap", "allocs"}

// RunPProf 根據 mode 決定執行哪種 Profiling；exe 的錯誤優先回傳。
//
// Usage like:
//
//	go run ./cmd/ivpid -p cpu -hp 31 -atk 31
func RunPProf(exe func() error, mode string) error {
	switch mode {
	case "":
		return exe()
	case "cpu":
		return PProfCPU(exe)
	case "heap":
		return afterRun(exe, "heap.pprof", func(f *os.File) error {
			// 盡量讓快照貼近最新狀態
			runtime.GC()
			return pprof.WriteHeapProfile(f)
		})
	case "allocs":
		return afterRun(exe, "allocs.pprof", func(f *os.File) error {
			prof := pprof.Lookup("allocs")
			if prof == nil {
				return nil
			}
			return prof.WriteTo(f, 0)
		})
	}
	return errs.Warnf("unknown pprof mode %q", mode)
}

// PProfCPU 對 exe 做 CPU profiling，輸出 build/profiling/cpu.pprof。
// 也可以拿來做構建時給 pgo 的優化 blueprint。
func PProfCPU(exe func() error) error {
	f, err := create("cpu.pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "failed to start pprof")
	}
	err = exe()
	pprof.StopCPUProfile()
	return err
}

// 先執行目標邏輯，再拍一次快照
func afterRun(exe func() error, name string, write func(*os.File) error) error {
	runErr := exe()
	f, err := create(name)
	if err != nil {
		return firstErr(runErr, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return firstErr(runErr, errs.Wrap(err, "failed to write "+name))
	}
	return runErr
}

func create(name string) (*os.File, error) {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "failed to create "+Dir)
	}
	f, err := os.Create(filepath.Join(Dir, name))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create "+name)
	}
	return f, nil
}

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}
