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

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/ivpid/sdk/perf"
)

// runTest 清除 test cache 後跑全部測試。
// detail 為 false 時只印出 ok / FAIL 與建置錯誤；為 true 時印出全部，但略過 [no test files]。
func runTest(detail bool) error {
	PrintGreen("running tests")
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		PrintRed(err.Error())
	}

	args := []string{"test", "./...", "-cover", "-count=1"}
	if detail {
		args = append(args, "-v")
	}
	cmd := exec.Command("go", args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	// 對應 "2>&1"：編譯錯誤通常在 stderr
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting go test: %w", err)
	}

	sc := bufio.NewScanner(out)
	for sc.Scan() {
		printTestLine(sc.Text(), detail)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("tests finished with errors")
	}
	return nil
}

func printTestLine(line string, detail bool) {
	switch {
	case strings.Contains(line, "[no test files]"):
	case strings.HasPrefix(line, "ok"):
		PrintGreen(line)
	case strings.HasPrefix(line, "FAIL"):
		PrintRed(line)
	case strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
		PrintRed(line)
	case detail:
		fmt.Println(line)
	}
}

// runPGO 以一次代表性的全範圍掃描收集 CPU profile，複製成 cmd/ivpid/default.pgo。
// 最低值模式會展開每一塊，是最重的路徑。
func runPGO() error {
	PrintGreen("collecting cpu profile")
	cmd := exec.Command("go", "run", "./cmd/ivpid",
		"-p", "cpu", "-q", "-methods", "all",
		"-hp", "30", "-atk", "30", "-def", "30",
		"-o", os.DevNull)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("profiling run: %w", err)
	}

	src := filepath.Join(perf.Dir, "cpu.pprof")
	dst := filepath.Join("cmd", "ivpid", "default.pgo")
	if err := copyFile(src, dst); err != nil {
		return err
	}
	PrintBlue("wrote " + dst)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
