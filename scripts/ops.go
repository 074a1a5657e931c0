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

// 開發用任務腳本：go run ./scripts [task]
package main

import (
	"fmt"
	"os"
)

func main() {
	// 如果沒有送任何參數進來，我們告訴用戶需要帶上 task
	if len(os.Args) < 2 {
		PrintYellow("Usage: go run ./scripts [test|test-detail|pgo]")
		os.Exit(1)
	}
	if err := selectTask(os.Args[1]); err != nil {
		PrintRed(err.Error())
		os.Exit(1)
	}
}

func selectTask(task string) error {
	switch task {
	case "test":
		return runTest(false)
	case "test-detail":
		return runTest(true)
	case "pgo":
		return runPGO()
	}
	return fmt.Errorf("unknown task: %s", task)
}
