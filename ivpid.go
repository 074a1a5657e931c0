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

// Package ivpid 是 IV / PID 反查引擎的入口。
//
// 給定想要的個體值、性格、特性、覺醒力量與異色條件（profile.Profile），
// 引擎窮舉 LCRNG 的狀態空間，找出所有能產生該個體的 seed。
//
// 組成（由底層往上）：
//  1. sdk/core   ：LCRNG 前進／後退與跳躍。
//  2. sdk/trait  ：把 16-bit 輸出解讀為 IV / PID / 覺醒力量 / 異色。
//  3. sdk/method ：各 Method 的呼叫順序（含連鎖異色）。
//  4. 本包       ：Searcher 負責窮舉與過濾，Scanner 把狀態空間切塊交給多個工作協程。
//
// 核心是同步的純函數組合；唯一的可變狀態是 Searcher 自己持有的結果計數。
package ivpid

import (
	"strings"

	"github.com/zintix-labs/ivpid/sdk/method"
)

// Mode 決定搜尋走哪一條流程：一般 Method 的集合，或完全不同的連鎖異色流程。
type Mode interface {
	mode()
	String() string
}

// Restricted 只嘗試集合內的一般 Method。
type Restricted struct {
	Methods method.Set
}

// ChainedShiny 使用連鎖異色流程。
type ChainedShiny struct{}

func (Restricted) mode()   {}
func (ChainedShiny) mode() {}

func (r Restricted) String() string { return r.Methods.String() }
func (ChainedShiny) String() string { return "chained" }

// ParseMode 解析 CLI / 設定檔中的方式字串。
// "chained"（或舊式旗標 -1）為連鎖異色，其餘交給 method.ParseSet。
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chained", "chain", "-1":
		return ChainedShiny{}, nil
	}
	set, err := method.ParseSet(s)
	if err != nil {
		return nil, err
	}
	return Restricted{Methods: set}, nil
}
