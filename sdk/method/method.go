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

// Package method 描述遊戲產生個體時「從 seed 到 PID / IV」之間的亂數呼叫順序。
//
// 同一個 seed 在不同版本或遭遇方式下，PID 低半部、高半部、IV1、IV2 分別取自第幾次呼叫並不相同，
// 這就是所謂的 Method。一般 Method 只差在呼叫位置，因此以一張位置表（Schedule）表示；
// 連鎖異色（Chained）的流程完全不同，獨立實作於 chained.go。
package method

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/ivpid/errs"
	"github.com/zintix-labs/ivpid/sdk/core"
)

// Method 產生方式的 enum
type Method uint8

const (
	None Method = iota
	Method1
	Method2
	Method3
	Method4
	Chained
)

var methodNames = map[Method]string{
	None:    "none",
	Method1: "Method 1",
	Method2: "Method 2",
	Method3: "Method 3",
	Method4: "Method 4",
	Chained: "Chained Shiny",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// Schedule 記錄四個值各自來自 seed 之後的第幾次呼叫（從 1 起算）。
type Schedule struct {
	PIDLow  uint32
	PIDHigh uint32
	IV1     uint32
	IV2     uint32
}

// schedules 為一般 Method 的位置表，索引即 Method。
//
//	Method 1: PIDL PIDH IV1 IV2
//	Method 2: PIDL PIDH --- IV1 IV2
//	Method 3: PIDL --- PIDH IV1 IV2
//	Method 4: PIDL PIDH IV1 --- IV2
var schedules = [...]Schedule{
	Method1: {PIDLow: 1, PIDHigh: 2, IV1: 3, IV2: 4},
	Method2: {PIDLow: 1, PIDHigh: 2, IV1: 4, IV2: 5},
	Method3: {PIDLow: 1, PIDHigh: 3, IV1: 4, IV2: 5},
	Method4: {PIDLow: 1, PIDHigh: 2, IV1: 3, IV2: 5},
}

// reverse 為每個 Method 預先算好的後退跳躍：從 IV2 狀態退到 IV1 狀態與 seed。
type reverse struct {
	toIV1    core.Affine
	toOrigin core.Affine
}

var reverses [len(schedules)]reverse

func init() {
	for m := Method1; m <= Method4; m++ {
		s := schedules[m]
		reverses[m] = reverse{
			toIV1:    core.JumpBack(s.IV2 - s.IV1),
			toOrigin: core.JumpBack(s.IV2),
		}
	}
}

// ScheduleOf 回傳 m 的位置表；Chained 與未知值回傳 false。
func ScheduleOf(m Method) (Schedule, bool) {
	if m < Method1 || m > Method4 {
		return Schedule{}, false
	}
	return schedules[m], true
}

// Frame 為一次產生所用到的四個輸出。
type Frame struct {
	PIDLow  uint16
	PIDHigh uint16
	IV1     uint16
	IV2     uint16
}

// PID 回傳 frame 組出的性格值。
func (f Frame) PID() uint32 {
	return uint32(f.PIDHigh)<<16 | uint32(f.PIDLow)
}

// Walk 從 seed 依 m 的呼叫順序往前走，取出四個輸出。
// m 必須是 Method1..Method4。
func Walk(seed uint32, m Method) Frame {
	s := schedules[m]
	var f Frame
	state := seed
	for call := uint32(1); call <= s.IV2; call++ {
		var out uint16
		state, out = core.Next(state)
		switch call {
		case s.PIDLow:
			f.PIDLow = out
		case s.PIDHigh:
			f.PIDHigh = out
		case s.IV1:
			f.IV1 = out
		case s.IV2:
			f.IV2 = out
		}
	}
	return f
}

// Locate 由「產生 IV2 的狀態」反推 seed 與 IV1 的輸出。
func Locate(iv2State uint32, m Method) (uint32, uint16) {
	r := &reverses[m]
	return r.toOrigin.Apply(iv2State), core.Output(r.toIV1.Apply(iv2State))
}

// PIDFrom 由 seed 取出 PID 的低、高半部。
func PIDFrom(seed uint32, m Method) (uint16, uint16) {
	s := &schedules[m]
	// 所有 Method 的 PID 低半部都是第 1 次呼叫
	state, low := core.Next(seed)
	var high uint16
	for call := s.PIDLow; call < s.PIDHigh; call++ {
		state, high = core.Next(state)
	}
	return low, high
}

// Set 為允許嘗試的 Method 集合（bitmask）。
type Set uint8

// 預設集合
const (
	NDS       Set = 1 << Method1
	CommonGBA     = NDS | 1<<Method2 | 1<<Method4
	AllGBA        = CommonGBA | 1<<Method3
)

// Of 以列舉的 Method 組出集合；Chained 與未知值會被忽略。
func Of(ms ...Method) Set {
	var s Set
	for _, m := range ms {
		if m >= Method1 && m <= Method4 {
			s |= 1 << m
		}
	}
	return s
}

// Has 回報集合是否包含 m。
func (s Set) Has(m Method) bool {
	return m >= Method1 && m <= Method4 && s&(1<<m) != 0
}

// Methods 依編號順序列出集合內的 Method。
func (s Set) Methods() []Method {
	out := make([]Method, 0, 4)
	for m := Method1; m <= Method4; m++ {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s Set) String() string {
	switch s {
	case NDS:
		return "nds"
	case CommonGBA:
		return "common"
	case AllGBA:
		return "all"
	}
	names := make([]string, 0, 4)
	for _, m := range s.Methods() {
		names = append(names, m.String())
	}
	return strings.Join(names, "+")
}

// ParseSet 解析 "nds" / "common" / "all"（或舊式旗標 0 / 1 / 2），
// 也接受 "m1,m2,m4" 這種逐一列舉的寫法。
func ParseSet(str string) (Set, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	switch str {
	case "", "nds", "0":
		return NDS, nil
	case "common", "gba", "1":
		return CommonGBA, nil
	case "all", "2":
		return AllGBA, nil
	}
	var s Set
	for _, part := range strings.Split(str, ",") {
		switch strings.TrimSpace(part) {
		case "m1":
			s |= 1 << Method1
		case "m2":
			s |= 1 << Method2
		case "m3":
			s |= 1 << Method3
		case "m4":
			s |= 1 << Method4
		default:
			return 0, errs.Warnf("unknown method %q", part)
		}
	}
	return s, nil
}
