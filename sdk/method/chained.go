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

package method

import "github.com/zintix-labs/ivpid/sdk/core"

// 連鎖異色的 PID 需要 15 次呼叫：
//
//	第 1 次：PID 低半部的 bit 0-2
//	第 2 次：PID 高半部的 bit 0-2
//	第 3-15 次：各取最低位，依序填入 PID 低半部的 bit 3-15
//
// PID 高半部的 bit 3-15 不取亂數，而是由 (低半部 ^ TID ^ SID) 決定，保證必為異色。
// 之後緊接著 IV1、IV2。
const (
	ChainedPIDCalls = 15
	chainedIV1      = ChainedPIDCalls + 1
	chainedIV2      = ChainedPIDCalls + 2
)

var (
	chainedToIV1    = core.JumpBack(chainedIV2 - chainedIV1)
	chainedToOrigin = core.JumpBack(chainedIV2)
)

// ChainedWalk 從 seed 依連鎖異色流程往前走，回傳 PID 與 IV 輸出。
func ChainedWalk(seed uint32, idXorSID uint16) Frame {
	r := core.New(seed)
	low := r.Next() & 7
	second := r.Next()
	for bit := 3; bit < 16; bit++ {
		low |= (r.Next() & 1) << bit
	}
	iv1 := r.Next()
	iv2 := r.Next()
	return Frame{
		PIDLow:  low,
		PIDHigh: ChainedHigh(low, second, idXorSID),
		IV1:     iv1,
		IV2:     iv2,
	}
}

// ChainedHigh 以 PID 低半部、第 2 次呼叫的輸出與 TID^SID 組出 PID 高半部。
func ChainedHigh(low, second, idXorSID uint16) uint16 {
	return (low^idXorSID)&0xFFF8 | second&7
}

// ChainedLocate 由產生 IV2 的狀態反推 seed 與 IV1 輸出。
func ChainedLocate(iv2State uint32) (uint32, uint16) {
	return chainedToOrigin.Apply(iv2State), core.Output(chainedToIV1.Apply(iv2State))
}

// ChainedMatches 逐次檢查 seed 之後的 15 次呼叫是否能組出 pid。
//
// 每一次呼叫只約束 PID 的幾個位元，任何一次不符就立即結束；
// 高半部 bit 3-15 與低半部之間的異色關係不需要亂數，最先檢查。
func ChainedMatches(seed uint32, pid uint32, idXorSID uint16) bool {
	low, high := uint16(pid), uint16(pid>>16)
	if (low^high^idXorSID)&0xFFF8 != 0 {
		return false
	}
	r := core.New(seed)
	if r.Next()&7 != low&7 {
		return false
	}
	if r.Next()&7 != high&7 {
		return false
	}
	for bit := 3; bit < 16; bit++ {
		if r.Next()&1 != (low>>bit)&1 {
			return false
		}
	}
	return true
}
