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

package ivpid

import (
	"github.com/zintix-labs/ivpid/dto"
	"github.com/zintix-labs/ivpid/sdk/core"
	"github.com/zintix-labs/ivpid/sdk/method"
	"github.com/zintix-labs/ivpid/sdk/trait"
)

// HighPIDMatches 檢查「產生 PID 低半部的狀態」下一步是否輸出 pidHigh。
// 低半部視為已知正確，只驗證高半部。
func HighPIDMatches(state uint32, pidHigh uint16) bool {
	_, out := core.Next(state)
	return out == pidHigh
}

// ChainedCandidates 是連鎖異色反向搜尋的候選數：第一次呼叫只固定輸出的低 3 位，
// 「抽出 PID 低半部之後」的狀態還剩 29 位未知。
const ChainedCandidates = 1 << 29

// SearchPID 反向搜尋：找出所有能產生 pid 的 seed，並以個體值與覺醒力量條件過濾。
//
// 產生 PID 低半部的狀態高 16 位就是低半部本身，只剩低 16 位未知，
// 因此每個 Method 只需檢查 65536 個候選。PID 已固定，性格與特性條件仍會套用，
// 異色條件也照常檢查。連鎖異色見 searchChainedPID。
func (s *Searcher) SearchPID(pid uint32) (int, error) {
	low, high := trait.SplitPID(pid)
	if !trait.PIDTest(pid, s.p.Nature, s.p.Ability) {
		return s.count, nil
	}
	if s.chained {
		s.searchChainedPID(pid)
		return s.count, nil
	}
	if !trait.XORTest(low, high, s.p.IDxorSID) {
		return s.count, nil
	}
	v := &s.p.IVs
	for _, m := range s.methods {
		sch, _ := method.ScheduleOf(m)
		gap := core.Jump(sch.PIDHigh - sch.PIDLow - 1)
		back := core.JumpBack(sch.PIDLow)
		for lo := range uint32(BlockSize) {
			state := uint32(low)<<16 | lo
			s.states++
			// 高半部緊接在低半部之後時 gap 為恆等變換
			if !HighPIDMatches(gap.Apply(state), high) {
				continue
			}
			seed := back.Apply(state)
			f := method.Walk(seed, m)
			if !s.ivTest(f.IV1, v[trait.HP], v[trait.Atk], v[trait.Def]) || !s.iv2OK(f.IV2) {
				continue
			}
			if !trait.HPTest(f.IV1, f.IV2, s.p.HPType, s.p.HPPower) {
				continue
			}
			s.emit(dto.Result{Seed: seed, Method: m, PID: pid, IVs: trait.DecodeIVs(f.IV1, f.IV2)})
		}
	}
	return s.count, nil
}

// searchChainedPID 窮舉第一次呼叫輸出低 3 位等於 PID 低半部 bit 0-2 的狀態，
// 退回一步得到 seed 後交給 ChainedMatches，多數候選在前幾次呼叫就被排除。
// 最高位翻轉後的 seed 本身也在候選之中，不需另外處理。
func (s *Searcher) searchChainedPID(pid uint32) {
	low, high := trait.SplitPID(pid)
	x := s.p.IDxorSID
	if (low^high^x)&0xFFF8 != 0 {
		return
	}
	v := &s.p.IVs
	fixed := uint32(low&7) << 16
	for k := range uint32(ChainedCandidates) {
		state := (k>>16)<<19 | fixed | k&0xFFFF
		s.states++
		seed, _ := core.Prev(state)
		if !method.ChainedMatches(seed, pid, x) {
			continue
		}
		f := method.ChainedWalk(seed, x)
		if !s.ivTest(f.IV1, v[trait.HP], v[trait.Atk], v[trait.Def]) || !s.iv2OK(f.IV2) {
			continue
		}
		if !trait.HPTest(f.IV1, f.IV2, s.p.HPType, s.p.HPPower) {
			continue
		}
		s.emit(dto.Result{Seed: seed, Method: method.Chained, PID: pid, IVs: trait.DecodeIVs(f.IV1, f.IV2)})
	}
}
