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
	"context"

	"github.com/zintix-labs/ivpid/dto"
	"github.com/zintix-labs/ivpid/errs"
	"github.com/zintix-labs/ivpid/profile"
	"github.com/zintix-labs/ivpid/sdk/core"
	"github.com/zintix-labs/ivpid/sdk/method"
	"github.com/zintix-labs/ivpid/sdk/trait"
)

// 狀態空間切塊：產生 IV2 的狀態最高位固定為 0（見 FindPID），
// 其餘 31 位拆成「IV2 輸出的 15 位」x「低 16 位」。
// 同一塊內 IV2 完全相同，所以 IV2 條件只需在塊的層級檢查一次。
const (
	BlockSize = 1 << 16
	Blocks    = 1 << 15
)

// Searcher 在單一協程內執行搜尋，並自行持有結果計數。
// 不是併發安全的；平行搜尋請讓每個協程各自持有一個 Searcher（見 Scanner）。
type Searcher struct {
	p       profile.Profile
	methods []method.Method
	chained bool
	ivTest  trait.IVTester
	sink    dto.Sink
	count   int
	states  uint64
}

// NewSearcher 建立搜尋器。exact 決定個體值為精確或最低值，只在此解析一次。
// sink 為 nil 時只計數。
func NewSearcher(p profile.Profile, mode Mode, exact bool, sink dto.Sink) *Searcher {
	if sink == nil {
		sink = dto.Discard
	}
	s := &Searcher{
		p:      p,
		ivTest: trait.GetIVTester(exact),
		sink:   sink,
	}
	switch m := mode.(type) {
	case ChainedShiny:
		s.chained = true
	case Restricted:
		s.methods = m.Methods.Methods()
	}
	return s
}

// Count 回傳目前為止送出的結果數。
func (s *Searcher) Count() int { return s.count }

// States 回傳目前為止檢查過的狀態數（含被塊層級過濾掉的）。
func (s *Searcher) States() uint64 { return s.states }

func (s *Searcher) emit(r dto.Result) {
	s.count++
	s.sink.Emit(r)
}

// FindPID 由 seed 依 m 取出 PID，檢查性格、特性與異色後送出。
//
// iv1、iv2 必須已通過個體值條件。IV 只用到輸出的低 15 位，
// 而 seed 最高位的翻轉只會翻轉之後每個輸出的 bit 15，
// 因此 seed 與 seed^0x80000000 產生相同 IV、不同 PID，兩者都要檢查，最多送出兩筆。
func (s *Searcher) FindPID(seed uint32, iv1, iv2 uint16, m method.Method) {
	ivs := trait.DecodeIVs(iv1, iv2)
	for _, origin := range [2]uint32{seed, seed ^ core.SignBit} {
		low, high := method.PIDFrom(origin, m)
		pid := trait.PID(low, high)
		if !trait.PIDTest(pid, s.p.Nature, s.p.Ability) {
			continue
		}
		if !trait.XORTest(low, high, s.p.IDxorSID) {
			continue
		}
		s.emit(dto.Result{Seed: origin, Method: m, PID: pid, IVs: ivs})
	}
}

// FindChainedPID 是 FindPID 的連鎖異色版本。
//
// 沿著連鎖流程重走一次 seed 之後的 17 次呼叫，確認 IV1 / IV2 確實落在預期位置，
// 再檢查 PID。最高位翻轉不影響連鎖 PID（只取各輸出的低位），
// 所以兩個 seed 只要通過就是兩筆不同 seed 的相同個體。
func (s *Searcher) FindChainedPID(seed uint32, iv1, iv2 uint16) {
	ivs := trait.DecodeIVs(iv1, iv2)
	for _, origin := range [2]uint32{seed, seed ^ core.SignBit} {
		f := method.ChainedWalk(origin, s.p.IDxorSID)
		if (f.IV1^iv1)&0x7FFF != 0 || (f.IV2^iv2)&0x7FFF != 0 {
			continue
		}
		pid := f.PID()
		if !trait.PIDTest(pid, s.p.Nature, s.p.Ability) {
			continue
		}
		if !trait.XORTest(f.PIDLow, f.PIDHigh, s.p.IDxorSID) {
			continue
		}
		s.emit(dto.Result{Seed: origin, Method: method.Chained, PID: pid, IVs: ivs})
	}
}

// Test 檢查一個「產生 IV2 的狀態」在所有允許的 Method 下是否能產生目標個體。
func (s *Searcher) Test(ivState uint32) {
	iv2 := core.Output(ivState)
	if !s.iv2OK(iv2) {
		s.states++
		return
	}
	s.test(ivState, iv2)
}

func (s *Searcher) iv2OK(iv2 uint16) bool {
	v := &s.p.IVs
	return s.ivTest(iv2, v[trait.Spe], v[trait.SpA], v[trait.SpD])
}

// test 假設 iv2 已通過。過濾順序由便宜到昂貴：
// IV1 → 覺醒力量預檢 → 覺醒力量 → PID / 性格 / 特性 → 異色。
func (s *Searcher) test(ivState uint32, iv2 uint16) {
	s.states++
	v := &s.p.IVs
	hpt, hpp := s.p.HPType, s.p.HPPower

	if s.chained {
		origin, iv1 := method.ChainedLocate(ivState)
		if !s.ivTest(iv1, v[trait.HP], v[trait.Atk], v[trait.Def]) {
			return
		}
		if !trait.HPPretest(iv1, hpt, hpp) || !trait.HPTest(iv1, iv2, hpt, hpp) {
			return
		}
		s.FindChainedPID(origin, iv1, iv2)
		return
	}

	for _, m := range s.methods {
		origin, iv1 := method.Locate(ivState, m)
		if !s.ivTest(iv1, v[trait.HP], v[trait.Atk], v[trait.Def]) {
			continue
		}
		if !trait.HPPretest(iv1, hpt, hpp) || !trait.HPTest(iv1, iv2, hpt, hpp) {
			continue
		}
		s.FindPID(origin, iv1, iv2, m)
	}
}

// TestBlock 檢查第 block 塊（IV2 輸出為 block 的 65536 個狀態）。
func (s *Searcher) TestBlock(block uint32) {
	iv2 := uint16(block)
	if !s.iv2OK(iv2) {
		s.states += BlockSize
		return
	}
	base := block << 16
	for lo := range uint32(BlockSize) {
		s.test(base|lo, iv2)
	}
}

// TestRange 檢查 [from, to) 之間的塊。每塊之間檢查一次 ctx，可協作式中斷。
func (s *Searcher) TestRange(ctx context.Context, from, to uint32) error {
	to = min(to, Blocks)
	for block := from; block < to; block++ {
		if err := ctx.Err(); err != nil {
			return errs.Wrap(err, "search interrupted")
		}
		s.TestBlock(block)
	}
	return nil
}

// TestAllPossibleSeeds 窮舉 [0, 0x7FFFFFFF] 的所有狀態，回傳累計結果數。
//
// 只需要最高位為 0 的一半：另一半由 FindPID 以 seed^0x80000000 的方式涵蓋。
func (s *Searcher) TestAllPossibleSeeds(ctx context.Context) (int, error) {
	err := s.TestRange(ctx, 0, Blocks)
	return s.count, err
}

// GetFromSeed 不做任何過濾，直接列出每個允許的 Method 下產生的個體。
//
// state 是「抽出 PID 低半部之後」的狀態，與搜尋結果的 Seed 差一步：
// 結果中的 Seed 為 core.Prev(state)，即產生前的狀態。
// 連鎖異色的第一次呼叫同樣落在 PID 低半部，因此以相同方式回推。
func (s *Searcher) GetFromSeed(state uint32) {
	origin, _ := core.Prev(state)
	if s.chained {
		f := method.ChainedWalk(origin, s.p.IDxorSID)
		s.emit(dto.Result{Seed: origin, Method: method.Chained, PID: f.PID(), IVs: trait.DecodeIVs(f.IV1, f.IV2)})
		return
	}
	for _, m := range s.methods {
		f := method.Walk(origin, m)
		s.emit(dto.Result{Seed: origin, Method: m, PID: f.PID(), IVs: trait.DecodeIVs(f.IV1, f.IV2)})
	}
}
