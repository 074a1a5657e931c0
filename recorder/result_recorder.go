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

package recorder

import (
	"fmt"

	"github.com/zintix-labs/ivpid/dto"
	"github.com/zintix-labs/ivpid/errs"
	"github.com/zintix-labs/ivpid/sdk/method"
	"github.com/zintix-labs/ivpid/sdk/trait"
	"github.com/zintix-labs/ivpid/stats"
)

const (
	hpPowerSpan = trait.HPMaxPower - trait.HPMinPower + 1
	ivTotalSpan = 6*31 + 1
)

// ResultRecorder 搜尋紀錄員
//
// ResultRecorder 本身是一個 dto.Sink，每個工作協程持有一份，結束後以 MergeResultRecorder 合併，
// 再透過 Done 輸出統計報表。
type ResultRecorder struct {
	Mode     string
	Exact    bool
	PerState int    // 每個 IV2 狀態實際嘗試的產生方式數
	IDxorSID uint16 // 異色判定用；NoShinyCheck 表示不判定
	Basic    *BasicRecord
	Dist     *DistRecord
}

// BasicRecord 基本計數
type BasicRecord struct {
	Results    int
	Shiny      int
	States     uint64
	Candidates uint64
}

// DistRecord 結果分佈
type DistRecord struct {
	ByMethod [method.Chained + 1]int
	ByNature [trait.NatureCount]int
	ByHPType [trait.HPTypeCount]int
	HPPower  [hpPowerSpan]int
	IVTotal  [ivTotalSpan]int
}

func NewResultRecorder(mode string, exact bool, perState int, idXorSID uint16) (*ResultRecorder, error) {
	r := new(ResultRecorder)
	if perState <= 0 {
		return r, errs.NewFatal(fmt.Sprintf("methods per state must be positive, got: %d", perState))
	}
	r.Mode = mode
	r.Exact = exact
	r.PerState = perState
	r.IDxorSID = idXorSID
	r.Basic = new(BasicRecord)
	r.Dist = new(DistRecord)
	return r, nil
}

func MergeResultRecorder(r []*ResultRecorder) (*ResultRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge result record err : empty input")
	}
	r0 := r[0]
	s, err := NewResultRecorder(r0.Mode, r0.Exact, r0.PerState, r0.IDxorSID)
	if err != nil {
		return s, err
	}
	for _, v := range r {
		if v.Mode != r0.Mode {
			return s, errs.NewFatal("merge result record err : different mode")
		}
		if v.Exact != r0.Exact || v.PerState != r0.PerState || v.IDxorSID != r0.IDxorSID {
			return s, errs.NewFatal("merge result record err : different search setting")
		}
		s.Basic.Results += v.Basic.Results
		s.Basic.Shiny += v.Basic.Shiny
		s.Basic.States += v.Basic.States
		s.Basic.Candidates += v.Basic.Candidates

		d, vd := s.Dist, v.Dist
		for i := range vd.ByMethod {
			d.ByMethod[i] += vd.ByMethod[i]
		}
		for i := range vd.ByNature {
			d.ByNature[i] += vd.ByNature[i]
		}
		for i := range vd.ByHPType {
			d.ByHPType[i] += vd.ByHPType[i]
		}
		for i := range vd.HPPower {
			d.HPPower[i] += vd.HPPower[i]
		}
		for i := range vd.IVTotal {
			d.IVTotal[i] += vd.IVTotal[i]
		}
	}
	return s, nil
}

// Emit 記錄一筆結果
func (r *ResultRecorder) Emit(res dto.Result) {
	r.Basic.Results++
	if res.Shiny(r.IDxorSID) {
		r.Basic.Shiny++
	}
	d := r.Dist
	if int(res.Method) < len(d.ByMethod) {
		d.ByMethod[res.Method]++
	}
	d.ByNature[res.Nature()]++
	t, p := res.HiddenPower()
	d.ByHPType[t]++
	d.HPPower[p-trait.HPMinPower]++
	d.IVTotal[res.IVs.Total()]++
}

// AddStates 累加已檢查的 IV2 狀態數。
// 每個狀態連同最高位翻轉、對每個 Method 各算一次候選。
func (r *ResultRecorder) AddStates(n uint64) {
	r.Basic.States += n
	r.Basic.Candidates += n * 2 * uint64(r.PerState)
}

// AddCandidates 累加逐一檢查的候選狀態（反向 PID 搜尋），每個狀態只算一次候選。
func (r *ResultRecorder) AddCandidates(n uint64) {
	r.Basic.States += n
	r.Basic.Candidates += n
}

func (r *ResultRecorder) Done() *stats.Report {
	d := r.Dist
	rep := &stats.Report{
		Summary: &stats.SummaryReport{
			Mode:       r.Mode,
			Exact:      r.Exact,
			Results:    r.Basic.Results,
			States:     r.Basic.States,
			Candidates: r.Basic.Candidates,
			Shiny:      r.Basic.Shiny,
		},
		Dist: &stats.DistReport{},
	}
	out := rep.Dist
	for m, c := range d.ByMethod {
		if c > 0 {
			out.MethodLabel = append(out.MethodLabel, method.Method(m).String())
			out.MethodCount = append(out.MethodCount, c)
		}
	}
	for n, c := range d.ByNature {
		if c > 0 {
			out.NatureLabel = append(out.NatureLabel, trait.NatureName(n))
			out.NatureCount = append(out.NatureCount, c)
		}
	}
	for t, c := range d.ByHPType {
		if c > 0 {
			out.HPTypeLabel = append(out.HPTypeLabel, trait.HPTypeName(t))
			out.HPTypeCount = append(out.HPTypeCount, c)
		}
	}
	for i, c := range d.HPPower {
		if c > 0 {
			out.HPPowerLabel = append(out.HPPowerLabel, i+trait.HPMinPower)
			out.HPPowerCount = append(out.HPPowerCount, c)
		}
	}
	for i, c := range d.IVTotal {
		if c > 0 {
			out.IVTotalLabel = append(out.IVTotalLabel, i)
			out.IVTotalCount = append(out.IVTotalCount, c)
		}
	}
	rep.Done()
	return rep
}
