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

// Package dto 定義搜尋結果與結果的輸出介面，供搜尋核心、紀錄員與 CLI 共用。
package dto

import (
	"fmt"
	"sync"

	"github.com/zintix-labs/ivpid/sdk/method"
	"github.com/zintix-labs/ivpid/sdk/trait"
)

// Result 一筆符合條件的 seed。
type Result struct {
	Seed   uint32        `json:"seed"`   // 產生前的 LCRNG 狀態
	Method method.Method `json:"method"` // 產生方式
	PID    uint32        `json:"pid"`    // 性格值
	IVs    trait.IVs     `json:"ivs"`    // HP/Atk/Def/SpA/SpD/Spe
}

// Nature 性格編號
func (r Result) Nature() int { return trait.Nature(r.PID) }

// Ability 特性欄位
func (r Result) Ability() int { return trait.Ability(r.PID) }

// HiddenPower 覺醒力量屬性與威力
func (r Result) HiddenPower() (int, int) { return trait.HiddenPower(r.IVs) }

// Shiny 以 TID^SID 判定是否異色；略過值一律回傳 false。
func (r Result) Shiny(idXorSID uint16) bool {
	if idXorSID == trait.NoShinyCheck {
		return false
	}
	return trait.IsShiny(r.PID, idXorSID)
}

func (r Result) String() string {
	t, p := r.HiddenPower()
	return fmt.Sprintf("seed=%08X %s pid=%08X %s ability=%d ivs=%d/%d/%d/%d/%d/%d hp=%s %d",
		r.Seed, r.Method, r.PID, trait.NatureName(r.Nature()), r.Ability(),
		r.IVs[trait.HP], r.IVs[trait.Atk], r.IVs[trait.Def], r.IVs[trait.SpA], r.IVs[trait.SpD], r.IVs[trait.Spe],
		trait.HPTypeName(t), p)
}

// ResultDTO 為對外輸出（JSON / CSV）的扁平結構，數值轉為可讀字串。
type ResultDTO struct {
	Seed    string `json:"seed"`
	Method  string `json:"method"`
	PID     string `json:"pid"`
	Nature  string `json:"nature"`
	Ability int    `json:"ability"`
	IVs     [6]int `json:"ivs"`
	HPType  string `json:"hp_type"`
	HPPower int    `json:"hp_power"`
}

// NewResultDTO 轉換為輸出結構。
func NewResultDTO(r Result) ResultDTO {
	t, p := r.HiddenPower()
	return ResultDTO{
		Seed:    fmt.Sprintf("%08X", r.Seed),
		Method:  r.Method.String(),
		PID:     fmt.Sprintf("%08X", r.PID),
		Nature:  trait.NatureName(r.Nature()),
		Ability: r.Ability(),
		IVs:     r.IVs,
		HPType:  trait.HPTypeName(t),
		HPPower: p,
	}
}

// Sink 接收每一筆在確認當下送出的結果。
type Sink interface {
	Emit(Result)
}

// SinkFunc 讓一般函數滿足 Sink。
type SinkFunc func(Result)

func (f SinkFunc) Emit(r Result) { f(r) }

// Discard 丟棄所有結果，只讓搜尋器計數。
var Discard Sink = SinkFunc(func(Result) {})

// Tee 依序把結果送給每個 sink；nil 會被略過。
func Tee(sinks ...Sink) Sink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return SinkFunc(func(r Result) {
		for _, s := range out {
			s.Emit(r)
		}
	})
}

// Locked 以互斥鎖包裝 sink，供多個工作協程共用同一個輸出。
func Locked(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return &lockedSink{next: s}
}

type lockedSink struct {
	mu   sync.Mutex
	next Sink
}

func (l *lockedSink) Emit(r Result) {
	l.mu.Lock()
	l.next.Emit(r)
	l.mu.Unlock()
}

// Collector 把結果收進切片，測試與小範圍查詢使用。
type Collector struct {
	Results []Result
}

func (c *Collector) Emit(r Result) {
	c.Results = append(c.Results, r)
}
