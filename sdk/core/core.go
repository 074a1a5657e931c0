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

// Package core 實作第三、四世代掌機遊戲所使用的 32-bit 線性同餘亂數（LCRNG）。
//
// 狀態只有一個 uint32，每呼叫一次：
//
//	state = state*0x41C64E6D + 0x6073 (mod 2^32)
//
// 並以新狀態的高 16 位作為輸出。乘數為奇數，因此整個遞推式在 mod 2^32 下可逆，
// Prev 可以從任何狀態精確退回上一個狀態。
//
// 本包只提供純函數與一個極薄的有狀態包裝（LCRNG）。
package core

// LCRNG 是有狀態的包裝，適合逐次取輸出的流程（例如連鎖異色）。
// 它不是併發安全的；每個 goroutine 請持有自己的實例。
type LCRNG struct {
	Seed uint32
}

// New 以指定狀態建立 LCRNG。
func New(seed uint32) *LCRNG {
	return &LCRNG{Seed: seed}
}

// Next 前進一步並回傳輸出。
func (r *LCRNG) Next() uint16 {
	var out uint16
	r.Seed, out = Next(r.Seed)
	return out
}
