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

// Package trait 把 LCRNG 的 16-bit 輸出解讀成個體值（IV）、性格值（PID）與覺醒力量。
//
// 所有函數都是純函數，會在窮舉的熱路徑中被呼叫數十億次，
// 因此只用整數位元運算，不配置記憶體。
package trait

// 個體值欄位索引，IVs 內的排列順序。
const (
	HP = iota
	Atk
	Def
	SpA
	SpD
	Spe
)

// IVs 依 HP/Atk/Def/SpA/SpD/Spe 排列的六項個體值。
type IVs [6]int

// Total 回傳六項個體值總和。
func (v IVs) Total() int {
	return v[HP] + v[Atk] + v[Def] + v[SpA] + v[SpD] + v[Spe]
}

// SplitIV 把一個輸出拆成三個 5-bit 欄位（bit 0-4, 5-9, 10-14），bit 15 不使用。
func SplitIV(out uint16) (int, int, int) {
	return int(out & 0x1F), int(out>>5) & 0x1F, int(out>>10) & 0x1F
}

// DecodeIVs 以兩個輸出組出完整六項個體值。
//
// iv1 依序放 HP / Atk / Def；iv2 依遊戲原生順序放 Spe / SpA / SpD。
func DecodeIVs(iv1, iv2 uint16) IVs {
	hp, atk, def := SplitIV(iv1)
	spe, spa, spd := SplitIV(iv2)
	return IVs{hp, atk, def, spa, spd, spe}
}

// EncodeIVs 為 DecodeIVs 的反向，bit 15 一律為 0。
func EncodeIVs(v IVs) (uint16, uint16) {
	iv1 := uint16(v[HP]&0x1F) | uint16(v[Atk]&0x1F)<<5 | uint16(v[Def]&0x1F)<<10
	iv2 := uint16(v[Spe]&0x1F) | uint16(v[SpA]&0x1F)<<5 | uint16(v[SpD]&0x1F)<<10
	return iv1, iv2
}

// IVTester 判斷一個輸出是否滿足三項個體值條件。
type IVTester func(out uint16, a, b, c int) bool

// MinIV 三個欄位皆 >= 對應目標。
func MinIV(out uint16, a, b, c int) bool {
	x, y, z := SplitIV(out)
	return x >= a && y >= b && z >= c
}

// ExactIV 三個欄位皆等於對應目標。
func ExactIV(out uint16, a, b, c int) bool {
	x, y, z := SplitIV(out)
	return x == a && y == b && z == c
}

// GetIVTester 依模式回傳對應的測試函數。
// 搜尋開始前呼叫一次即可，迴圈內不再分支。
func GetIVTester(exact bool) IVTester {
	if exact {
		return ExactIV
	}
	return MinIV
}
